package types

import "fmt"

type Interval string

const (
	Day   Interval = "D"
	Week  Interval = "W"
	Month Interval = "M"
)

var ConvertInterval = map[string]Interval{
	"D":     Day,
	"1d":    Day,
	"day":   Day,
	"W":     Week,
	"1w":    Week,
	"week":  Week,
	"M":     Month,
	"1mo":   Month,
	"month": Month,
}

// ParseInterval maps a config or flag value to an Interval. Only daily and
// coarser bars are supported.
func ParseInterval(s string) (Interval, error) {
	if s == "" {
		return Day, nil
	}
	iv, ok := ConvertInterval[s]
	if !ok {
		return "", fmt.Errorf("unsupported interval %q", s)
	}
	return iv, nil
}
