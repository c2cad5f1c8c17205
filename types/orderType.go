package types

type Side string

const (
	SideTypeBuy  Side = "BUY"
	SideTypeSell Side = "SELL"
)

// SideForPosition maps a crossover position change to the side of the
// simulated trade. Zero has no side.
func SideForPosition(position int) (Side, bool) {
	switch {
	case position > 0:
		return SideTypeBuy, true
	case position < 0:
		return SideTypeSell, true
	}
	return "", false
}
