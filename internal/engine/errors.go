package engine

import "errors"

// Error kinds surfaced by a run. Callers match them with errors.Is; the
// wrapped message carries the detail.
var (
	ErrDataUnavailable   = errors.New("no usable closing price data")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrInconsistentInput = errors.New("inconsistent input")
	ErrEmptySeries       = errors.New("empty series")
)
