package trade

import "errors"

// Sentinel kinds for trade validation.
var (
	ErrCapViolation = errors.New("cap violation")
)
