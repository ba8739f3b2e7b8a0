package gateway

import "errors"

// Sentinel kinds for gateway errors.
var (
	ErrUnknownCommand     = errors.New("unknown command")
	ErrBusy               = errors.New("command queue is busy")
	ErrInteractionMissing = errors.New("interaction not found")
	ErrCommandPanicked    = errors.New("command panicked")
)
