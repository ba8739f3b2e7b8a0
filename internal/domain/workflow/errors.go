package workflow

import "errors"

// Sentinel errors for proposal resolution.
var (
	ErrProposalNotFound = errors.New("proposal not found")
	ErrAlreadyResolved  = errors.New("proposal already resolved")
	ErrNotResolvable    = errors.New("proposal has no resolution action")
	ErrInvariant        = errors.New("invariant violation")
	ErrUnknownVerdict   = errors.New("unknown verdict")
)
