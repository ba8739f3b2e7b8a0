package rostersource

import "errors"

var (
	// ErrFetch wraps every transport, status and decode failure.
	ErrFetch = errors.New("roster fetch failed")
	ErrNoURL = errors.New("roster url is not configured")
)
