package leaguectl

import (
	"errors"
	"fmt"
)

var (
	// ErrBadArgument is returned for a malformed key=value argument.
	ErrBadArgument = errors.New("bad argument")
	// ErrStillPending is returned when a follow-up did not arrive in time.
	ErrStillPending = errors.New("follow-up still pending")
)

// APIError is a non-interaction error answer from the service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}
