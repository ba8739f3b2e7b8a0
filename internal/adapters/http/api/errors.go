package api

import (
	"errors"
	"net/http"

	service "github.com/SamHedgehogs/nba2k-league-bot/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("missing user identity")
)

// opError tags an error with the handler operation that produced it.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	switch {
	case e.err != nil && e.kind != nil:
		return e.op + ": " + e.kind.Error() + ": " + e.err.Error()
	case e.err != nil:
		return e.op + ": " + e.err.Error()
	default:
		return e.op + ": " + e.kind.Error()
	}
}

func (e *opError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.err != nil {
		out = append(out, e.err)
	}
	return out
}

// NewKind reports kind from op.
func NewKind(op string, kind error) error {
	return &opError{op: op, kind: kind}
}

// WrapKind reports err from op, classified as kind.
func WrapKind(op string, kind, err error) error {
	return &opError{op: op, kind: kind, err: err}
}

// Wrap reports err from op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// statusFor maps a command failure kind to an HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindNone:
		return http.StatusOK
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict, service.KindInvariant:
		return http.StatusConflict
	case service.KindCapViolation:
		return http.StatusUnprocessableEntity
	case service.KindTransient:
		return http.StatusBadGateway
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
