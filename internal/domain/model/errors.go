package model

import "errors"

// Sentinel kinds for decoding league documents.
var (
	ErrInvalidSalary = errors.New("invalid salary")
	ErrInvalidPlayer = errors.New("invalid player")
)
