package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrLoad      = errors.New("load league state")
	ErrSave      = errors.New("save league state")
	ErrCorrupt   = errors.New("league state document is corrupt")
	ErrNoStorage = errors.New("storage path is required")
)
