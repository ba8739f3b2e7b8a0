package worker

import "errors"

var (
	ErrJobPanicked = errors.New("job panicked")
	ErrNoRun       = errors.New("job has no run function")
)
