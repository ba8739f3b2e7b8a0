package provision

import "errors"

var (
	ErrInvalidName  = errors.New("invalid channel name")
	ErrCategoryFull = errors.New("channel category is full")
)
