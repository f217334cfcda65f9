package listing

import "errors"

var (
	ErrNotFound   = errors.New("listing not found")
	ErrValidation = errors.New("validation error")
)
