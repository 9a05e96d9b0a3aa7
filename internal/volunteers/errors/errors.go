package errors

import "errors"

var (
	ErrNotFound = errors.New("volunteer not found")

	ErrInvalidID = errors.New("invalid volunteer ID format")

	ErrDuplicateEmail = errors.New("volunteer email already registered")
)
