package errors

import "errors"

var (
	ErrNotFound = errors.New("availability rule not found")

	ErrInvalidID = errors.New("invalid availability rule ID format")

	ErrOverlappingRule = errors.New("availability rule overlaps an existing rule")
)
