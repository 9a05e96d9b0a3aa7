package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrSlotTaken = errors.New("slot already booked")

	ErrInvalidTransition = errors.New("invalid booking status transition")
)
