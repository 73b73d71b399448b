package errors

import "errors"

var (
	ErrNotFound = errors.New("event block not found")

	ErrInvalidID = errors.New("invalid event block ID format")
)
