package errors

import "errors"

var (
	ErrNotFound = errors.New("program not found")

	ErrInvalidID = errors.New("invalid program ID format")

	ErrUnknownKind = errors.New("unknown program kind")
)
