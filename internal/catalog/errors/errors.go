package errors

import "errors"

var (
	ErrGroundNotFound = errors.New("ground not found")

	ErrSlotNotFound = errors.New("slot not found")

	ErrInvalidID = errors.New("invalid catalog ID format")
)
