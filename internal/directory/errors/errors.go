package errors

import "errors"

var (
	ErrCustomerNotFound = errors.New("customer not found")

	ErrSportNotFound = errors.New("sport not found")

	ErrInvalidID = errors.New("invalid directory ID format")
)
