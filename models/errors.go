package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStartAt      = errors.New("start time must be a valid date")
	ErrInvalidGuestCount   = errors.New("reservation must have at least 1 guest")
	ErrCustomerIDImmutable = errors.New("customer id of a reservation cannot be changed")
	ErrMissingCustomer     = errors.New("reservation must belong to a customer")

	ErrNotFound         = errors.New("record not found")
	ErrAlreadyPersisted = errors.New("record already saved, use update")
	ErrNotPersisted     = errors.New("record not saved yet, use create")
)

// NotFoundError reports a missing row for a lookup by id.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no such %s: %d", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NewNotFound(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// IsValidationError reports whether err came from entity validation
// rather than from the database.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidStartAt) ||
		errors.Is(err, ErrInvalidGuestCount) ||
		errors.Is(err, ErrCustomerIDImmutable) ||
		errors.Is(err, ErrMissingCustomer)
}
