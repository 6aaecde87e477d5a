// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Ledger error kinds. Every failing ledger, due, or report operation returns
// exactly one of these (possibly wrapped); callers dispatch with errors.Is.
var (
	// ErrInvalidName indicates a blank or over-long title/name.
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidAmount indicates a zero or negative amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidSourceOfFunds indicates both or neither of account/card set.
	ErrInvalidSourceOfFunds = errors.New("invalid source of funds")
	// ErrItemNotFound indicates a referenced entity does not exist.
	ErrItemNotFound = errors.New("item not found")
	// ErrInsufficientBalance indicates a debit larger than the source balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidRecurrenceRule indicates an inconsistent due recurrence rule.
	ErrInvalidRecurrenceRule = errors.New("invalid recurrence rule")
	// ErrStorageFailure indicates the durable store failed mid-operation.
	// The operation has been rolled back whole; nothing was applied.
	ErrStorageFailure = errors.New("storage failure")
)

// StorageError tags a store error as ErrStorageFailure, preserving the
// underlying detail in the message. Returns nil for nil.
func StorageError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorageFailure, err)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
