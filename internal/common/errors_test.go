package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestStorageError(t *testing.T) {
	if StorageError(nil) != nil {
		t.Error("Expected nil for nil input")
	}

	inner := errors.New("disk full")
	wrapped := StorageError(inner)
	if !errors.Is(wrapped, ErrStorageFailure) {
		t.Errorf("Expected ErrStorageFailure, got %v", wrapped)
	}
	if wrapped.Error() != "storage failure: disk full" {
		t.Errorf("Unexpected message: %s", wrapped.Error())
	}
}

func TestUserError(t *testing.T) {
	inner := fmt.Errorf("%w: account 3", ErrItemNotFound)
	err := NewUserError("Account not found", inner)

	var userErr *UserError
	if !errors.As(err, &userErr) {
		t.Fatal("Expected errors.As to find UserError")
	}
	if userErr.UserMessage != "Account not found" {
		t.Errorf("Unexpected message: %s", userErr.UserMessage)
	}
	if !errors.Is(err, ErrItemNotFound) {
		t.Error("Expected wrapped sentinel to survive unwrapping")
	}
}
