// Package storage provides the SQLite persistence layer for the ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/halloway/centavo/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrEmptySlice   = errors.New("slice cannot be empty")
	ErrInvalidID    = errors.New("id must be positive")
	ErrInvalidEntity = errors.New("invalid entity")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures an id parameter is positive.
func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidID, paramName)
	}
	return nil
}

// validateAccount checks the structural fields the store relies on. Business
// rules (balance arithmetic, funding-source exclusivity) live in the ledger.
func validateAccount(account *model.Account) error {
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if strings.TrimSpace(account.Name) == "" {
		return fmt.Errorf("%w: account missing name", ErrInvalidEntity)
	}
	if account.Currency == "" {
		return fmt.Errorf("%w: account missing currency", ErrInvalidEntity)
	}
	return nil
}

func validateCard(card *model.Card) error {
	if card == nil {
		return fmt.Errorf("%w: card", ErrNilParameter)
	}
	if strings.TrimSpace(card.Name) == "" {
		return fmt.Errorf("%w: card missing name", ErrInvalidEntity)
	}
	if card.Currency == "" {
		return fmt.Errorf("%w: card missing currency", ErrInvalidEntity)
	}
	return nil
}

func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: category missing name", ErrInvalidEntity)
	}
	return nil
}

func validateDue(due *model.Due) error {
	if due == nil {
		return fmt.Errorf("%w: due", ErrNilParameter)
	}
	if strings.TrimSpace(due.Name) == "" {
		return fmt.Errorf("%w: due missing name", ErrInvalidEntity)
	}
	if due.Currency == "" {
		return fmt.Errorf("%w: due missing currency", ErrInvalidEntity)
	}
	return nil
}

func validateExpense(expense *model.Expense) error {
	if expense == nil {
		return fmt.Errorf("%w: expense", ErrNilParameter)
	}
	if strings.TrimSpace(expense.Title) == "" {
		return fmt.Errorf("%w: expense missing title", ErrInvalidEntity)
	}
	if expense.Currency == "" {
		return fmt.Errorf("%w: expense missing currency", ErrInvalidEntity)
	}
	if expense.ProfileID <= 0 {
		return fmt.Errorf("%w: expense missing profile", ErrInvalidEntity)
	}
	if !expense.HasExactlyOneSource() {
		return fmt.Errorf("%w: expense must reference exactly one funding source", ErrInvalidEntity)
	}
	return nil
}

// parseDecimal converts a stored TEXT amount back into a decimal.
func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt decimal column %q: %w", s, err)
	}
	return d, nil
}
