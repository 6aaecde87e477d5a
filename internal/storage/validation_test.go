package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/halloway/centavo/internal/model"
)

func TestValidateContext(t *testing.T) {
	if err := validateContext(context.Background()); err != nil {
		t.Errorf("Expected no error for valid context, got %v", err)
	}
	//nolint:staticcheck // Testing the nil-context guard.
	if err := validateContext(nil); !errors.Is(err, ErrNilContext) {
		t.Errorf("Expected ErrNilContext, got %v", err)
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid string", "hello", false},
		{"empty string", "", true},
		{"whitespace only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.value, "param")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	if err := validateID(1, "id"); err != nil {
		t.Errorf("Expected no error for positive id, got %v", err)
	}
	if err := validateID(0, "id"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Expected ErrInvalidID for zero, got %v", err)
	}
	if err := validateID(-5, "id"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Expected ErrInvalidID for negative, got %v", err)
	}
}

func TestValidateExpense(t *testing.T) {
	accountID := int64(1)
	cardID := int64(2)

	valid := func() *model.Expense {
		return &model.Expense{
			ProfileID: 1,
			Title:     "Coffee",
			Amount:    decimal.NewFromInt(4),
			Currency:  "USD",
			AccountID: &accountID,
		}
	}

	tests := []struct {
		mutate  func(*model.Expense)
		name    string
		wantErr bool
	}{
		{name: "valid expense", mutate: func(*model.Expense) {}, wantErr: false},
		{name: "blank title", mutate: func(e *model.Expense) { e.Title = "  " }, wantErr: true},
		{name: "missing currency", mutate: func(e *model.Expense) { e.Currency = "" }, wantErr: true},
		{name: "missing profile", mutate: func(e *model.Expense) { e.ProfileID = 0 }, wantErr: true},
		{name: "no funding source", mutate: func(e *model.Expense) { e.AccountID = nil }, wantErr: true},
		{name: "both funding sources", mutate: func(e *model.Expense) { e.CardID = &cardID }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expense := valid()
			tt.mutate(expense)
			err := validateExpense(expense)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateExpense() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := validateExpense(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("Expected ErrNilParameter for nil expense, got %v", err)
	}
}

func TestParseDecimal(t *testing.T) {
	d, err := parseDecimal("12.345")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !d.Equal(decimal.RequireFromString("12.345")) {
		t.Errorf("Expected 12.345, got %s", d)
	}

	if _, err := parseDecimal("not-a-number"); err == nil {
		t.Error("Expected error for corrupt decimal")
	}
}
