package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single ledger entry: money sent from or received into exactly
// one funding source. Amount, source, and polarity are immutable facts once
// recorded; only title, description, and category may change afterwards.
//
// Date is an opaque epoch-millisecond timestamp supplied by the caller and is
// never reinterpreted here. Currency is an opaque ISO code, never converted.
type Expense struct {
	CreatedAt   time.Time
	Title       string
	Description string
	Currency    string
	Amount      decimal.Decimal
	ID          int64
	ProfileID   int64
	AccountID   *int64
	CardID      *int64
	CategoryID  *int64
	SourceDueID *int64
	Date        int64
	IsSend      bool
}

// HasExactlyOneSource reports whether the expense names exactly one funding
// source. Both-set and neither-set are equally invalid.
func (e *Expense) HasExactlyOneSource() bool {
	return (e.AccountID != nil) != (e.CardID != nil)
}
