package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurrenceUnit is the calendar unit a recurring due repeats on.
type RecurrenceUnit string

const (
	// RecurrenceDays repeats every N days.
	RecurrenceDays RecurrenceUnit = "DAYS"
	// RecurrenceWeeks repeats every N weeks.
	RecurrenceWeeks RecurrenceUnit = "WEEKS"
	// RecurrenceMonths repeats every N months.
	RecurrenceMonths RecurrenceUnit = "MONTHS"
	// RecurrenceYears repeats every N years.
	RecurrenceYears RecurrenceUnit = "YEARS"
)

// Valid reports whether the unit is one of the known recurrence units.
func (u RecurrenceUnit) Valid() bool {
	switch u {
	case RecurrenceDays, RecurrenceWeeks, RecurrenceMonths, RecurrenceYears:
		return true
	}
	return false
}

// Due is a recorded obligation, optionally recurring, that has not yet been
// converted into an expense. Paying a due routes through the same ledger path
// as a regular expense; LastPaymentDate is stamped only on a successful
// payment (epoch millis).
type Due struct {
	CreatedAt          time.Time
	Name               string
	Currency           string
	RecurrenceUnit     RecurrenceUnit
	Amount             decimal.Decimal
	ID                 int64
	ProfileID          int64
	AccountID          *int64
	CardID             *int64
	LastPaymentDate    *int64
	RecurrenceInterval int
	IsRecurring        bool
}

// HasFundingSource reports whether the due names a funding source at all.
// Unlike expenses, a due may name none; paying it then requires one.
func (d *Due) HasFundingSource() bool {
	return d.AccountID != nil || d.CardID != nil
}
