// Package model holds the domain types shared by the storage, ledger, and
// reporting layers.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a bank-account funding source. Balance is a decimal carried as
// text in storage; arithmetic on it never passes through floats.
type Account struct {
	CreatedAt    time.Time
	Name         string
	Currency     string
	Balance      decimal.Decimal
	ID           int64
	ProfileID    int64
	DisplayOrder int
	IsDefault    bool
}
