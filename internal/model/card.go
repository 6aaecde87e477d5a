package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Card is a card funding source. It behaves identically to an account in the
// ledger; Expiry and LastFourDigits are display metadata only.
type Card struct {
	CreatedAt      time.Time
	Name           string
	Currency       string
	Expiry         string
	LastFourDigits string
	Balance        decimal.Decimal
	ID             int64
	ProfileID      int64
	DisplayOrder   int
	IsDefault      bool
}
