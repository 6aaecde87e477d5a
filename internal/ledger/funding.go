// Package ledger implements the transactional core: funding-source
// resolution, atomic expense recording, and due payment.
package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/halloway/centavo/internal/common"
	"github.com/halloway/centavo/internal/model"
	"github.com/halloway/centavo/internal/service"
)

// FundingSource is the shared capability of an account or card: a balance
// that debits subtract from and credits add to. The two variants differ only
// in identity and storage row; the ledger never branches on which one it has.
type FundingSource interface {
	// SourceID returns the holder's entity id.
	SourceID() int64
	// Currency returns the holder's ISO currency code, never converted.
	Currency() string
	// Balance returns the current in-memory balance.
	Balance() decimal.Decimal
	// Apply adjusts the in-memory balance by the signed delta: a send
	// subtracts, a receive adds. A send larger than the balance fails with
	// ErrInsufficientBalance and leaves the balance untouched.
	Apply(amount decimal.Decimal, isSend bool) error
	// Save persists the holder's row through the given store (or open
	// transaction, since service.Tx embeds service.Store).
	Save(ctx context.Context, store service.Store) error
}

// ResolveFunding resolves exactly one of accountID/cardID into its holder.
// Both-set and neither-set fail with ErrInvalidSourceOfFunds before any
// storage access; a dangling reference fails with ErrItemNotFound.
func ResolveFunding(ctx context.Context, store service.Store, accountID, cardID *int64) (FundingSource, error) {
	if (accountID != nil) == (cardID != nil) {
		return nil, common.ErrInvalidSourceOfFunds
	}

	if accountID != nil {
		account, err := store.GetAccountByID(ctx, *accountID)
		if err != nil {
			return nil, common.StorageError(err)
		}
		if account == nil {
			return nil, fmt.Errorf("%w: account %d", common.ErrItemNotFound, *accountID)
		}
		return &accountSource{account: account}, nil
	}

	card, err := store.GetCardByID(ctx, *cardID)
	if err != nil {
		return nil, common.StorageError(err)
	}
	if card == nil {
		return nil, fmt.Errorf("%w: card %d", common.ErrItemNotFound, *cardID)
	}
	return &cardSource{card: card}, nil
}

type accountSource struct {
	account *model.Account
}

func (s *accountSource) SourceID() int64          { return s.account.ID }
func (s *accountSource) Currency() string         { return s.account.Currency }
func (s *accountSource) Balance() decimal.Decimal { return s.account.Balance }

func (s *accountSource) Apply(amount decimal.Decimal, isSend bool) error {
	next, err := applyDelta(s.account.Balance, amount, isSend)
	if err != nil {
		return err
	}
	s.account.Balance = next
	return nil
}

func (s *accountSource) Save(ctx context.Context, store service.Store) error {
	ok, err := store.UpdateAccount(ctx, s.account)
	if err != nil {
		return common.StorageError(err)
	}
	if !ok {
		return fmt.Errorf("%w: account %d", common.ErrItemNotFound, s.account.ID)
	}
	return nil
}

type cardSource struct {
	card *model.Card
}

func (s *cardSource) SourceID() int64          { return s.card.ID }
func (s *cardSource) Currency() string         { return s.card.Currency }
func (s *cardSource) Balance() decimal.Decimal { return s.card.Balance }

func (s *cardSource) Apply(amount decimal.Decimal, isSend bool) error {
	next, err := applyDelta(s.card.Balance, amount, isSend)
	if err != nil {
		return err
	}
	s.card.Balance = next
	return nil
}

func (s *cardSource) Save(ctx context.Context, store service.Store) error {
	ok, err := store.UpdateCard(ctx, s.card)
	if err != nil {
		return common.StorageError(err)
	}
	if !ok {
		return fmt.Errorf("%w: card %d", common.ErrItemNotFound, s.card.ID)
	}
	return nil
}

// applyDelta computes the post-transaction balance. A debit must never drive
// the balance negative.
func applyDelta(balance, amount decimal.Decimal, isSend bool) (decimal.Decimal, error) {
	if isSend {
		if balance.LessThan(amount) {
			return decimal.Zero, common.ErrInsufficientBalance
		}
		return balance.Sub(amount), nil
	}
	return balance.Add(amount), nil
}
