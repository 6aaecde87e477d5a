package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/halloway/centavo/internal/model"
)

// GetCardByID retrieves a card, or (nil, nil) when absent.
func (s *SQLiteStore) GetCardByID(ctx context.Context, id int64) (*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}
	return s.getCardByIDTx(ctx, s.db, id)
}

func (s *SQLiteStore) getCardByIDTx(ctx context.Context, q queryable, id int64) (*model.Card, error) {
	var c model.Card
	var balance string
	var expiry, lastFour sql.NullString

	err := q.QueryRowContext(ctx, `
		SELECT id, profile_id, name, balance, currency, expiry, last_four_digits,
		       display_order, is_default, created_at
		FROM cards
		WHERE id = ?
	`, id).Scan(&c.ID, &c.ProfileID, &c.Name, &balance, &c.Currency, &expiry, &lastFour,
		&c.DisplayOrder, &c.IsDefault, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	c.Expiry = expiry.String
	c.LastFourDigits = lastFour.String
	if c.Balance, err = parseDecimal(balance); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCard inserts a new card at the end of the profile's display order.
func (s *SQLiteStore) CreateCard(ctx context.Context, card *model.Card) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateCard(card); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM cards WHERE profile_id = ?
	`, card.ProfileID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO cards (profile_id, name, balance, currency, expiry, last_four_digits, display_order, is_default)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, card.ProfileID, card.Name, card.Balance.String(), card.Currency,
		card.Expiry, card.LastFourDigits, next, card.IsDefault)
	if err != nil {
		return 0, fmt.Errorf("failed to insert card: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read card id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit card insert: %w", err)
	}

	card.ID = id
	card.DisplayOrder = next
	return id, nil
}

// ListCards returns the profile's cards in display order.
func (s *SQLiteStore) ListCards(ctx context.Context, profileID int64) ([]model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(profileID, "profileID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id, name, balance, currency, expiry, last_four_digits,
		       display_order, is_default, created_at
		FROM cards
		WHERE profile_id = ?
		ORDER BY display_order ASC, id ASC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []model.Card
	for rows.Next() {
		var c model.Card
		var balance string
		var expiry, lastFour sql.NullString
		if err := rows.Scan(&c.ID, &c.ProfileID, &c.Name, &balance, &c.Currency, &expiry, &lastFour,
			&c.DisplayOrder, &c.IsDefault, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		c.Expiry = expiry.String
		c.LastFourDigits = lastFour.String
		if c.Balance, err = parseDecimal(balance); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}

	return cards, rows.Err()
}

// UpdateCard writes the card row and reports whether a row changed.
func (s *SQLiteStore) UpdateCard(ctx context.Context, card *model.Card) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateCard(card); err != nil {
		return false, err
	}
	return s.updateCardTx(ctx, s.db, card)
}

func (s *SQLiteStore) updateCardTx(ctx context.Context, q queryable, card *model.Card) (bool, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE cards
		SET name = ?, balance = ?, currency = ?, expiry = ?, last_four_digits = ?, is_default = ?
		WHERE id = ?
	`, card.Name, card.Balance.String(), card.Currency, card.Expiry, card.LastFourDigits, card.IsDefault, card.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update card: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return n > 0, nil
}

// DeleteCardByID removes a card and compacts the display order.
func (s *SQLiteStore) DeleteCardByID(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateID(id, "id"); err != nil {
		return false, err
	}
	return s.deleteOrdered(ctx, "cards", id)
}

// ReorderCards renumbers the profile's cards to match orderedIDs.
func (s *SQLiteStore) ReorderCards(ctx context.Context, profileID int64, orderedIDs []int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(profileID, "profileID"); err != nil {
		return err
	}
	return s.reorder(ctx, "cards", profileID, orderedIDs)
}
