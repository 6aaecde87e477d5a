package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/halloway/centavo/internal/model"
)

// GetAccountByID retrieves an account, or (nil, nil) when absent.
func (s *SQLiteStore) GetAccountByID(ctx context.Context, id int64) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}
	return s.getAccountByIDTx(ctx, s.db, id)
}

func (s *SQLiteStore) getAccountByIDTx(ctx context.Context, q queryable, id int64) (*model.Account, error) {
	var a model.Account
	var balance string

	err := q.QueryRowContext(ctx, `
		SELECT id, profile_id, name, balance, currency, display_order, is_default, created_at
		FROM accounts
		WHERE id = ?
	`, id).Scan(&a.ID, &a.ProfileID, &a.Name, &balance, &a.Currency, &a.DisplayOrder, &a.IsDefault, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if a.Balance, err = parseDecimal(balance); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAccount inserts a new account at the end of the profile's display
// order and returns its id.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *model.Account) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateAccount(account); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM accounts WHERE profile_id = ?
	`, account.ProfileID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (profile_id, name, balance, currency, display_order, is_default)
		VALUES (?, ?, ?, ?, ?, ?)
	`, account.ProfileID, account.Name, account.Balance.String(), account.Currency, next, account.IsDefault)
	if err != nil {
		return 0, fmt.Errorf("failed to insert account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read account id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit account insert: %w", err)
	}

	account.ID = id
	account.DisplayOrder = next
	return id, nil
}

// ListAccounts returns the profile's accounts in display order.
func (s *SQLiteStore) ListAccounts(ctx context.Context, profileID int64) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(profileID, "profileID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id, name, balance, currency, display_order, is_default, created_at
		FROM accounts
		WHERE profile_id = ?
		ORDER BY display_order ASC, id ASC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		var balance string
		if err := rows.Scan(&a.ID, &a.ProfileID, &a.Name, &balance, &a.Currency, &a.DisplayOrder, &a.IsDefault, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		if a.Balance, err = parseDecimal(balance); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// UpdateAccount writes the account row and reports whether a row changed.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, account *model.Account) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateAccount(account); err != nil {
		return false, err
	}
	return s.updateAccountTx(ctx, s.db, account)
}

func (s *SQLiteStore) updateAccountTx(ctx context.Context, q queryable, account *model.Account) (bool, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE accounts
		SET name = ?, balance = ?, currency = ?, is_default = ?
		WHERE id = ?
	`, account.Name, account.Balance.String(), account.Currency, account.IsDefault, account.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update account: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return n > 0, nil
}

// DeleteAccountByID removes an account and renumbers the remaining display
// order so it stays dense. Expenses funded by the account cascade away with
// it; their past balance effects are not reversed.
func (s *SQLiteStore) DeleteAccountByID(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateID(id, "id"); err != nil {
		return false, err
	}
	return s.deleteOrdered(ctx, "accounts", id)
}

// ReorderAccounts renumbers the profile's accounts to match orderedIDs,
// which must be a permutation of the full set.
func (s *SQLiteStore) ReorderAccounts(ctx context.Context, profileID int64, orderedIDs []int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(profileID, "profileID"); err != nil {
		return err
	}
	return s.reorder(ctx, "accounts", profileID, orderedIDs)
}

// deleteOrdered deletes one row from a display-ordered table and compacts
// the surviving display_order values back to 0..N-1.
func (s *SQLiteStore) deleteOrdered(ctx context.Context, table string, id int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var profileID int64
	var order int
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT profile_id, display_order FROM %s WHERE id = ?`, table), id,
	).Scan(&profileID, &order)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to locate row: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id); err != nil {
		return false, fmt.Errorf("failed to delete row: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET display_order = display_order - 1 WHERE profile_id = ? AND display_order > ?`, table),
		profileID, order); err != nil {
		return false, fmt.Errorf("failed to compact display order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}
	return true, nil
}

// reorder renumbers display_order for the given table to match orderedIDs.
func (s *SQLiteStore) reorder(ctx context.Context, table string, profileID int64, orderedIDs []int64) error {
	if len(orderedIDs) == 0 {
		return fmt.Errorf("%w: orderedIDs", ErrEmptySlice)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE profile_id = ?`, table), profileID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	if count != len(orderedIDs) {
		return fmt.Errorf("reorder must cover the full set: have %d ids, table has %d rows", len(orderedIDs), count)
	}

	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf(`UPDATE %s SET display_order = ? WHERE id = ? AND profile_id = ?`, table))
	if err != nil {
		return fmt.Errorf("failed to prepare reorder statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for pos, id := range orderedIDs {
		res, execErr := stmt.ExecContext(ctx, pos, id, profileID)
		if execErr != nil {
			return fmt.Errorf("failed to renumber id %d: %w", id, execErr)
		}
		n, raErr := res.RowsAffected()
		if raErr != nil {
			return fmt.Errorf("failed to read renumber result: %w", raErr)
		}
		if n == 0 {
			return fmt.Errorf("id %d does not belong to profile %d", id, profileID)
		}
	}

	return tx.Commit()
}
