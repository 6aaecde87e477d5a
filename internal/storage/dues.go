package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/halloway/centavo/internal/model"
)

// GetDueByID retrieves a due, or (nil, nil) when absent.
func (s *SQLiteStore) GetDueByID(ctx context.Context, id int64) (*model.Due, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}
	return s.getDueByIDTx(ctx, s.db, id)
}

func (s *SQLiteStore) getDueByIDTx(ctx context.Context, q queryable, id int64) (*model.Due, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, profile_id, name, amount, currency, is_recurring,
		       recurrence_interval, recurrence_unit, last_payment_date,
		       account_id, card_id, created_at
		FROM dues
		WHERE id = ?
	`, id)

	due, err := scanDue(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get due: %w", err)
	}
	return due, nil
}

// CreateDue inserts a new due and returns its id. Recurrence-rule and
// funding-source consistency are the ledger's responsibility; this layer
// only checks structure.
func (s *SQLiteStore) CreateDue(ctx context.Context, due *model.Due) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateDue(due); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO dues (profile_id, name, amount, currency, is_recurring,
			recurrence_interval, recurrence_unit, last_payment_date, account_id, card_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, due.ProfileID, due.Name, due.Amount.String(), due.Currency, due.IsRecurring,
		nullableInt(dueInterval(due)), nullableString(string(due.RecurrenceUnit)),
		due.LastPaymentDate, due.AccountID, due.CardID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert due: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read due id: %w", err)
	}

	due.ID = id
	return id, nil
}

// ListDues returns the profile's dues, most recently created first.
func (s *SQLiteStore) ListDues(ctx context.Context, profileID int64) ([]model.Due, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(profileID, "profileID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id, name, amount, currency, is_recurring,
		       recurrence_interval, recurrence_unit, last_payment_date,
		       account_id, card_id, created_at
		FROM dues
		WHERE profile_id = ?
		ORDER BY id DESC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var dues []model.Due
	for rows.Next() {
		due, scanErr := scanDue(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan due: %w", scanErr)
		}
		dues = append(dues, *due)
	}

	return dues, rows.Err()
}

// UpdateDue rewrites the due row, including the last-payment marker.
func (s *SQLiteStore) UpdateDue(ctx context.Context, due *model.Due) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDue(due); err != nil {
		return err
	}
	return s.updateDueTx(ctx, s.db, due)
}

func (s *SQLiteStore) updateDueTx(ctx context.Context, q queryable, due *model.Due) error {
	res, err := q.ExecContext(ctx, `
		UPDATE dues
		SET name = ?, amount = ?, currency = ?, is_recurring = ?,
		    recurrence_interval = ?, recurrence_unit = ?, last_payment_date = ?,
		    account_id = ?, card_id = ?
		WHERE id = ?
	`, due.Name, due.Amount.String(), due.Currency, due.IsRecurring,
		nullableInt(dueInterval(due)), nullableString(string(due.RecurrenceUnit)),
		due.LastPaymentDate, due.AccountID, due.CardID, due.ID)
	if err != nil {
		return fmt.Errorf("failed to update due: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("due %d does not exist", due.ID)
	}
	return nil
}

// DeleteDueByID removes a due. Expenses materialized from it keep their rows
// with the source reference nulled.
func (s *SQLiteStore) DeleteDueByID(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateID(id, "id"); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM dues WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete due: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n > 0, nil
}

// scanDue reads one due row through the supplied Scan function.
func scanDue(scan func(...any) error) (*model.Due, error) {
	var d model.Due
	var amount string
	var interval sql.NullInt64
	var unit sql.NullString
	var lastPayment, accountID, cardID sql.NullInt64

	err := scan(&d.ID, &d.ProfileID, &d.Name, &amount, &d.Currency, &d.IsRecurring,
		&interval, &unit, &lastPayment, &accountID, &cardID, &d.CreatedAt)
	if err != nil {
		return nil, err
	}

	if d.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	if interval.Valid {
		d.RecurrenceInterval = int(interval.Int64)
	}
	if unit.Valid {
		d.RecurrenceUnit = model.RecurrenceUnit(unit.String)
	}
	if lastPayment.Valid {
		v := lastPayment.Int64
		d.LastPaymentDate = &v
	}
	if accountID.Valid {
		v := accountID.Int64
		d.AccountID = &v
	}
	if cardID.Valid {
		v := cardID.Int64
		d.CardID = &v
	}
	return &d, nil
}

func dueInterval(due *model.Due) int {
	if due.IsRecurring {
		return due.RecurrenceInterval
	}
	return 0
}

func nullableInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
