package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/halloway/centavo/internal/common"
	"github.com/halloway/centavo/internal/model"
	"github.com/halloway/centavo/internal/service"
)

// maxTitleLength is the longest accepted expense or due name.
const maxTitleLength = 50

// Ledger orchestrates every balance-affecting operation. All writes go
// through the store's transaction facility: the balance update and the log
// insert either both commit or neither is observable.
type Ledger struct {
	store service.Store
}

// New creates a ledger bound to the given store.
func New(store service.Store) *Ledger {
	return &Ledger{store: store}
}

// RecordExpense validates and atomically applies one expense: the funding
// source's balance is adjusted and the log entry inserted as a single unit.
// Validation order is fixed; the first failure wins and nothing is applied.
// Errors are always one of the common ledger kinds.
func (l *Ledger) RecordExpense(ctx context.Context, expense *model.Expense) error {
	if err := validateExpenseInput(expense); err != nil {
		return err
	}

	tx, err := l.store.BeginTx(ctx)
	if err != nil {
		return common.StorageError(err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := l.recordExpenseTx(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return common.StorageError(err)
	}

	slog.Debug("recorded expense",
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
		"is_send", expense.IsSend)
	return nil
}

// recordExpenseTx runs the resolve/apply/insert sequence inside an already
// open transaction. The caller owns commit and rollback.
func (l *Ledger) recordExpenseTx(ctx context.Context, tx service.Tx, expense *model.Expense) error {
	source, err := ResolveFunding(ctx, tx, expense.AccountID, expense.CardID)
	if err != nil {
		return err
	}

	if err := source.Apply(expense.Amount, expense.IsSend); err != nil {
		return err
	}

	if err := source.Save(ctx, tx); err != nil {
		return err
	}

	if _, err := tx.InsertExpense(ctx, expense); err != nil {
		return common.StorageError(err)
	}

	return nil
}

// UpdateExpenseDetails edits the descriptive fields of a recorded expense.
// Amount, source, and polarity are immutable once recorded; there is no path
// that re-runs the debit/credit sequence for an existing entry.
func (l *Ledger) UpdateExpenseDetails(ctx context.Context, id int64, title, description string, categoryID *int64) error {
	if err := validateTitle(title); err != nil {
		return err
	}

	existing, err := l.store.GetExpenseByID(ctx, id)
	if err != nil {
		return common.StorageError(err)
	}
	if existing == nil {
		return fmt.Errorf("%w: expense %d", common.ErrItemNotFound, id)
	}

	if categoryID != nil {
		category, err := l.store.GetCategoryByID(ctx, *categoryID)
		if err != nil {
			return common.StorageError(err)
		}
		if category == nil {
			return fmt.Errorf("%w: category %d", common.ErrItemNotFound, *categoryID)
		}
	}

	if err := l.store.UpdateExpenseDetails(ctx, id, title, description, categoryID); err != nil {
		return common.StorageError(err)
	}
	return nil
}

// DeleteExpenses removes ledger entries. The ledger is forward-only: the
// funding sources' balances are not retroactively recomputed.
func (l *Ledger) DeleteExpenses(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	ok, err := l.store.DeleteExpensesByID(ctx, ids)
	if err != nil {
		return common.StorageError(err)
	}
	if !ok {
		return fmt.Errorf("%w: not all expenses existed", common.ErrItemNotFound)
	}
	return nil
}

// DeleteFiltered removes every expense matching the filter and returns how
// many were deleted. This backs the select-all / delete-selected flow.
func (l *Ledger) DeleteFiltered(ctx context.Context, profileID int64, filters model.ExpenseFilters) (int, error) {
	ids, err := l.store.FilterExpenseIDs(ctx, profileID, filters, model.SortByDate, model.SortDescending)
	if err != nil {
		return 0, common.StorageError(err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := l.DeleteExpenses(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// validateExpenseInput enforces the fixed validation order for new entries:
// name, amount, then funding-source shape. Storage is not touched.
func validateExpenseInput(expense *model.Expense) error {
	if expense == nil {
		return fmt.Errorf("%w: expense is nil", common.ErrInvalidName)
	}
	if err := validateTitle(expense.Title); err != nil {
		return err
	}
	if !expense.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", common.ErrInvalidAmount, expense.Amount)
	}
	if !expense.HasExactlyOneSource() {
		return common.ErrInvalidSourceOfFunds
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is blank", common.ErrInvalidName)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", common.ErrInvalidName, maxTitleLength)
	}
	return nil
}
