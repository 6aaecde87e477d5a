package ledger

import (
	"context"
	"fmt"

	"github.com/halloway/centavo/internal/common"
	"github.com/halloway/centavo/internal/model"
)

// CreateDue validates and stores a new due. A due may name at most one
// funding source, or none; a source becomes mandatory only when paying.
func (l *Ledger) CreateDue(ctx context.Context, due *model.Due) error {
	if err := validateDueRules(due); err != nil {
		return err
	}

	if _, err := l.store.CreateDue(ctx, due); err != nil {
		return common.StorageError(err)
	}
	return nil
}

// UpdateDue re-validates and rewrites a due. The last-payment marker is
// carried through unchanged; only PayDue moves it.
func (l *Ledger) UpdateDue(ctx context.Context, due *model.Due) error {
	if err := validateDueRules(due); err != nil {
		return err
	}

	existing, err := l.store.GetDueByID(ctx, due.ID)
	if err != nil {
		return common.StorageError(err)
	}
	if existing == nil {
		return fmt.Errorf("%w: due %d", common.ErrItemNotFound, due.ID)
	}
	due.LastPaymentDate = existing.LastPaymentDate

	if err := l.store.UpdateDue(ctx, due); err != nil {
		return common.StorageError(err)
	}
	return nil
}

// PayDue converts a due into an expense through the same atomic debit path
// as RecordExpense, then stamps the due's last-payment marker in the same
// transaction. On any failure neither the balance, the log, nor the marker
// changes. The paid date is epoch millis, recorded verbatim.
func (l *Ledger) PayDue(ctx context.Context, dueID int64, date int64) (*model.Expense, error) {
	due, err := l.store.GetDueByID(ctx, dueID)
	if err != nil {
		return nil, common.StorageError(err)
	}
	if due == nil {
		return nil, fmt.Errorf("%w: due %d", common.ErrItemNotFound, dueID)
	}
	if !due.HasFundingSource() {
		return nil, fmt.Errorf("%w: due %d has no funding source", common.ErrInvalidSourceOfFunds, dueID)
	}

	expense := &model.Expense{
		ProfileID:   due.ProfileID,
		Title:       due.Name,
		Amount:      due.Amount,
		Currency:    due.Currency,
		IsSend:      true,
		AccountID:   due.AccountID,
		CardID:      due.CardID,
		SourceDueID: &due.ID,
		Date:        date,
	}
	if err := validateExpenseInput(expense); err != nil {
		return nil, err
	}

	tx, err := l.store.BeginTx(ctx)
	if err != nil {
		return nil, common.StorageError(err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := l.recordExpenseTx(ctx, tx, expense); err != nil {
		return nil, err
	}

	due.LastPaymentDate = &date
	if err := tx.UpdateDue(ctx, due); err != nil {
		return nil, common.StorageError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.StorageError(err)
	}

	return expense, nil
}

// validateDueRules enforces name, amount, source-shape, and recurrence-rule
// consistency: interval and unit are present, and the interval positive, if
// and only if the due is recurring.
func validateDueRules(due *model.Due) error {
	if due == nil {
		return fmt.Errorf("%w: due is nil", common.ErrInvalidName)
	}
	if err := validateTitle(due.Name); err != nil {
		return err
	}
	if !due.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", common.ErrInvalidAmount, due.Amount)
	}
	if due.AccountID != nil && due.CardID != nil {
		return common.ErrInvalidSourceOfFunds
	}

	if due.IsRecurring {
		if due.RecurrenceInterval <= 0 {
			return fmt.Errorf("%w: recurring due needs a positive interval", common.ErrInvalidRecurrenceRule)
		}
		if !due.RecurrenceUnit.Valid() {
			return fmt.Errorf("%w: recurring due needs a recurrence unit", common.ErrInvalidRecurrenceRule)
		}
	} else if due.RecurrenceInterval != 0 || due.RecurrenceUnit != "" {
		return fmt.Errorf("%w: recurrence fields set on a one-off due", common.ErrInvalidRecurrenceRule)
	}

	return nil
}
