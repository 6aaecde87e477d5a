package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/halloway/centavo/internal/common"
	"github.com/halloway/centavo/internal/model"
)

func newDue(profileID int64, name, amount string) *model.Due {
	return &model.Due{
		ProfileID: profileID,
		Name:      name,
		Amount:    decimal.RequireFromString(amount),
		Currency:  "USD",
	}
}

func TestCreateDue_RecurrenceRules(t *testing.T) {
	ledger, store, cleanup := createTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	profile := testProfile(t, store)
	account := testAccount(t, store, profile.ID, "1000")
	card := testCard(t, store, profile.ID, "500")

	tests := []struct {
		mutate  func(*model.Due)
		name    string
		wantErr error
	}{
		{
			name:   "one-off due without recurrence",
			mutate: func(*model.Due) {},
		},
		{
			name: "recurring due with interval and unit",
			mutate: func(d *model.Due) {
				d.IsRecurring = true
				d.RecurrenceInterval = 2
				d.RecurrenceUnit = model.RecurrenceWeeks
			},
		},
		{
			name: "recurring without interval",
			mutate: func(d *model.Due) {
				d.IsRecurring = true
				d.RecurrenceUnit = model.RecurrenceMonths
			},
			wantErr: common.ErrInvalidRecurrenceRule,
		},
		{
			name: "recurring without unit",
			mutate: func(d *model.Due) {
				d.IsRecurring = true
				d.RecurrenceInterval = 1
			},
			wantErr: common.ErrInvalidRecurrenceRule,
		},
		{
			name: "recurring with negative interval",
			mutate: func(d *model.Due) {
				d.IsRecurring = true
				d.RecurrenceInterval = -1
				d.RecurrenceUnit = model.RecurrenceDays
			},
			wantErr: common.ErrInvalidRecurrenceRule,
		},
		{
			name: "recurring with unknown unit",
			mutate: func(d *model.Due) {
				d.IsRecurring = true
				d.RecurrenceInterval = 1
				d.RecurrenceUnit = "FORTNIGHTS"
			},
			wantErr: common.ErrInvalidRecurrenceRule,
		},
		{
			name: "one-off with stray interval",
			mutate: func(d *model.Due) {
				d.RecurrenceInterval = 3
			},
			wantErr: common.ErrInvalidRecurrenceRule,
		},
		{
			name: "one-off with stray unit",
			mutate: func(d *model.Due) {
				d.RecurrenceUnit = model.RecurrenceYears
			},
			wantErr: common.ErrInvalidRecurrenceRule,
		},
		{
			name: "blank name",
			mutate: func(d *model.Due) {
				d.Name = "  "
			},
			wantErr: common.ErrInvalidName,
		},
		{
			name: "non-positive amount",
			mutate: func(d *model.Due) {
				d.Amount = decimal.Zero
			},
			wantErr: common.ErrInvalidAmount,
		},
		{
			name: "both funding sources",
			mutate: func(d *model.Due) {
				d.AccountID = &account.ID
				d.CardID = &card.ID
			},
			wantErr: common.ErrInvalidSourceOfFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := newDue(profile.ID, "Bill", "25")
			tt.mutate(due)
			err := ledger.CreateDue(ctx, due)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUpdateDue_PreservesLastPaymentDate(t *testing.T) {
	ledger, store, cleanup := createTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	profile := testProfile(t, store)
	account := testAccount(t, store, profile.ID, "1000")

	due := newDue(profile.ID, "Rent", "900")
	due.AccountID = &account.ID
	if err := ledger.CreateDue(ctx, due); err != nil {
		t.Fatalf("Failed to create due: %v", err)
	}

	paidAt := int64(1767225600000)
	if _, err := ledger.PayDue(ctx, due.ID, paidAt); err != nil {
		t.Fatalf("Failed to pay due: %v", err)
	}

	// An update that says nothing about the marker must not clear it.
	due.Amount = decimal.RequireFromString("950")
	due.LastPaymentDate = nil
	if err := ledger.UpdateDue(ctx, due); err != nil {
		t.Fatalf("Failed to update due: %v", err)
	}

	got, err := store.GetDueByID(ctx, due.ID)
	if err != nil {
		t.Fatalf("Failed to get due: %v", err)
	}
	if !got.Amount.Equal(decimal.RequireFromString("950")) {
		t.Errorf("Expected amount 950, got %s", got.Amount)
	}
	if got.LastPaymentDate == nil || *got.LastPaymentDate != paidAt {
		t.Errorf("Expected last payment date %d preserved, got %v", paidAt, got.LastPaymentDate)
	}
}

func TestUpdateDue_MissingDue(t *testing.T) {
	ledger, store, cleanup := createTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	profile := testProfile(t, store)
	due := newDue(profile.ID, "Ghost", "10")
	due.ID = 9999

	err := ledger.UpdateDue(ctx, due)
	if !errors.Is(err, common.ErrItemNotFound) {
		t.Errorf("Expected ErrItemNotFound, got %v", err)
	}
}

func TestPayDue(t *testing.T) {
	ledger, store, cleanup := createTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	profile := testProfile(t, store)
	account := testAccount(t, store, profile.ID, "1000")

	due := newDue(profile.ID, "Internet", "45")
	due.AccountID = &account.ID
	if err := ledger.CreateDue(ctx, due); err != nil {
		t.Fatalf("Failed to create due: %v", err)
	}

	paidAt := int64(1772323200000)
	expense, err := ledger.PayDue(ctx, due.ID, paidAt)
	if err != nil {
		t.Fatalf("Failed to pay due: %v", err)
	}

	if expense.Title != "Internet" || !expense.IsSend {
		t.Errorf("Unexpected expense shape: %+v", expense)
	}
	if expense.SourceDueID == nil || *expense.SourceDueID != due.ID {
		t.Errorf("Expected expense to reference due %d, got %v", due.ID, expense.SourceDueID)
	}
	if expense.Date != paidAt {
		t.Errorf("Expected date %d recorded verbatim, got %d", paidAt, expense.Date)
	}

	got, _ := store.GetAccountByID(ctx, account.ID)
	if !got.Balance.Equal(decimal.RequireFromString("955")) {
		t.Errorf("Expected balance 955, got %s", got.Balance)
	}

	paid, _ := store.GetDueByID(ctx, due.ID)
	if paid.LastPaymentDate == nil || *paid.LastPaymentDate != paidAt {
		t.Errorf("Expected last payment date %d, got %v", paidAt, paid.LastPaymentDate)
	}
}

func TestPayDue_RequiresFundingSource(t *testing.T) {
	ledger, store, cleanup := createTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	profile := testProfile(t, store)

	due := newDue(profile.ID, "Sourceless", "20")
	if err := ledger.CreateDue(ctx, due); err != nil {
		t.Fatalf("Failed to create due: %v", err)
	}

	_, err := ledger.PayDue(ctx, due.ID, 1000)
	if !errors.Is(err, common.ErrInvalidSourceOfFunds) {
		t.Errorf("Expected ErrInvalidSourceOfFunds, got %v", err)
	}
}

func TestPayDue_InsufficientBalanceLeavesNoTrace(t *testing.T) {
	ledger, store, cleanup := createTestLedger(t)
	defer cleanup()
	ctx := context.Background()

	profile := testProfile(t, store)
	account := testAccount(t, store, profile.ID, "10")

	due := newDue(profile.ID, "Rent", "900")
	due.AccountID = &account.ID
	if err := ledger.CreateDue(ctx, due); err != nil {
		t.Fatalf("Failed to create due: %v", err)
	}

	_, err := ledger.PayDue(ctx, due.ID, 1000)
	if !errors.Is(err, common.ErrInsufficientBalance) {
		t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
	}

	got, _ := store.GetAccountByID(ctx, account.ID)
	if !got.Balance.Equal(decimal.RequireFromString("10")) {
		t.Errorf("Expected untouched balance, got %s", got.Balance)
	}
	unpaid, _ := store.GetDueByID(ctx, due.ID)
	if unpaid.LastPaymentDate != nil {
		t.Errorf("Expected no payment marker, got %v", unpaid.LastPaymentDate)
	}
	ids, _ := store.FilterExpenseIDs(ctx, profile.ID, model.ExpenseFilters{}, model.SortByDate, model.SortDescending)
	if len(ids) != 0 {
		t.Errorf("Expected no log entries, got %d", len(ids))
	}
}

func TestPayDue_MissingDue(t *testing.T) {
	ledger, _, cleanup := createTestLedger(t)
	defer cleanup()

	_, err := ledger.PayDue(context.Background(), 9999, 1000)
	if !errors.Is(err, common.ErrItemNotFound) {
		t.Errorf("Expected ErrItemNotFound, got %v", err)
	}
}
