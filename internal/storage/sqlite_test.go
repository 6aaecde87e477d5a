package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/halloway/centavo/internal/model"
)

// Helper function to create a migrated test store.
func createTestStore(t *testing.T) (*SQLiteStore, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func seedProfile(t *testing.T, store *SQLiteStore) *model.Profile {
	t.Helper()
	profile, err := store.DefaultProfile(context.Background())
	if err != nil {
		t.Fatalf("Failed to create profile: %v", err)
	}
	return profile
}

func seedAccount(t *testing.T, store *SQLiteStore, profileID int64, name, balance string) *model.Account {
	t.Helper()
	account := &model.Account{
		ProfileID: profileID,
		Name:      name,
		Balance:   mustDecimal(t, balance),
		Currency:  "USD",
	}
	if _, err := store.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("Failed to create account %q: %v", name, err)
	}
	return account
}

func seedCard(t *testing.T, store *SQLiteStore, profileID int64, name, balance string) *model.Card {
	t.Helper()
	card := &model.Card{
		ProfileID:      profileID,
		Name:           name,
		Balance:        mustDecimal(t, balance),
		Currency:       "USD",
		Expiry:         "12/28",
		LastFourDigits: "4242",
	}
	if _, err := store.CreateCard(context.Background(), card); err != nil {
		t.Fatalf("Failed to create card %q: %v", name, err)
	}
	return card
}

func seedCategory(t *testing.T, store *SQLiteStore, profileID int64, name string) *model.Category {
	t.Helper()
	category := &model.Category{ProfileID: profileID, Name: name}
	id, err := store.CreateCategory(context.Background(), category)
	if err != nil {
		t.Fatalf("Failed to create category %q: %v", name, err)
	}
	category.ID = id
	return category
}

// seedExpense inserts directly, bypassing the ledger's balance adjustment.
// Storage tests only care about row shape and query behavior.
func seedExpense(t *testing.T, store *SQLiteStore, e model.Expense) *model.Expense {
	t.Helper()
	if e.Currency == "" {
		e.Currency = "USD"
	}
	if e.Date == 0 {
		e.Date = time.Now().UnixMilli()
	}
	if _, err := store.InsertExpense(context.Background(), &e); err != nil {
		t.Fatalf("Failed to insert expense %q: %v", e.Title, err)
	}
	return &e
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("Invalid decimal %q: %v", s, err)
	}
	return d
}

func dayMillis(t *testing.T, day string) int64 {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatalf("Invalid day %q: %v", day, err)
	}
	return parsed.UnixMilli()
}

func TestSQLiteStore_TransactionRollback(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	profile := seedProfile(t, store)
	account := seedAccount(t, store, profile.ID, "Checking", "100")

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	account.Balance = mustDecimal(t, "40")
	if _, err := tx.UpdateAccount(ctx, account); err != nil {
		t.Fatalf("Failed to update account in transaction: %v", err)
	}
	if _, err := tx.InsertExpense(ctx, &model.Expense{
		ProfileID: profile.ID,
		Title:     "Groceries",
		Amount:    mustDecimal(t, "60"),
		Currency:  "USD",
		IsSend:    true,
		AccountID: &account.ID,
		Date:      time.Now().UnixMilli(),
	}); err != nil {
		t.Fatalf("Failed to insert expense in transaction: %v", err)
	}

	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to roll back: %v", err)
	}

	got, err := store.GetAccountByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if !got.Balance.Equal(mustDecimal(t, "100")) {
		t.Errorf("Expected balance 100 after rollback, got %s", got.Balance)
	}

	ids, err := store.FilterExpenseIDs(ctx, profile.ID, model.ExpenseFilters{}, model.SortByDate, model.SortDescending)
	if err != nil {
		t.Fatalf("Failed to list expenses: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Expected no expenses after rollback, got %d", len(ids))
	}
}

func TestSQLiteStore_TransactionCommit(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	profile := seedProfile(t, store)
	account := seedAccount(t, store, profile.ID, "Checking", "100")

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	account.Balance = mustDecimal(t, "40")
	if _, err := tx.UpdateAccount(ctx, account); err != nil {
		t.Fatalf("Failed to update account in transaction: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	got, err := store.GetAccountByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if !got.Balance.Equal(mustDecimal(t, "40")) {
		t.Errorf("Expected balance 40 after commit, got %s", got.Balance)
	}
}

func TestSQLiteStore_GetAbsentReturnsNil(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if got, err := store.GetAccountByID(ctx, 9999); err != nil || got != nil {
		t.Errorf("GetAccountByID(absent) = (%v, %v), want (nil, nil)", got, err)
	}
	if got, err := store.GetCardByID(ctx, 9999); err != nil || got != nil {
		t.Errorf("GetCardByID(absent) = (%v, %v), want (nil, nil)", got, err)
	}
	if got, err := store.GetCategoryByID(ctx, 9999); err != nil || got != nil {
		t.Errorf("GetCategoryByID(absent) = (%v, %v), want (nil, nil)", got, err)
	}
	if got, err := store.GetDueByID(ctx, 9999); err != nil || got != nil {
		t.Errorf("GetDueByID(absent) = (%v, %v), want (nil, nil)", got, err)
	}
	if got, err := store.GetExpenseByID(ctx, 9999); err != nil || got != nil {
		t.Errorf("GetExpenseByID(absent) = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestSQLiteStore_DefaultProfileIsStable(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	first, err := store.DefaultProfile(ctx)
	if err != nil {
		t.Fatalf("Failed to bootstrap profile: %v", err)
	}
	second, err := store.DefaultProfile(ctx)
	if err != nil {
		t.Fatalf("Failed to fetch profile: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Expected the same default profile, got ids %d and %d", first.ID, second.ID)
	}
}
