package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/halloway/centavo/internal/model"
	"github.com/halloway/centavo/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the service.Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes all writes, so two concurrent debits
	// can never both observe the same stale balance.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStore) BeginTx(ctx context.Context) (service.Tx, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTx{
		tx:    tx,
		store: s,
	}, nil
}

// sqliteTx wraps sql.Tx to implement service.Tx. Write paths run against the
// wrapped transaction; incidental reads delegate to the main store.
type sqliteTx struct {
	tx    *sql.Tx
	store *SQLiteStore
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) GetProfileByID(ctx context.Context, id int64) (*model.Profile, error) {
	return t.store.GetProfileByID(ctx, id)
}

func (t *sqliteTx) CreateProfile(ctx context.Context, name string) (*model.Profile, error) {
	return t.store.CreateProfile(ctx, name)
}

func (t *sqliteTx) DefaultProfile(ctx context.Context) (*model.Profile, error) {
	return t.store.DefaultProfile(ctx)
}

func (t *sqliteTx) GetAccountByID(ctx context.Context, id int64) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.store.getAccountByIDTx(ctx, t.tx, id)
}

func (t *sqliteTx) CreateAccount(ctx context.Context, account *model.Account) (int64, error) {
	return t.store.CreateAccount(ctx, account)
}

func (t *sqliteTx) ListAccounts(ctx context.Context, profileID int64) ([]model.Account, error) {
	return t.store.ListAccounts(ctx, profileID)
}

func (t *sqliteTx) UpdateAccount(ctx context.Context, account *model.Account) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateAccount(account); err != nil {
		return false, err
	}
	return t.store.updateAccountTx(ctx, t.tx, account)
}

func (t *sqliteTx) DeleteAccountByID(ctx context.Context, id int64) (bool, error) {
	return t.store.DeleteAccountByID(ctx, id)
}

func (t *sqliteTx) ReorderAccounts(ctx context.Context, profileID int64, orderedIDs []int64) error {
	return t.store.ReorderAccounts(ctx, profileID, orderedIDs)
}

func (t *sqliteTx) GetCardByID(ctx context.Context, id int64) (*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.store.getCardByIDTx(ctx, t.tx, id)
}

func (t *sqliteTx) CreateCard(ctx context.Context, card *model.Card) (int64, error) {
	return t.store.CreateCard(ctx, card)
}

func (t *sqliteTx) ListCards(ctx context.Context, profileID int64) ([]model.Card, error) {
	return t.store.ListCards(ctx, profileID)
}

func (t *sqliteTx) UpdateCard(ctx context.Context, card *model.Card) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateCard(card); err != nil {
		return false, err
	}
	return t.store.updateCardTx(ctx, t.tx, card)
}

func (t *sqliteTx) DeleteCardByID(ctx context.Context, id int64) (bool, error) {
	return t.store.DeleteCardByID(ctx, id)
}

func (t *sqliteTx) ReorderCards(ctx context.Context, profileID int64, orderedIDs []int64) error {
	return t.store.ReorderCards(ctx, profileID, orderedIDs)
}

func (t *sqliteTx) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	return t.store.GetCategoryByID(ctx, id)
}

func (t *sqliteTx) CreateCategory(ctx context.Context, category *model.Category) (int64, error) {
	return t.store.CreateCategory(ctx, category)
}

func (t *sqliteTx) ListCategories(ctx context.Context, profileID int64) ([]model.Category, error) {
	return t.store.ListCategories(ctx, profileID)
}

func (t *sqliteTx) DeleteCategoryByID(ctx context.Context, id int64) (bool, error) {
	return t.store.DeleteCategoryByID(ctx, id)
}

func (t *sqliteTx) ReorderCategories(ctx context.Context, profileID int64, orderedIDs []int64) error {
	return t.store.ReorderCategories(ctx, profileID, orderedIDs)
}

func (t *sqliteTx) GetDueByID(ctx context.Context, id int64) (*model.Due, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.store.getDueByIDTx(ctx, t.tx, id)
}

func (t *sqliteTx) CreateDue(ctx context.Context, due *model.Due) (int64, error) {
	return t.store.CreateDue(ctx, due)
}

func (t *sqliteTx) ListDues(ctx context.Context, profileID int64) ([]model.Due, error) {
	return t.store.ListDues(ctx, profileID)
}

func (t *sqliteTx) UpdateDue(ctx context.Context, due *model.Due) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDue(due); err != nil {
		return err
	}
	return t.store.updateDueTx(ctx, t.tx, due)
}

func (t *sqliteTx) DeleteDueByID(ctx context.Context, id int64) (bool, error) {
	return t.store.DeleteDueByID(ctx, id)
}

func (t *sqliteTx) InsertExpense(ctx context.Context, expense *model.Expense) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateExpense(expense); err != nil {
		return 0, err
	}
	return t.store.insertExpenseTx(ctx, t.tx, expense)
}

func (t *sqliteTx) InsertExpenses(ctx context.Context, expenses []model.Expense) ([]int64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.store.insertExpensesTx(ctx, t.tx, expenses)
}

func (t *sqliteTx) GetExpenseByID(ctx context.Context, id int64) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.store.getExpenseByIDTx(ctx, t.tx, id)
}

func (t *sqliteTx) UpdateExpenseDetails(ctx context.Context, id int64, title, description string, categoryID *int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.store.updateExpenseDetailsTx(ctx, t.tx, id, title, description, categoryID)
}

func (t *sqliteTx) DeleteExpenseByID(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return t.store.deleteExpenseByIDTx(ctx, t.tx, id)
}

func (t *sqliteTx) DeleteExpensesByID(ctx context.Context, ids []int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return t.store.deleteExpensesByIDTx(ctx, t.tx, ids)
}

func (t *sqliteTx) FilterExpenses(profileID int64, filters model.ExpenseFilters, sortBy model.SortBy, sortOrder model.SortOrder, pageSize int) service.ExpenseIterator {
	return t.store.filterExpensesOn(t.tx, profileID, filters, sortBy, sortOrder, pageSize)
}

func (t *sqliteTx) FilterExpenseIDs(ctx context.Context, profileID int64, filters model.ExpenseFilters, sortBy model.SortBy, sortOrder model.SortOrder) ([]int64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.store.filterExpenseIDsTx(ctx, t.tx, profileID, filters, sortBy, sortOrder)
}

func (t *sqliteTx) FilterExpensesChartData(ctx context.Context, profileID int64, groupBy model.GroupBy, filters model.ExpenseFilters) ([]service.ChartPoint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.store.filterExpensesChartDataTx(ctx, t.tx, profileID, groupBy, filters)
}

func (t *sqliteTx) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTx) BeginTx(_ context.Context) (service.Tx, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTx) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}

// queryable is an interface satisfied by both *sql.DB and *sql.Tx.
type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
