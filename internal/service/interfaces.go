// Package service defines the interfaces the ledger core consumes.
package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/halloway/centavo/internal/model"
)

// ChartPoint is one aggregation bucket: a key (calendar period or entity
// name) and the decimal sum of matching expense amounts.
type ChartPoint struct {
	Bucket string
	Total  decimal.Decimal
}

// ExpenseIterator is a lazy page sequence over filtered expenses. Next
// returns the following window, or (nil, nil) when exhausted. An iterator is
// restartable only by requesting a fresh one from the store; resuming
// mid-sequence after concurrent inserts may observe a shifted window, which
// is accepted staleness rather than a correctness bug.
type ExpenseIterator interface {
	Next(ctx context.Context) ([]model.Expense, error)
}

// Store defines the contract for the durable persistence layer. Absence on
// the Get* methods is a normal (nil, nil) return, not an error. All methods
// honor context cancellation: cancelled reads leave no trace and cancelled
// writes roll back whole.
type Store interface {
	// Profiles
	GetProfileByID(ctx context.Context, id int64) (*model.Profile, error)
	CreateProfile(ctx context.Context, name string) (*model.Profile, error)
	DefaultProfile(ctx context.Context) (*model.Profile, error)

	// Accounts
	GetAccountByID(ctx context.Context, id int64) (*model.Account, error)
	CreateAccount(ctx context.Context, account *model.Account) (int64, error)
	ListAccounts(ctx context.Context, profileID int64) ([]model.Account, error)
	UpdateAccount(ctx context.Context, account *model.Account) (bool, error)
	DeleteAccountByID(ctx context.Context, id int64) (bool, error)
	ReorderAccounts(ctx context.Context, profileID int64, orderedIDs []int64) error

	// Cards
	GetCardByID(ctx context.Context, id int64) (*model.Card, error)
	CreateCard(ctx context.Context, card *model.Card) (int64, error)
	ListCards(ctx context.Context, profileID int64) ([]model.Card, error)
	UpdateCard(ctx context.Context, card *model.Card) (bool, error)
	DeleteCardByID(ctx context.Context, id int64) (bool, error)
	ReorderCards(ctx context.Context, profileID int64, orderedIDs []int64) error

	// Categories
	GetCategoryByID(ctx context.Context, id int64) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) (int64, error)
	ListCategories(ctx context.Context, profileID int64) ([]model.Category, error)
	DeleteCategoryByID(ctx context.Context, id int64) (bool, error)
	ReorderCategories(ctx context.Context, profileID int64, orderedIDs []int64) error

	// Dues
	GetDueByID(ctx context.Context, id int64) (*model.Due, error)
	CreateDue(ctx context.Context, due *model.Due) (int64, error)
	ListDues(ctx context.Context, profileID int64) ([]model.Due, error)
	UpdateDue(ctx context.Context, due *model.Due) error
	DeleteDueByID(ctx context.Context, id int64) (bool, error)

	// Expenses
	InsertExpense(ctx context.Context, expense *model.Expense) (int64, error)
	InsertExpenses(ctx context.Context, expenses []model.Expense) ([]int64, error)
	GetExpenseByID(ctx context.Context, id int64) (*model.Expense, error)
	UpdateExpenseDetails(ctx context.Context, id int64, title, description string, categoryID *int64) error
	DeleteExpenseByID(ctx context.Context, id int64) (bool, error)
	DeleteExpensesByID(ctx context.Context, ids []int64) (bool, error)
	FilterExpenses(profileID int64, filters model.ExpenseFilters, sortBy model.SortBy, sortOrder model.SortOrder, pageSize int) ExpenseIterator
	FilterExpenseIDs(ctx context.Context, profileID int64, filters model.ExpenseFilters, sortBy model.SortBy, sortOrder model.SortOrder) ([]int64, error)
	FilterExpensesChartData(ctx context.Context, profileID int64, groupBy model.GroupBy, filters model.ExpenseFilters) ([]ChartPoint, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// Tx is a store transaction: the full store surface plus commit/rollback.
// Writes made through a Tx become observable only on Commit.
type Tx interface {
	Commit() error
	Rollback() error
	Store
}
