package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halloway/centavo/internal/model"
	"github.com/halloway/centavo/internal/storage"
)

func createTestReporter(t *testing.T) (*Reporter, *storage.SQLiteStore, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	return New(store), store, func() { _ = store.Close() }
}

func day(t *testing.T, s string) int64 {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return parsed.UnixMilli()
}

// seedReportData inserts a profile with a categorized mix of spend and
// income across two months.
func seedReportData(t *testing.T, store *storage.SQLiteStore) int64 {
	t.Helper()
	ctx := context.Background()

	profile, err := store.DefaultProfile(ctx)
	require.NoError(t, err)

	account := &model.Account{ProfileID: profile.ID, Name: "Checking",
		Balance: decimal.RequireFromString("10000"), Currency: "USD"}
	_, err = store.CreateAccount(ctx, account)
	require.NoError(t, err)

	food := &model.Category{ProfileID: profile.ID, Name: "Food"}
	foodID, err := store.CreateCategory(ctx, food)
	require.NoError(t, err)

	entries := []model.Expense{
		{ProfileID: profile.ID, Title: "Groceries", Amount: decimal.RequireFromString("80.10"),
			Currency: "USD", IsSend: true, AccountID: &account.ID, CategoryID: &foodID,
			Date: day(t, "2026-01-10")},
		{ProfileID: profile.ID, Title: "Restaurant", Amount: decimal.RequireFromString("45.90"),
			Currency: "USD", IsSend: true, AccountID: &account.ID, CategoryID: &foodID,
			Date: day(t, "2026-01-20")},
		{ProfileID: profile.ID, Title: "Paycheck", Amount: decimal.RequireFromString("2000"),
			Currency: "USD", IsSend: false, AccountID: &account.ID,
			Date: day(t, "2026-01-25")},
		{ProfileID: profile.ID, Title: "Rent", Amount: decimal.RequireFromString("900"),
			Currency: "USD", IsSend: true, AccountID: &account.ID,
			Date: day(t, "2026-02-01")},
	}
	for i := range entries {
		_, err := store.InsertExpense(ctx, &entries[i])
		require.NoError(t, err)
	}

	return profile.ID
}

func TestChartData_MonthBuckets(t *testing.T) {
	reporter, store, cleanup := createTestReporter(t)
	defer cleanup()
	profileID := seedReportData(t, store)

	points, err := reporter.ChartData(context.Background(), profileID, model.GroupByMonth, model.ExpenseFilters{})
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "2026-01", points[0].Bucket)
	assert.True(t, points[0].Total.Equal(decimal.RequireFromString("2126.00")),
		"expected 2126.00, got %s", points[0].Total)
	assert.Equal(t, "2026-02", points[1].Bucket)
	assert.True(t, points[1].Total.Equal(decimal.RequireFromString("900")))
}

func TestChartData_CategoryTotals(t *testing.T) {
	reporter, store, cleanup := createTestReporter(t)
	defer cleanup()
	profileID := seedReportData(t, store)

	points, err := reporter.ChartData(context.Background(), profileID, model.GroupByCategory, model.ExpenseFilters{})
	require.NoError(t, err)

	// Only Food is referenced; Rent and Paycheck carry no category.
	require.Len(t, points, 1)
	assert.Equal(t, "Food", points[0].Bucket)
	assert.True(t, points[0].Total.Equal(decimal.RequireFromString("126.00")),
		"expected 126.00, got %s", points[0].Total)
}

func TestChartData_UnknownGroupKey(t *testing.T) {
	reporter, store, cleanup := createTestReporter(t)
	defer cleanup()
	profileID := seedReportData(t, store)

	_, err := reporter.ChartData(context.Background(), profileID, "DECADE", model.ExpenseFilters{})
	assert.Error(t, err)
}

func TestChartData_EmptyInput(t *testing.T) {
	reporter, store, cleanup := createTestReporter(t)
	defer cleanup()

	profile, err := store.DefaultProfile(context.Background())
	require.NoError(t, err)

	points, err := reporter.ChartData(context.Background(), profile.ID, model.GroupByYear, model.ExpenseFilters{})
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestSpendAndIncome_SeparatesPolarity(t *testing.T) {
	reporter, store, cleanup := createTestReporter(t)
	defer cleanup()
	profileID := seedReportData(t, store)

	series, err := reporter.SpendAndIncome(context.Background(), profileID, model.GroupByMonth, model.ExpenseFilters{})
	require.NoError(t, err)

	require.Len(t, series.Spend, 2)
	assert.Equal(t, "2026-01", series.Spend[0].Bucket)
	assert.True(t, series.Spend[0].Total.Equal(decimal.RequireFromString("126.00")),
		"expected spend 126.00, got %s", series.Spend[0].Total)
	assert.True(t, series.Spend[1].Total.Equal(decimal.RequireFromString("900")))

	require.Len(t, series.Income, 1)
	assert.Equal(t, "2026-01", series.Income[0].Bucket)
	assert.True(t, series.Income[0].Total.Equal(decimal.RequireFromString("2000")))
}

func TestSpendAndIncome_FiltersApplyToBoth(t *testing.T) {
	reporter, store, cleanup := createTestReporter(t)
	defer cleanup()
	profileID := seedReportData(t, store)

	from := day(t, "2026-02-01")
	series, err := reporter.SpendAndIncome(context.Background(), profileID, model.GroupByMonth,
		model.ExpenseFilters{MinDate: &from})
	require.NoError(t, err)

	require.Len(t, series.Spend, 1)
	assert.Equal(t, "2026-02", series.Spend[0].Bucket)
	assert.Empty(t, series.Income)
}
