package model

import "github.com/shopspring/decimal"

// SortBy selects the primary sort key for expense queries. Ties on the
// primary key are always broken by id ascending, so ordering is stable.
type SortBy string

const (
	// SortByDate orders by the expense date.
	SortByDate SortBy = "date"
	// SortByAmount orders by the numeric amount.
	SortByAmount SortBy = "amount"
	// SortByTitle orders by title.
	SortByTitle SortBy = "title"
	// SortByCreated orders by insertion time.
	SortByCreated SortBy = "created_at"
)

// Valid reports whether the sort key is known.
func (s SortBy) Valid() bool {
	switch s {
	case SortByDate, SortByAmount, SortByTitle, SortByCreated:
		return true
	}
	return false
}

// SortOrder is the direction of the primary sort key.
type SortOrder string

const (
	// SortAscending sorts smallest first.
	SortAscending SortOrder = "ASC"
	// SortDescending sorts largest first.
	SortDescending SortOrder = "DESC"
)

// GroupBy selects the bucketing dimension for chart aggregation.
type GroupBy string

const (
	// GroupByDay buckets by calendar day.
	GroupByDay GroupBy = "DAY"
	// GroupByWeek buckets by calendar week starting Monday.
	GroupByWeek GroupBy = "WEEK"
	// GroupByMonth buckets by calendar month.
	GroupByMonth GroupBy = "MONTH"
	// GroupByYear buckets by calendar year.
	GroupByYear GroupBy = "YEAR"
	// GroupByCategory buckets per referenced category.
	GroupByCategory GroupBy = "CATEGORY"
	// GroupByAccount buckets per referenced account.
	GroupByAccount GroupBy = "ACCOUNT"
	// GroupByCard buckets per referenced card.
	GroupByCard GroupBy = "CARD"
)

// Valid reports whether the group key is known.
func (g GroupBy) Valid() bool {
	switch g {
	case GroupByDay, GroupByWeek, GroupByMonth, GroupByYear,
		GroupByCategory, GroupByAccount, GroupByCard:
		return true
	}
	return false
}

// ExpenseFilters is a sparse filter specification. A nil field imposes no
// constraint; every present field narrows the result via conjunction.
// Date and amount bounds are inclusive. Query matches case-insensitively as
// a substring against title or description.
type ExpenseFilters struct {
	IsSend     *bool
	Query      string
	AccountID  *int64
	CardID     *int64
	CategoryID *int64
	MinDate    *int64
	MaxDate    *int64
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

// Empty reports whether no filter field is set.
func (f ExpenseFilters) Empty() bool {
	return f.IsSend == nil && f.Query == "" && f.AccountID == nil &&
		f.CardID == nil && f.CategoryID == nil && f.MinDate == nil &&
		f.MaxDate == nil && f.MinAmount == nil && f.MaxAmount == nil
}
