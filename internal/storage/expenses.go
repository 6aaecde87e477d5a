package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/halloway/centavo/internal/model"
	"github.com/halloway/centavo/internal/service"
)

// defaultPageSize is the window used when a caller asks for lazy pages
// without specifying a size.
const defaultPageSize = 50

// InsertExpense appends one ledger entry and returns its id. The ledger is
// the only intended caller; inserting here directly bypasses the balance
// adjustment that keeps funding sources consistent.
func (s *SQLiteStore) InsertExpense(ctx context.Context, expense *model.Expense) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateExpense(expense); err != nil {
		return 0, err
	}
	return s.insertExpenseTx(ctx, s.db, expense)
}

func (s *SQLiteStore) insertExpenseTx(ctx context.Context, q queryable, expense *model.Expense) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO expenses (profile_id, title, description, amount, currency,
			is_send, account_id, card_id, category_id, source_due_id, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, expense.ProfileID, expense.Title, nullableString(expense.Description),
		expense.Amount.String(), expense.Currency, expense.IsSend,
		expense.AccountID, expense.CardID, expense.CategoryID, expense.SourceDueID,
		expense.Date)
	if err != nil {
		return 0, fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read expense id: %w", err)
	}

	expense.ID = id
	return id, nil
}

// InsertExpenses appends a batch of ledger entries inside one transaction.
func (s *SQLiteStore) InsertExpenses(ctx context.Context, expenses []model.Expense) ([]int64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ids, err := s.insertExpensesTx(ctx, tx, expenses)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense batch: %w", err)
	}
	return ids, nil
}

func (s *SQLiteStore) insertExpensesTx(ctx context.Context, q queryable, expenses []model.Expense) ([]int64, error) {
	if len(expenses) == 0 {
		return nil, fmt.Errorf("%w: expenses", ErrEmptySlice)
	}

	ids := make([]int64, 0, len(expenses))
	for i := range expenses {
		if err := validateExpense(&expenses[i]); err != nil {
			return nil, fmt.Errorf("expense at index %d: %w", i, err)
		}
		id, err := s.insertExpenseTx(ctx, q, &expenses[i])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetExpenseByID retrieves one ledger entry, or (nil, nil) when absent.
func (s *SQLiteStore) GetExpenseByID(ctx context.Context, id int64) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}
	return s.getExpenseByIDTx(ctx, s.db, id)
}

func (s *SQLiteStore) getExpenseByIDTx(ctx context.Context, q queryable, id int64) (*model.Expense, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, profile_id, title, description, amount, currency, is_send,
		       account_id, card_id, category_id, source_due_id, date, created_at
		FROM expenses
		WHERE id = ?
	`, id)

	expense, err := scanExpense(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// UpdateExpenseDetails edits the descriptive fields of a recorded expense.
// Amount, funding source, and polarity are immutable financial facts; there
// is deliberately no path that rewrites them.
func (s *SQLiteStore) UpdateExpenseDetails(ctx context.Context, id int64, title, description string, categoryID *int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	return s.updateExpenseDetailsTx(ctx, s.db, id, title, description, categoryID)
}

func (s *SQLiteStore) updateExpenseDetailsTx(ctx context.Context, q queryable, id int64, title, description string, categoryID *int64) error {
	res, err := q.ExecContext(ctx, `
		UPDATE expenses
		SET title = ?, description = ?, category_id = ?
		WHERE id = ?
	`, title, nullableString(description), categoryID, id)
	if err != nil {
		return fmt.Errorf("failed to update expense details: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %d does not exist", id)
	}
	return nil
}

// DeleteExpenseByID removes one ledger entry. Forward-only: the funding
// source's balance is not recomputed.
func (s *SQLiteStore) DeleteExpenseByID(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateID(id, "id"); err != nil {
		return false, err
	}
	return s.deleteExpenseByIDTx(ctx, s.db, id)
}

func (s *SQLiteStore) deleteExpenseByIDTx(ctx context.Context, q queryable, id int64) (bool, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n > 0, nil
}

// DeleteExpensesByID removes a batch of ledger entries as one unit and
// reports whether every requested row existed.
func (s *SQLiteStore) DeleteExpensesByID(ctx context.Context, ids []int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return s.deleteExpensesByIDTx(ctx, s.db, ids)
}

func (s *SQLiteStore) deleteExpensesByIDTx(ctx context.Context, q queryable, ids []int64) (bool, error) {
	if len(ids) == 0 {
		return false, fmt.Errorf("%w: ids", ErrEmptySlice)
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := q.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM expenses WHERE id IN (%s)`, placeholders), args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete expenses: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n == int64(len(ids)), nil
}

// buildExpenseFilter compiles a sparse filter into a WHERE conjunction.
// Absent fields impose no constraint; bounds are inclusive. The prefix
// qualifies column names when the expenses table is aliased in a join.
func buildExpenseFilter(prefix string, profileID int64, f model.ExpenseFilters) (string, []any) {
	clauses := []string{prefix + "profile_id = ?"}
	args := []any{profileID}

	if f.IsSend != nil {
		clauses = append(clauses, prefix+"is_send = ?")
		args = append(args, *f.IsSend)
	}
	if f.Query != "" {
		q := "%" + strings.ToLower(f.Query) + "%"
		clauses = append(clauses,
			fmt.Sprintf("(LOWER(%stitle) LIKE ? OR LOWER(IFNULL(%sdescription, '')) LIKE ?)", prefix, prefix))
		args = append(args, q, q)
	}
	if f.AccountID != nil {
		clauses = append(clauses, prefix+"account_id = ?")
		args = append(args, *f.AccountID)
	}
	if f.CardID != nil {
		clauses = append(clauses, prefix+"card_id = ?")
		args = append(args, *f.CardID)
	}
	if f.CategoryID != nil {
		clauses = append(clauses, prefix+"category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.MinDate != nil {
		clauses = append(clauses, prefix+"date >= ?")
		args = append(args, *f.MinDate)
	}
	if f.MaxDate != nil {
		clauses = append(clauses, prefix+"date <= ?")
		args = append(args, *f.MaxDate)
	}
	if f.MinAmount != nil {
		clauses = append(clauses, fmt.Sprintf("CAST(%samount AS REAL) >= ?", prefix))
		args = append(args, f.MinAmount.InexactFloat64())
	}
	if f.MaxAmount != nil {
		clauses = append(clauses, fmt.Sprintf("CAST(%samount AS REAL) <= ?", prefix))
		args = append(args, f.MaxAmount.InexactFloat64())
	}

	return strings.Join(clauses, " AND "), args
}

// sortClause renders the ORDER BY for a filter query. Ties on the primary
// key are always broken by id ascending so pagination stays stable across
// otherwise-equal rows.
func sortClause(prefix string, sortBy model.SortBy, sortOrder model.SortOrder) string {
	var col string
	switch sortBy {
	case model.SortByAmount:
		col = fmt.Sprintf("CAST(%samount AS REAL)", prefix)
	case model.SortByTitle:
		col = prefix + "title COLLATE NOCASE"
	case model.SortByCreated:
		col = prefix + "created_at"
	default:
		col = prefix + "date"
	}

	dir := "DESC"
	if sortOrder == model.SortAscending {
		dir = "ASC"
	}

	return fmt.Sprintf("ORDER BY %s %s, %sid ASC", col, dir, prefix)
}

// FilterExpenseIDs returns the complete ordered id sequence matching the
// filter, for bulk select-all / invert-selection / delete-selected flows.
func (s *SQLiteStore) FilterExpenseIDs(ctx context.Context, profileID int64, filters model.ExpenseFilters, sortBy model.SortBy, sortOrder model.SortOrder) ([]int64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(profileID, "profileID"); err != nil {
		return nil, err
	}
	return s.filterExpenseIDsTx(ctx, s.db, profileID, filters, sortBy, sortOrder)
}

func (s *SQLiteStore) filterExpenseIDsTx(ctx context.Context, q queryable, profileID int64, filters model.ExpenseFilters, sortBy model.SortBy, sortOrder model.SortOrder) ([]int64, error) {
	where, args := buildExpenseFilter("", profileID, filters)
	query := fmt.Sprintf(`SELECT id FROM expenses WHERE %s %s`, where, sortClause("", sortBy, sortOrder))

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan expense id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// FilterExpenses returns a lazy page sequence over the filtered log. Pages
// are fetched on demand; the sequence restarts only by calling this again.
func (s *SQLiteStore) FilterExpenses(profileID int64, filters model.ExpenseFilters, sortBy model.SortBy, sortOrder model.SortOrder, pageSize int) service.ExpenseIterator {
	return s.filterExpensesOn(s.db, profileID, filters, sortBy, sortOrder, pageSize)
}

func (s *SQLiteStore) filterExpensesOn(q queryable, profileID int64, filters model.ExpenseFilters, sortBy model.SortBy, sortOrder model.SortOrder, pageSize int) *ExpensePager {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &ExpensePager{
		q:         q,
		profileID: profileID,
		filters:   filters,
		sortBy:    sortBy,
		sortOrder: sortOrder,
		pageSize:  pageSize,
	}
}

// ExpensePager walks the filtered expense log one window at a time. It is
// not safe for concurrent use. Rows inserted while paging may shift later
// windows; that staleness is part of the contract.
type ExpensePager struct {
	q         queryable
	filters   model.ExpenseFilters
	sortBy    model.SortBy
	sortOrder model.SortOrder
	profileID int64
	pageSize  int
	offset    int
	done      bool
}

// Next returns the following page, or (nil, nil) once the sequence is
// exhausted.
func (p *ExpensePager) Next(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if p.done {
		return nil, nil
	}

	where, args := buildExpenseFilter("", p.profileID, p.filters)
	query := fmt.Sprintf(`
		SELECT id, profile_id, title, description, amount, currency, is_send,
		       account_id, card_id, category_id, source_due_id, date, created_at
		FROM expenses
		WHERE %s %s
		LIMIT ? OFFSET ?
	`, where, sortClause("", p.sortBy, p.sortOrder))
	args = append(args, p.pageSize, p.offset)

	rows, err := p.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense page: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var page []model.Expense
	for rows.Next() {
		expense, scanErr := scanExpense(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", scanErr)
		}
		page = append(page, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(page) < p.pageSize {
		p.done = true
	}
	p.offset += len(page)

	if len(page) == 0 {
		return nil, nil
	}
	return page, nil
}

// FilterExpensesChartData groups the filtered log into buckets and sums each
// bucket's amounts. Time buckets use fixed calendar boundaries (weeks start
// Monday); entity buckets appear only for entities actually referenced by a
// matching expense. Sums are folded in decimal, never in floating point.
func (s *SQLiteStore) FilterExpensesChartData(ctx context.Context, profileID int64, groupBy model.GroupBy, filters model.ExpenseFilters) ([]service.ChartPoint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(profileID, "profileID"); err != nil {
		return nil, err
	}
	return s.filterExpensesChartDataTx(ctx, s.db, profileID, groupBy, filters)
}

func (s *SQLiteStore) filterExpensesChartDataTx(ctx context.Context, q queryable, profileID int64, groupBy model.GroupBy, filters model.ExpenseFilters) ([]service.ChartPoint, error) {
	if !groupBy.Valid() {
		return nil, fmt.Errorf("unknown group key %q", groupBy)
	}

	var bucket, join string
	switch groupBy {
	case model.GroupByDay:
		bucket = `strftime('%Y-%m-%d', e.date / 1000, 'unixepoch')`
	case model.GroupByWeek:
		// Monday of the expense's week: advance to the enclosing Sunday,
		// then step back six days.
		bucket = `date(e.date / 1000, 'unixepoch', 'weekday 0', '-6 days')`
	case model.GroupByMonth:
		bucket = `strftime('%Y-%m', e.date / 1000, 'unixepoch')`
	case model.GroupByYear:
		bucket = `strftime('%Y', e.date / 1000, 'unixepoch')`
	case model.GroupByCategory:
		bucket = `c.name`
		join = `JOIN categories c ON e.category_id = c.id`
	case model.GroupByAccount:
		bucket = `a.name`
		join = `JOIN accounts a ON e.account_id = a.id`
	case model.GroupByCard:
		bucket = `cd.name`
		join = `JOIN cards cd ON e.card_id = cd.id`
	}

	where, args := buildExpenseFilter("e.", profileID, filters)
	query := fmt.Sprintf(`
		SELECT %s AS bucket, e.amount
		FROM expenses e
		%s
		WHERE %s
		ORDER BY bucket ASC, e.id ASC
	`, bucket, join, where)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chart data: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []service.ChartPoint
	for rows.Next() {
		var key, amount string
		if err := rows.Scan(&key, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan chart row: %w", err)
		}
		value, err := parseDecimal(amount)
		if err != nil {
			return nil, err
		}
		if n := len(points); n > 0 && points[n-1].Bucket == key {
			points[n-1].Total = points[n-1].Total.Add(value)
		} else {
			points = append(points, service.ChartPoint{Bucket: key, Total: value})
		}
	}

	return points, rows.Err()
}

// scanExpense reads one expense row through the supplied Scan function.
func scanExpense(scan func(...any) error) (*model.Expense, error) {
	var e model.Expense
	var description sql.NullString
	var amount string
	var accountID, cardID, categoryID, sourceDueID sql.NullInt64

	err := scan(&e.ID, &e.ProfileID, &e.Title, &description, &amount, &e.Currency,
		&e.IsSend, &accountID, &cardID, &categoryID, &sourceDueID, &e.Date, &e.CreatedAt)
	if err != nil {
		return nil, err
	}

	e.Description = description.String
	if e.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	if accountID.Valid {
		v := accountID.Int64
		e.AccountID = &v
	}
	if cardID.Valid {
		v := cardID.Int64
		e.CardID = &v
	}
	if categoryID.Valid {
		v := categoryID.Int64
		e.CategoryID = &v
	}
	if sourceDueID.Valid {
		v := sourceDueID.Int64
		e.SourceDueID = &v
	}
	return &e, nil
}
