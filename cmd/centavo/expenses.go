package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/halloway/centavo/internal/cli"
	"github.com/halloway/centavo/internal/ledger"
	"github.com/halloway/centavo/internal/model"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Record and browse expenses",
		Long:  `Record expenses against an account or card, browse the filtered log, and edit or delete entries.`,
	}

	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(editExpenseCmd())
	cmd.AddCommand(deleteExpensesCmd())

	return cmd
}

// expenseFilterFlags binds the sparse filter fields to cobra flags. A flag
// left at its zero value imposes no constraint.
type expenseFilterFlags struct {
	query     string
	minDate   string
	maxDate   string
	minAmount string
	maxAmount string
	accountID int64
	cardID    int64
	category  int64
	sendOnly  bool
	recvOnly  bool
}

func (f *expenseFilterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.query, "query", "", "substring match on title or description")
	cmd.Flags().StringVar(&f.minDate, "from", "", "earliest date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&f.maxDate, "to", "", "latest date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&f.minAmount, "min-amount", "", "minimum amount (inclusive)")
	cmd.Flags().StringVar(&f.maxAmount, "max-amount", "", "maximum amount (inclusive)")
	cmd.Flags().Int64Var(&f.accountID, "account", 0, "only expenses funded by this account")
	cmd.Flags().Int64Var(&f.cardID, "card", 0, "only expenses funded by this card")
	cmd.Flags().Int64Var(&f.category, "category", 0, "only expenses in this category")
	cmd.Flags().BoolVar(&f.sendOnly, "send", false, "only money-out expenses")
	cmd.Flags().BoolVar(&f.recvOnly, "receive", false, "only money-in expenses")
}

func (f *expenseFilterFlags) build() (model.ExpenseFilters, error) {
	var filters model.ExpenseFilters

	filters.Query = f.query
	filters.AccountID = optionalID(f.accountID)
	filters.CardID = optionalID(f.cardID)
	filters.CategoryID = optionalID(f.category)

	if f.sendOnly && f.recvOnly {
		return filters, fmt.Errorf("--send and --receive are mutually exclusive")
	}
	if f.sendOnly {
		v := true
		filters.IsSend = &v
	}
	if f.recvOnly {
		v := false
		filters.IsSend = &v
	}

	if f.minDate != "" {
		millis, err := parseDate(f.minDate)
		if err != nil {
			return filters, err
		}
		filters.MinDate = &millis
	}
	if f.maxDate != "" {
		millis, err := parseDate(f.maxDate)
		if err != nil {
			return filters, err
		}
		filters.MaxDate = &millis
	}
	if f.minAmount != "" {
		amount, err := parseAmount(f.minAmount)
		if err != nil {
			return filters, err
		}
		filters.MinAmount = &amount
	}
	if f.maxAmount != "" {
		amount, err := parseAmount(f.maxAmount)
		if err != nil {
			return filters, err
		}
		filters.MaxAmount = &amount
	}

	return filters, nil
}

func addExpenseCmd() *cobra.Command {
	var (
		amount      string
		currency    string
		date        string
		description string
		accountID   int64
		cardID      int64
		categoryID  int64
		receive     bool
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Record an expense",
		Long: `Record an expense against exactly one funding source. The source's
balance is adjusted and the log entry inserted as one atomic unit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			profile, err := currentProfile(ctx, store)
			if err != nil {
				return err
			}

			value, err := parseAmount(amount)
			if err != nil {
				return err
			}
			millis, err := parseDate(date)
			if err != nil {
				return err
			}

			expense := &model.Expense{
				ProfileID:   profile.ID,
				Title:       args[0],
				Description: description,
				Amount:      value,
				Currency:    currency,
				IsSend:      !receive,
				AccountID:   optionalID(accountID),
				CardID:      optionalID(cardID),
				CategoryID:  optionalID(categoryID),
				Date:        millis,
			}

			if err := ledger.New(store).RecordExpense(ctx, expense); err != nil {
				return fmt.Errorf("failed to record expense: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Recorded expense %q (id %d, %s)", expense.Title, expense.ID, formatMoney(expense.Amount, expense.Currency))))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount (required)")
	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO currency code")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&description, "description", "", "free-form note")
	cmd.Flags().Int64Var(&accountID, "account", 0, "funding account id")
	cmd.Flags().Int64Var(&cardID, "card", 0, "funding card id")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "category id")
	cmd.Flags().BoolVar(&receive, "receive", false, "record money in instead of money out")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func listExpensesCmd() *cobra.Command {
	var (
		filterFlags expenseFilterFlags
		sortBy      string
		sortOrder   string
		pageSize    int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse the expense log",
		Long: `Browse the filtered expense log one page at a time. Ordering is
deterministic: ties on the sort key are broken by id ascending.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			profile, err := currentProfile(ctx, store)
			if err != nil {
				return err
			}

			filters, err := filterFlags.build()
			if err != nil {
				return err
			}

			order := model.SortDescending
			if strings.EqualFold(sortOrder, "asc") {
				order = model.SortAscending
			}
			key := model.SortBy(strings.ToLower(sortBy))
			if !key.Valid() {
				return fmt.Errorf("unknown sort key %q (want date, amount, title, or created_at)", sortBy)
			}

			pager := store.FilterExpenses(profile.ID, filters, key, order, pageSize)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			reader := bufio.NewReader(os.Stdin)
			total := 0

			for {
				page, err := pager.Next(ctx)
				if err != nil {
					return fmt.Errorf("failed to fetch page: %w", err)
				}
				if page == nil {
					break
				}

				if total == 0 {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						cli.HeaderStyle.Render("ID"),
						cli.HeaderStyle.Render("Date"),
						cli.HeaderStyle.Render("Title"),
						cli.HeaderStyle.Render("Amount"),
						cli.HeaderStyle.Render("Dir"))
				}
				for _, e := range page {
					dir := "out"
					if !e.IsSend {
						dir = "in"
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
						e.ID, formatDate(e.Date), e.Title, formatMoney(e.Amount, e.Currency), dir)
				}
				_ = w.Flush()
				total += len(page)

				if !interactive {
					continue
				}
				fmt.Print(cli.SubtleStyle.Render("-- more (enter) / quit (q) -- "))
				line, _ := reader.ReadString('\n')
				if strings.TrimSpace(line) == "q" {
					break
				}
			}

			if total == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses match."))
			}
			return nil
		},
	}

	filterFlags.register(cmd)
	cmd.Flags().StringVar(&sortBy, "sort", "date", "sort key (date, amount, title, created_at)")
	cmd.Flags().StringVar(&sortOrder, "order", "desc", "sort direction (asc, desc)")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "rows per page")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "prompt between pages")

	return cmd
}

func editExpenseCmd() *cobra.Command {
	var (
		title       string
		description string
		categoryID  int64
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an expense's descriptive fields",
		Long:  `Edit title, description, or category. Amount, funding source, and direction are immutable once recorded.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			lgr := ledger.New(store)
			existing, err := store.GetExpenseByID(ctx, ids[0])
			if err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("expense %d does not exist", ids[0])
			}

			if !cmd.Flags().Changed("title") {
				title = existing.Title
			}
			if !cmd.Flags().Changed("description") {
				description = existing.Description
			}
			category := existing.CategoryID
			if cmd.Flags().Changed("category") {
				category = optionalID(categoryID)
			}

			if err := lgr.UpdateExpenseDetails(ctx, ids[0], title, description, category); err != nil {
				return fmt.Errorf("failed to edit expense: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Expense updated"))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "new category id (0 clears it)")

	return cmd
}

func deleteExpensesCmd() *cobra.Command {
	var (
		filterFlags expenseFilterFlags
		filtered    bool
		batchSize   int
	)

	cmd := &cobra.Command{
		Use:   "delete [id]...",
		Short: "Delete expenses",
		Long: `Delete expenses by id, or every expense matching the filter flags with
--filtered. Deletion is forward-only: funding-source balances are not
retroactively recomputed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			lgr := ledger.New(store)

			if !filtered {
				if len(args) == 0 {
					return fmt.Errorf("provide expense ids or --filtered")
				}
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				if err := lgr.DeleteExpenses(ctx, ids); err != nil {
					return fmt.Errorf("failed to delete expenses: %w", err)
				}
				fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted %d expense(s)", len(ids))))
				return nil
			}

			profile, err := currentProfile(ctx, store)
			if err != nil {
				return err
			}
			filters, err := filterFlags.build()
			if err != nil {
				return err
			}

			ids, err := store.FilterExpenseIDs(ctx, profile.ID, filters, model.SortByDate, model.SortDescending)
			if err != nil {
				return fmt.Errorf("failed to select expenses: %w", err)
			}
			if len(ids) == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses match."))
				return nil
			}

			bar := progressbar.Default(int64(len(ids)), "deleting")
			for start := 0; start < len(ids); start += batchSize {
				end := start + batchSize
				if end > len(ids) {
					end = len(ids)
				}
				if err := lgr.DeleteExpenses(ctx, ids[start:end]); err != nil {
					return fmt.Errorf("failed to delete expenses: %w", err)
				}
				_ = bar.Add(end - start)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted %d expense(s)", len(ids))))
			return nil
		},
	}

	filterFlags.register(cmd)
	cmd.Flags().BoolVar(&filtered, "filtered", false, "delete everything matching the filter flags")
	cmd.Flags().IntVar(&batchSize, "batch-size", 200, "rows deleted per transaction")

	return cmd
}
