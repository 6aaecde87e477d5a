package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/halloway/centavo/internal/cli"
	"github.com/halloway/centavo/internal/ledger"
	"github.com/halloway/centavo/internal/model"
)

func duesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dues",
		Short: "Track upcoming obligations",
		Long: `Track one-off and recurring obligations. Paying a due converts it into
a regular expense against its funding source and stamps the payment date.`,
	}

	cmd.AddCommand(addDueCmd())
	cmd.AddCommand(listDuesCmd())
	cmd.AddCommand(payDueCmd())
	cmd.AddCommand(deleteDueCmd())

	return cmd
}

func addDueCmd() *cobra.Command {
	var (
		amount    string
		currency  string
		accountID int64
		cardID    int64
		every     int
		unit      string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a due",
		Long: `Add a due. A funding source is optional at creation time but required
before the due can be paid. Recurrence is set with --every and --unit
together.`,
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

			due := &model.Due{
				ProfileID: profile.ID,
				Name:      args[0],
				Amount:    value,
				Currency:  currency,
				AccountID: optionalID(accountID),
				CardID:    optionalID(cardID),
			}
			if cmd.Flags().Changed("every") || cmd.Flags().Changed("unit") {
				due.IsRecurring = true
				due.RecurrenceInterval = every
				due.RecurrenceUnit = model.RecurrenceUnit(strings.ToUpper(unit))
			}

			if err := ledger.New(store).CreateDue(ctx, due); err != nil {
				return fmt.Errorf("failed to add due: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Added due %q (id %d, %s)", due.Name, due.ID, formatMoney(due.Amount, due.Currency))))
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount (required)")
	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO currency code")
	cmd.Flags().Int64Var(&accountID, "account", 0, "funding account id")
	cmd.Flags().Int64Var(&cardID, "card", 0, "funding card id")
	cmd.Flags().IntVar(&every, "every", 0, "recurrence interval")
	cmd.Flags().StringVar(&unit, "unit", "", "recurrence unit (days, weeks, months, years)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func listDuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List dues",
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

			dues, err := store.ListDues(ctx, profile.ID)
			if err != nil {
				return fmt.Errorf("failed to list dues: %w", err)
			}
			if len(dues) == 0 {
				fmt.Println(cli.InfoStyle.Render("No dues recorded."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("Repeats"),
				cli.HeaderStyle.Render("Last paid"))
			for _, d := range dues {
				repeats := "once"
				if d.IsRecurring {
					repeats = fmt.Sprintf("every %d %s", d.RecurrenceInterval, strings.ToLower(string(d.RecurrenceUnit)))
				}
				lastPaid := "never"
				if d.LastPaymentDate != nil {
					lastPaid = formatDate(*d.LastPaymentDate)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					d.ID, d.Name, formatMoney(d.Amount, d.Currency), repeats, lastPaid)
			}
			return w.Flush()
		},
	}
}

func payDueCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "pay <id>",
		Short: "Pay a due",
		Long: `Pay a due: debits the due's funding source, records the expense, and
stamps the payment date, all as one atomic unit.`,
		Args: cobra.ExactArgs(1),
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
			millis, err := parseDate(date)
			if err != nil {
				return err
			}

			expense, err := ledger.New(store).PayDue(ctx, ids[0], millis)
			if err != nil {
				return fmt.Errorf("failed to pay due: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Paid %q: expense %d for %s", expense.Title, expense.ID, formatMoney(expense.Amount, expense.Currency))))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "payment date (YYYY-MM-DD, default today)")

	return cmd
}

func deleteDueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete dues",
		Long:  `Delete dues. Expenses already recorded from past payments are kept.`,
		Args:  cobra.MinimumNArgs(1),
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

			for _, id := range ids {
				deleted, err := store.DeleteDueByID(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to delete due %d: %w", id, err)
				}
				if !deleted {
					return fmt.Errorf("due %d does not exist", id)
				}
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted %d due(s)", len(ids))))
			return nil
		},
	}
}
