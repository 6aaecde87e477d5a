package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/halloway/centavo/internal/cli"
	"github.com/halloway/centavo/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
		Long:  `List, add, and reorder the accounts expenses can be funded from.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(reorderAccountsCmd())
	cmd.AddCommand(deleteAccountCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
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

			accounts, err := store.ListAccounts(ctx, profile.ID)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			if len(accounts) == 0 {
				fmt.Println(cli.InfoStyle.Render("No accounts found. Use 'centavo accounts add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Balance"),
				cli.HeaderStyle.Render("Default"))
			for _, a := range accounts {
				def := ""
				if a.IsDefault {
					def = "*"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.Name, formatMoney(a.Balance, a.Currency), def)
			}

			return nil
		},
	}
}

func addAccountCmd() *cobra.Command {
	var (
		balance   string
		currency  string
		isDefault bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
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

			amount, err := parseAmount(balance)
			if err != nil {
				return err
			}

			account := &model.Account{
				ProfileID: profile.ID,
				Name:      args[0],
				Balance:   amount,
				Currency:  currency,
				IsDefault: isDefault,
			}
			if _, err := store.CreateAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created account %q (id %d)", account.Name, account.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&balance, "balance", "0", "opening balance")
	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO currency code")
	cmd.Flags().BoolVar(&isDefault, "default", false, "mark as the default account")

	return cmd
}

func reorderAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Reorder accounts",
		Long:  `Renumber the display order to match the given id sequence. Every account of the profile must be listed exactly once.`,
		Args:  cobra.MinimumNArgs(1),
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

			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			if err := store.ReorderAccounts(ctx, profile.ID, ids); err != nil {
				return fmt.Errorf("failed to reorder accounts: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Accounts reordered"))
			return nil
		},
	}
}

func deleteAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Long:  `Delete an account. Expenses funded by it are removed with it; past balance effects elsewhere are not reversed.`,
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

			ok, err := store.DeleteAccountByID(ctx, ids[0])
			if err != nil {
				return fmt.Errorf("failed to delete account: %w", err)
			}
			if !ok {
				return fmt.Errorf("account %d does not exist", ids[0])
			}

			fmt.Println(cli.SuccessStyle.Render("Account deleted"))
			return nil
		},
	}
}
