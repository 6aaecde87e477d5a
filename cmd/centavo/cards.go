package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/halloway/centavo/internal/cli"
	"github.com/halloway/centavo/internal/model"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage cards",
		Long:  `List, add, and reorder the payment cards expenses can be funded from.`,
	}

	cmd.AddCommand(listCardsCmd())
	cmd.AddCommand(addCardCmd())
	cmd.AddCommand(reorderCardsCmd())
	cmd.AddCommand(deleteCardCmd())

	return cmd
}

func listCardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all cards",
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

			cards, err := store.ListCards(ctx, profile.ID)
			if err != nil {
				return fmt.Errorf("failed to list cards: %w", err)
			}

			if len(cards) == 0 {
				fmt.Println(cli.InfoStyle.Render("No cards found. Use 'centavo cards add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Balance"),
				cli.HeaderStyle.Render("Card"))
			for _, c := range cards {
				suffix := ""
				if c.LastFourDigits != "" {
					suffix = "•••• " + c.LastFourDigits
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Name, formatMoney(c.Balance, c.Currency), suffix)
			}

			return nil
		},
	}
}

func addCardCmd() *cobra.Command {
	var (
		balance   string
		currency  string
		expiry    string
		lastFour  string
		isDefault bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a card",
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

			card := &model.Card{
				ProfileID:      profile.ID,
				Name:           args[0],
				Balance:        amount,
				Currency:       currency,
				Expiry:         expiry,
				LastFourDigits: lastFour,
				IsDefault:      isDefault,
			}
			if _, err := store.CreateCard(ctx, card); err != nil {
				return fmt.Errorf("failed to create card: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created card %q (id %d)", card.Name, card.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&balance, "balance", "0", "opening balance")
	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO currency code")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiry (MM/YY)")
	cmd.Flags().StringVar(&lastFour, "last-four", "", "last four digits")
	cmd.Flags().BoolVar(&isDefault, "default", false, "mark as the default card")

	return cmd
}

func reorderCardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Reorder cards",
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

			if err := store.ReorderCards(ctx, profile.ID, ids); err != nil {
				return fmt.Errorf("failed to reorder cards: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Cards reordered"))
			return nil
		},
	}
}

func deleteCardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
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

			ok, err := store.DeleteCardByID(ctx, ids[0])
			if err != nil {
				return fmt.Errorf("failed to delete card: %w", err)
			}
			if !ok {
				return fmt.Errorf("card %d does not exist", ids[0])
			}

			fmt.Println(cli.SuccessStyle.Render("Card deleted"))
			return nil
		},
	}
}
