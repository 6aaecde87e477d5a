package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/halloway/centavo/internal/cli"
	"github.com/halloway/centavo/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage expense categories",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(reorderCategoriesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
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

			categories, err := store.ListCategories(ctx, profile.ID)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'centavo categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\n", cli.HeaderStyle.Render("ID"), cli.HeaderStyle.Render("Name"))
			for _, c := range categories {
				fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Name)
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
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

			category := &model.Category{ProfileID: profile.ID, Name: args[0]}
			if _, err := store.CreateCategory(ctx, category); err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created category %q (id %d)", category.Name, category.ID)))
			return nil
		},
	}
}

func reorderCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Reorder categories",
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

			if err := store.ReorderCategories(ctx, profile.ID, ids); err != nil {
				return fmt.Errorf("failed to reorder categories: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Categories reordered"))
			return nil
		},
	}
}
