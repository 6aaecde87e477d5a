package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halloway/centavo/internal/cli"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long:  `Apply pending schema migrations to the database. Opening the store already migrates on startup; this command exists to do it explicitly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Database schema is up to date"))
			return nil
		},
	}
}
