package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS profiles (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS accounts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
					name TEXT NOT NULL,
					balance TEXT NOT NULL,
					currency TEXT NOT NULL,
					display_order INTEGER NOT NULL DEFAULT 0,
					is_default INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_accounts_profile ON accounts(profile_id, display_order)`,

				`CREATE TABLE IF NOT EXISTS cards (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
					name TEXT NOT NULL,
					balance TEXT NOT NULL,
					currency TEXT NOT NULL,
					expiry TEXT,
					last_four_digits TEXT,
					display_order INTEGER NOT NULL DEFAULT 0,
					is_default INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_cards_profile ON cards(profile_id, display_order)`,

				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
					name TEXT NOT NULL,
					display_order INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_categories_profile ON categories(profile_id, display_order)`,

				`CREATE TABLE IF NOT EXISTS dues (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
					name TEXT NOT NULL,
					amount TEXT NOT NULL,
					currency TEXT NOT NULL,
					is_recurring INTEGER NOT NULL DEFAULT 0,
					recurrence_interval INTEGER,
					recurrence_unit TEXT,
					last_payment_date INTEGER,
					account_id INTEGER REFERENCES accounts(id) ON DELETE SET NULL,
					card_id INTEGER REFERENCES cards(id) ON DELETE SET NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					CHECK (account_id IS NULL OR card_id IS NULL)
				)`,
				`CREATE INDEX idx_dues_profile ON dues(profile_id)`,

				`CREATE TABLE IF NOT EXISTS expenses (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
					title TEXT NOT NULL,
					description TEXT,
					amount TEXT NOT NULL,
					currency TEXT NOT NULL,
					is_send INTEGER NOT NULL,
					account_id INTEGER REFERENCES accounts(id) ON DELETE CASCADE,
					card_id INTEGER REFERENCES cards(id) ON DELETE CASCADE,
					category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
					source_due_id INTEGER REFERENCES dues(id) ON DELETE SET NULL,
					date INTEGER NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					CHECK (account_id IS NULL OR card_id IS NULL)
				)`,
				`CREATE INDEX idx_expenses_profile_date ON expenses(profile_id, date)`,
				`CREATE INDEX idx_expenses_account ON expenses(account_id)`,
				`CREATE INDEX idx_expenses_card ON expenses(card_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add covering index for polarity-filtered chart queries",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_expenses_profile_send_date
				ON expenses(profile_id, is_send, date)`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Add category index for entity-bucketed aggregation",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_expenses_category
				ON expenses(category_id)`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
