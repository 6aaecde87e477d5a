package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/halloway/centavo/internal/common"
	"github.com/halloway/centavo/internal/model"
	"github.com/halloway/centavo/internal/storage"
)

// initStore opens the database and applies any pending migrations.
func initStore(ctx context.Context) (*storage.SQLiteStore, error) {
	path := viper.GetString("database.path")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".local", "share", "centavo", "centavo.db")
	}

	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Could not open the database at %s", path), err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, common.NewUserError("The database schema could not be upgraded", err)
	}

	return store, nil
}

// currentProfile resolves the active profile, bootstrapping one on first run.
func currentProfile(ctx context.Context, store *storage.SQLiteStore) (*model.Profile, error) {
	if id := viper.GetInt64("profile.id"); id > 0 {
		profile, err := store.GetProfileByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, fmt.Errorf("configured profile %d does not exist", id)
		}
		return profile, nil
	}
	return store.DefaultProfile(ctx)
}

// parseAmount parses a decimal money string.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// parseDate converts a YYYY-MM-DD string into epoch milliseconds (UTC).
// An empty string means now.
func parseDate(s string) (int64, error) {
	if s == "" {
		return time.Now().UnixMilli(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t.UnixMilli(), nil
}

// parseIDs converts command arguments into entity ids.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// formatMoney renders an amount with its currency code.
func formatMoney(amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
}

// formatDate renders epoch milliseconds as a calendar date.
func formatDate(millis int64) string {
	return time.UnixMilli(millis).UTC().Format("2006-01-02")
}

// optionalID turns a zero-means-unset flag value into a nullable id.
func optionalID(v int64) *int64 {
	if v <= 0 {
		return nil
	}
	return &v
}
