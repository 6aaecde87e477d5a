package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/halloway/centavo/internal/model"
)

// GetCategoryByID retrieves a category, or (nil, nil) when absent.
func (s *SQLiteStore) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	var c model.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, name, display_order, created_at
		FROM categories
		WHERE id = ?
	`, id).Scan(&c.ID, &c.ProfileID, &c.Name, &c.DisplayOrder, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &c, nil
}

// CreateCategory inserts a new category at the end of the display order.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *model.Category) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateCategory(category); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM categories WHERE profile_id = ?
	`, category.ProfileID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO categories (profile_id, name, display_order)
		VALUES (?, ?, ?)
	`, category.ProfileID, category.Name, next)
	if err != nil {
		return 0, fmt.Errorf("failed to insert category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read category id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit category insert: %w", err)
	}

	category.ID = id
	category.DisplayOrder = next
	return id, nil
}

// ListCategories returns the profile's categories in display order.
func (s *SQLiteStore) ListCategories(ctx context.Context, profileID int64) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(profileID, "profileID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id, name, display_order, created_at
		FROM categories
		WHERE profile_id = ?
		ORDER BY display_order ASC, id ASC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.ProfileID, &c.Name, &c.DisplayOrder, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// DeleteCategoryByID removes a category and compacts the display order.
// Expenses keep their rows; their category reference becomes null.
func (s *SQLiteStore) DeleteCategoryByID(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateID(id, "id"); err != nil {
		return false, err
	}
	return s.deleteOrdered(ctx, "categories", id)
}

// ReorderCategories renumbers the profile's categories to match orderedIDs.
func (s *SQLiteStore) ReorderCategories(ctx context.Context, profileID int64, orderedIDs []int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(profileID, "profileID"); err != nil {
		return err
	}
	return s.reorder(ctx, "categories", profileID, orderedIDs)
}
