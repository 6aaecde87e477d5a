package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/halloway/centavo/internal/model"
)

// GetProfileByID retrieves a profile, or (nil, nil) when absent.
func (s *SQLiteStore) GetProfileByID(ctx context.Context, id int64) (*model.Profile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	var p model.Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM profiles WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

// CreateProfile inserts a new profile and returns it.
func (s *SQLiteStore) CreateProfile(ctx context.Context, name string) (*model.Profile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO profiles (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read profile id: %w", err)
	}

	return s.GetProfileByID(ctx, id)
}

// DefaultProfile returns the oldest profile, creating one on first run.
func (s *SQLiteStore) DefaultProfile(ctx context.Context) (*model.Profile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var p model.Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM profiles ORDER BY id ASC LIMIT 1
	`).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return s.CreateProfile(ctx, "default")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default profile: %w", err)
	}

	return &p, nil
}
