package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/category"
	"github.com/MrJamesThe3rd/budgie/internal/database"
	"github.com/MrJamesThe3rd/budgie/internal/icon"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectCategoryColumns = `id, user_id, name, kind, icon, color, is_default, created_at`

func scanCategory(s scanner) (*category.Category, error) {
	var (
		c              category.Category
		kind, iconName string
	)

	if err := s.Scan(&c.ID, &c.UserID, &c.Name, &kind, &iconName, &c.Color, &c.IsDefault, &c.CreatedAt); err != nil {
		return nil, err
	}

	c.Type = category.Type(kind)
	c.Icon = icon.Icon(iconName)

	return &c, nil
}

const insertCategory = `
	INSERT INTO categories (user_id, name, kind, icon, color, is_default)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at
`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insert(ctx context.Context, q queryRower, c *category.Category) error {
	return q.QueryRowContext(ctx, insertCategory,
		c.UserID, c.Name, c.Type, c.Icon, c.Color, c.IsDefault,
	).Scan(&c.ID, &c.CreatedAt)
}

func (s *Store) CreateCategory(ctx context.Context, c *category.Category) error {
	if err := insert(ctx, s.db, c); err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: owner account does not exist", apperr.ErrNotFound)
		}

		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

// CreateCategories inserts the whole set or nothing.
func (s *Store) CreateCategories(ctx context.Context, cs []*category.Category) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, c := range cs {
		if err := insert(ctx, dbTx, c); err != nil {
			return fmt.Errorf("creating category %q: %w", c.Name, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing categories: %w", err)
	}

	return nil
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return c, nil
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + `
		FROM categories
		WHERE user_id = $1
		ORDER BY kind, name`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []*category.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		cats = append(cats, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return cats, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.ErrNotFound
	}

	return nil
}
