package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/database"
	"github.com/MrJamesThe3rd/budgie/internal/user"
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

const selectUserColumns = `id, email, display_name, photo_url, is_admin, is_disabled, created_at`

func scanUser(s scanner) (*user.User, error) {
	var u user.User
	if err := s.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PhotoURL, &u.IsAdmin, &u.IsDisabled, &u.CreatedAt); err != nil {
		return nil, err
	}

	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, display_name, photo_url)
		VALUES ($1, $2, $3, $4)
		RETURNING is_admin, is_disabled, created_at
	`

	err := s.db.QueryRowContext(ctx, query, u.ID, u.Email, u.DisplayName, u.PhotoURL).
		Scan(&u.IsAdmin, &u.IsDisabled, &u.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", apperr.ErrConflict)
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*user.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return users, nil
}

func (s *Store) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	return s.execOne(ctx, "setting admin flag", `UPDATE users SET is_admin = $1 WHERE id = $2`, isAdmin, id)
}

func (s *Store) SetDisabled(ctx context.Context, id string, isDisabled bool) error {
	return s.execOne(ctx, "setting disabled flag", `UPDATE users SET is_disabled = $1 WHERE id = $2`, isDisabled, id)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.execOne(ctx, "deleting user", `DELETE FROM users WHERE id = $1`, id)
}

// execOne runs a statement that must touch exactly one user row.
func (s *Store) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return apperr.ErrNotFound
	}

	return nil
}
