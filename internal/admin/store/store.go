package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/budgie/internal/admin"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateLog(ctx context.Context, l *admin.Log) error {
	query := `
		INSERT INTO admin_logs (admin_id, action, target_id, target_email, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, l.AdminID, l.Action, l.TargetID, l.TargetEmail, l.Details).
		Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating admin log: %w", err)
	}

	return nil
}

func (s *Store) ListLogs(ctx context.Context, limit int) ([]*admin.Log, error) {
	query := `
		SELECT id, admin_id, action, target_id, target_email, details, created_at
		FROM admin_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing admin logs: %w", err)
	}
	defer rows.Close()

	var logs []*admin.Log

	for rows.Next() {
		var (
			l      admin.Log
			action string
		)

		if err := rows.Scan(&l.ID, &l.AdminID, &action, &l.TargetID, &l.TargetEmail, &l.Details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning admin log: %w", err)
		}

		l.Action = admin.Action(action)
		logs = append(logs, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating admin logs: %w", err)
	}

	return logs, nil
}

func (s *Store) count(ctx context.Context, what, query string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", what, err)
	}

	return n, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	return s.count(ctx, "users", `SELECT COUNT(*) FROM users`)
}

func (s *Store) CountActiveUsers(ctx context.Context) (int, error) {
	return s.count(ctx, "active users", `SELECT COUNT(*) FROM users WHERE NOT is_disabled`)
}

func (s *Store) CountTransactions(ctx context.Context) (int, error) {
	return s.count(ctx, "transactions", `SELECT COUNT(*) FROM transactions`)
}

func (s *Store) CountBudgets(ctx context.Context) (int, error) {
	return s.count(ctx, "budgets", `SELECT COUNT(*) FROM budgets`)
}
