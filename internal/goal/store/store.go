package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/database"
	"github.com/MrJamesThe3rd/budgie/internal/goal"
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

const selectGoalColumns = `
	id, user_id, name, target_amount, current_amount, deadline, icon, color,
	is_completed, version, created_at, updated_at
`

func scanGoal(s scanner) (*goal.Goal, error) {
	var (
		g        goal.Goal
		iconName string
	)

	if err := s.Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &iconName, &g.Color,
		&g.IsCompleted, &g.Version, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}

	g.Icon = icon.Icon(iconName)

	return &g, nil
}

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		INSERT INTO goals (user_id, name, target_amount, current_amount, deadline, icon, color, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, version, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Icon, g.Color, g.IsCompleted,
	).Scan(&g.ID, &g.Version, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: owner account does not exist", apperr.ErrNotFound)
		}

		return fmt.Errorf("creating goal: %w", err)
	}

	return nil
}

func (s *Store) GetGoal(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM goals WHERE id = $1`

	g, err := scanGoal(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return g, nil
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + `
		FROM goals
		WHERE user_id = $1
		ORDER BY is_completed ASC, deadline ASC NULLS LAST, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}

		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goals: %w", err)
	}

	return goals, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		UPDATE goals
		SET name = $1, target_amount = $2, current_amount = $3, deadline = $4, icon = $5,
		    color = $6, is_completed = $7, version = version + 1, updated_at = NOW()
		WHERE id = $8 AND version = $9
		RETURNING version, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Icon, g.Color, g.IsCompleted,
		g.ID, g.Version,
	).Scan(&g.Version, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: goal was modified concurrently", apperr.ErrConflict)
		}

		return fmt.Errorf("updating goal: %w", err)
	}

	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	return nil
}
