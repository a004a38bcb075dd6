package goal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/icon"
	"github.com/MrJamesThe3rd/budgie/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	CreateGoal(ctx context.Context, g *Goal) error
	GetGoal(ctx context.Context, id uuid.UUID) (*Goal, error)
	ListGoals(ctx context.Context, userID string) ([]*Goal, error)
	// UpdateGoal writes g only if the stored version still equals g.Version
	// and returns apperr.ErrConflict otherwise. On success g.Version is
	// advanced.
	UpdateGoal(ctx context.Context, g *Goal) error
	DeleteGoal(ctx context.Context, id uuid.UUID) error
}

const defaultColor = "#10b981"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *time.Time
	Icon          icon.Icon
	Color         string
}

func validAmount(d decimal.Decimal) bool {
	return money.InRange(d)
}

func validate(g *Goal) error {
	switch {
	case strings.TrimSpace(g.Name) == "":
		return fmt.Errorf("%w: name is required", apperr.ErrValidation)
	case !validAmount(g.TargetAmount) || !validAmount(g.CurrentAmount):
		return fmt.Errorf("%w: invalid amount", apperr.ErrValidation)
	case !g.Icon.Valid():
		return fmt.Errorf("%w: unknown icon %q", apperr.ErrValidation, g.Icon)
	case !icon.ValidColor(g.Color):
		return fmt.Errorf("%w: color must be a hex value", apperr.ErrValidation)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, userID string, params CreateParams) (*Goal, error) {
	g := &Goal{
		UserID:        userID,
		Name:          strings.TrimSpace(params.Name),
		TargetAmount:  params.TargetAmount,
		CurrentAmount: params.CurrentAmount,
		Deadline:      params.Deadline,
		Icon:          params.Icon,
		Color:         params.Color,
	}

	if g.Icon == "" {
		g.Icon = icon.Target
	}

	if g.Color == "" {
		g.Color = defaultColor
	}

	if err := validate(g); err != nil {
		return nil, err
	}

	g.settle()

	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*Goal, error) {
	return s.repo.ListGoals(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*Goal, error) {
	g, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	if g.UserID != userID {
		return nil, apperr.ErrForbidden
	}

	return g, nil
}

type UpdateParams struct {
	Name          *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	Deadline      *time.Time
	ClearDeadline bool
	Icon          *icon.Icon
	Color         *string
}

func (s *Service) Update(ctx context.Context, userID string, id uuid.UUID, params UpdateParams) (*Goal, error) {
	g, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		g.Name = strings.TrimSpace(*params.Name)
	}

	if params.TargetAmount != nil {
		g.TargetAmount = *params.TargetAmount
	}

	if params.CurrentAmount != nil {
		g.CurrentAmount = *params.CurrentAmount
	}

	switch {
	case params.ClearDeadline:
		g.Deadline = nil
	case params.Deadline != nil:
		g.Deadline = params.Deadline
	}

	if params.Icon != nil {
		g.Icon = *params.Icon
	}

	if params.Color != nil {
		g.Color = *params.Color
	}

	if err := validate(g); err != nil {
		return nil, err
	}

	g.settle()

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

// AddFunds increases the saved amount. The write is conditional on the
// version read, so a concurrent update makes this call fail with
// apperr.ErrConflict instead of losing either deposit.
func (s *Service) AddFunds(ctx context.Context, userID string, id uuid.UUID, amount decimal.Decimal) (*Goal, error) {
	if !amount.IsPositive() || !validAmount(amount) {
		return nil, fmt.Errorf("%w: amount must be positive", apperr.ErrValidation)
	}

	g, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	g.Fund(amount)

	if !validAmount(g.CurrentAmount) {
		return nil, fmt.Errorf("%w: saved amount would exceed %s", apperr.ErrValidation, money.Format(money.Max))
	}

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	return s.repo.DeleteGoal(ctx, id)
}
