package budget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/category"
	"github.com/MrJamesThe3rd/budgie/internal/money"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	CreateBudget(ctx context.Context, b *Budget) error
	GetBudget(ctx context.Context, id uuid.UUID) (*Budget, error)
	ListBudgets(ctx context.Context, userID string) ([]*Budget, error)
	UpdateBudget(ctx context.Context, b *Budget) error
	DeleteBudget(ctx context.Context, id uuid.UUID) error
}

type CategoryLookup interface {
	Get(ctx context.Context, userID string, id uuid.UUID) (*category.Category, error)
}

type TransactionLister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Service struct {
	repo         Repository
	categories   CategoryLookup
	transactions TransactionLister
	now          func() time.Time
}

func NewService(repo Repository, categories CategoryLookup, transactions TransactionLister) *Service {
	return &Service{
		repo:         repo,
		categories:   categories,
		transactions: transactions,
		now:          time.Now,
	}
}

// WithClock replaces the service's time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Status pairs a budget with its progress in the current window.
type Status struct {
	Budget   *Budget
	Progress Progress
}

type CreateParams struct {
	CategoryID *uuid.UUID
	Name       string
	Amount     decimal.Decimal
	Period     Period
	StartDate  time.Time
	EndDate    *time.Time
	Rollover   bool
}

func validate(b *Budget) error {
	switch {
	case strings.TrimSpace(b.Name) == "":
		return fmt.Errorf("%w: name is required", apperr.ErrValidation)
	case !money.InRange(b.Amount):
		return fmt.Errorf("%w: invalid amount", apperr.ErrValidation)
	case !b.Period.Valid():
		return fmt.Errorf("%w: unknown period %q", apperr.ErrValidation, b.Period)
	case b.StartDate.IsZero():
		return fmt.Errorf("%w: start date is required", apperr.ErrValidation)
	case b.EndDate != nil && b.EndDate.Before(b.StartDate):
		return fmt.Errorf("%w: end date is before start date", apperr.ErrValidation)
	}

	return nil
}

// checkCategory requires the budget's category to be one of the caller's
// expense categories.
func (s *Service) checkCategory(ctx context.Context, userID string, b *Budget) error {
	if b.CategoryID == nil {
		return nil
	}

	c, err := s.categories.Get(ctx, userID, *b.CategoryID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrForbidden) {
			return fmt.Errorf("%w: unknown category", apperr.ErrValidation)
		}

		return fmt.Errorf("looking up category: %w", err)
	}

	if c.Type != category.TypeExpense {
		return fmt.Errorf("%w: budgets track expense categories only", apperr.ErrValidation)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, userID string, params CreateParams) (*Status, error) {
	b := &Budget{
		UserID:     userID,
		CategoryID: params.CategoryID,
		Name:       strings.TrimSpace(params.Name),
		Amount:     params.Amount,
		Period:     params.Period,
		StartDate:  params.StartDate,
		EndDate:    params.EndDate,
		Rollover:   params.Rollover,
	}

	if err := validate(b); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, userID, b); err != nil {
		return nil, err
	}

	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return nil, err
	}

	return s.status(ctx, b)
}

func (s *Service) get(ctx context.Context, userID string, id uuid.UUID) (*Budget, error) {
	b, err := s.repo.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}

	if b.UserID != userID {
		return nil, apperr.ErrForbidden
	}

	return b, nil
}

func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*Status, error) {
	b, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	return s.status(ctx, b)
}

// List returns every budget of userID with its progress. Transactions are
// fetched once for the widest window any budget needs.
func (s *Service) List(ctx context.Context, userID string) ([]*Status, error) {
	budgets, err := s.repo.ListBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(budgets) == 0 {
		return []*Status{}, nil
	}

	now := s.now()
	from, to := lookback(budgets[0], now), time.Time{}

	for _, b := range budgets {
		if lb := lookback(b, now); lb.Before(from) {
			from = lb
		}

		if _, end := Window(b.Period, now); end.After(to) {
			to = end
		}
	}

	txs, err := s.expenses(ctx, userID, nil, from, to)
	if err != nil {
		return nil, err
	}

	statuses := make([]*Status, len(budgets))
	for i, b := range budgets {
		statuses[i] = &Status{Budget: b, Progress: Compute(b, txs, now)}
	}

	return statuses, nil
}

func (s *Service) status(ctx context.Context, b *Budget) (*Status, error) {
	now := s.now()
	_, end := Window(b.Period, now)

	txs, err := s.expenses(ctx, b.UserID, b.CategoryID, lookback(b, now), end)
	if err != nil {
		return nil, err
	}

	return &Status{Budget: b, Progress: Compute(b, txs, now)}, nil
}

func (s *Service) expenses(ctx context.Context, userID string, categoryID *uuid.UUID, from, to time.Time) ([]*transaction.Transaction, error) {
	txs, err := s.transactions.List(ctx, transaction.ListFilter{
		UserID:     userID,
		Type:       new(transaction.TypeExpense),
		CategoryID: categoryID,
		StartDate:  &from,
		EndDate:    &to,
	})
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	return txs, nil
}

type UpdateParams struct {
	CategoryID    *uuid.UUID
	ClearCategory bool
	Name          *string
	Amount        *decimal.Decimal
	Period        *Period
	StartDate     *time.Time
	EndDate       *time.Time
	ClearEndDate  bool
	Rollover      *bool
}

func (s *Service) Update(ctx context.Context, userID string, id uuid.UUID, params UpdateParams) (*Status, error) {
	b, err := s.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	switch {
	case params.ClearCategory:
		b.CategoryID = nil
	case params.CategoryID != nil:
		b.CategoryID = params.CategoryID
	}

	if params.Name != nil {
		b.Name = strings.TrimSpace(*params.Name)
	}

	if params.Amount != nil {
		b.Amount = *params.Amount
	}

	if params.Period != nil {
		b.Period = *params.Period
	}

	if params.StartDate != nil {
		b.StartDate = *params.StartDate
	}

	switch {
	case params.ClearEndDate:
		b.EndDate = nil
	case params.EndDate != nil:
		b.EndDate = params.EndDate
	}

	if params.Rollover != nil {
		b.Rollover = *params.Rollover
	}

	if err := validate(b); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, userID, b); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBudget(ctx, b); err != nil {
		return nil, err
	}

	return s.status(ctx, b)
}

func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if _, err := s.get(ctx, userID, id); err != nil {
		return err
	}

	return s.repo.DeleteBudget(ctx, id)
}
