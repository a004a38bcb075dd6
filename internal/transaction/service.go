package transaction

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
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	BeginImport(ctx context.Context, userID string, minDate time.Time, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, userID string, params []CreateParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

// CategoryLookup resolves a category the caller owns.
type CategoryLookup interface {
	Get(ctx context.Context, userID string, id uuid.UUID) (*category.Category, error)
}

type Service struct {
	repo       Repository
	categories CategoryLookup
}

func NewService(repo Repository, categories CategoryLookup) *Service {
	return &Service{repo: repo, categories: categories}
}

type CreateParams struct {
	CategoryID         *uuid.UUID
	Amount             decimal.Decimal
	Type               Type
	Description        string
	Notes              string
	Tags               []string
	Date               time.Time
	IsRecurring        bool
	RecurringFrequency *Frequency
	RecurringEndDate   *time.Time
}

// ListFilter scopes a listing to one owner. EndDate is exclusive.
type ListFilter struct {
	UserID     string
	Type       *Type
	CategoryID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

func validate(tx *Transaction) error {
	switch {
	case tx.Amount.IsNegative():
		return fmt.Errorf("%w: amount must not be negative", apperr.ErrValidation)
	case !money.InRange(tx.Amount):
		return fmt.Errorf("%w: amount exceeds %s or has more than two decimals", apperr.ErrValidation, money.Format(money.Max))
	case !tx.Type.Valid():
		return fmt.Errorf("%w: unknown transaction type %q", apperr.ErrValidation, tx.Type)
	case strings.TrimSpace(tx.Description) == "":
		return fmt.Errorf("%w: description is required", apperr.ErrValidation)
	case tx.Date.IsZero():
		return fmt.Errorf("%w: date is required", apperr.ErrValidation)
	}

	if !tx.IsRecurring {
		tx.RecurringFrequency = nil
		tx.RecurringEndDate = nil

		return nil
	}

	if tx.RecurringFrequency == nil || !tx.RecurringFrequency.Valid() {
		return fmt.Errorf("%w: recurring transactions need a frequency", apperr.ErrValidation)
	}

	if tx.RecurringEndDate != nil && tx.RecurringEndDate.Before(tx.Date) {
		return fmt.Errorf("%w: recurrence ends before it starts", apperr.ErrValidation)
	}

	return nil
}

// checkCategory verifies that the referenced category belongs to userID and
// has the same type as the transaction.
func (s *Service) checkCategory(ctx context.Context, userID string, tx *Transaction) error {
	if tx.CategoryID == nil {
		return nil
	}

	c, err := s.categories.Get(ctx, userID, *tx.CategoryID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrForbidden) {
			return fmt.Errorf("%w: unknown category", apperr.ErrValidation)
		}

		return fmt.Errorf("looking up category: %w", err)
	}

	if string(c.Type) != string(tx.Type) {
		return fmt.Errorf("%w: %s transaction cannot use %s category %q", apperr.ErrValidation, tx.Type, c.Type, c.Name)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, userID string, params CreateParams) (*Transaction, error) {
	tx := newTransaction(userID, params)

	if err := validate(tx); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, userID, tx); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	if filter.UserID == "" {
		return nil, apperr.ErrUnauthenticated
	}

	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.UserID != userID {
		return nil, apperr.ErrForbidden
	}

	return tx, nil
}

// UpdateParams holds a partial update; nil fields are left unchanged.
type UpdateParams struct {
	CategoryID         *uuid.UUID
	ClearCategory      bool
	Amount             *decimal.Decimal
	Type               *Type
	Description        *string
	Notes              *string
	Tags               []string
	Date               *time.Time
	IsRecurring        *bool
	RecurringFrequency *Frequency
	RecurringEndDate   *time.Time
}

func (s *Service) Update(ctx context.Context, userID string, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	switch {
	case params.ClearCategory:
		tx.CategoryID = nil
	case params.CategoryID != nil:
		tx.CategoryID = params.CategoryID
	}

	if params.Amount != nil {
		tx.Amount = *params.Amount
	}

	if params.Type != nil {
		tx.Type = *params.Type
	}

	if params.Description != nil {
		tx.Description = *params.Description
	}

	if params.Notes != nil {
		tx.Notes = *params.Notes
	}

	if params.Tags != nil {
		tx.Tags = params.Tags
	}

	if params.Date != nil {
		tx.Date = *params.Date
	}

	if params.IsRecurring != nil {
		tx.IsRecurring = *params.IsRecurring
	}

	if params.RecurringFrequency != nil {
		tx.RecurringFrequency = params.RecurringFrequency
	}

	if params.RecurringEndDate != nil {
		tx.RecurringEndDate = params.RecurringEndDate
	}

	if err := validate(tx); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, userID, tx); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	return s.repo.DeleteTransaction(ctx, id)
}

type ImportResult struct {
	Imported []*Transaction
	Skipped  []Duplicate
}

// Duplicate is an incoming row that matched a stored transaction.
type Duplicate struct {
	Incoming CreateParams
	Existing *Transaction
}

type dupKey struct {
	Date        string
	Amount      string
	Type        Type
	Description string
}

func keyOf(date time.Time, amount decimal.Decimal, typ Type, description string) dupKey {
	return dupKey{
		Date:        date.Format(time.DateOnly),
		Amount:      amount.StringFixed(2),
		Type:        typ,
		Description: strings.TrimSpace(description),
	}
}

// ImportBatch stores a batch of parsed rows for userID in one database
// transaction. Rows matching an existing transaction on date, amount, type
// and description are skipped and reported.
func (s *Service) ImportBatch(ctx context.Context, userID string, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	for i := range params {
		if err := validate(newTransaction(userID, params[i])); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[keyOf(d.Date, d.Amount, d.Type, d.Description)] = d
	}

	result := &ImportResult{}

	var fresh []CreateParams

	for _, p := range params {
		if existing, found := lookup[keyOf(p.Date, p.Amount, p.Type, p.Description)]; found {
			result.Skipped = append(result.Skipped, Duplicate{Incoming: p, Existing: existing})
			continue
		}

		fresh = append(fresh, p)
	}

	if len(fresh) == 0 {
		return result, nil
	}

	txs := make([]*Transaction, len(fresh))
	for i, p := range fresh {
		txs[i] = newTransaction(userID, p)
	}

	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	result.Imported = txs

	return result, nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func newTransaction(userID string, p CreateParams) *Transaction {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return &Transaction{
		UserID:             userID,
		CategoryID:         p.CategoryID,
		Amount:             p.Amount,
		Type:               p.Type,
		Description:        strings.TrimSpace(p.Description),
		Notes:              p.Notes,
		Tags:               tags,
		Date:               p.Date,
		IsRecurring:        p.IsRecurring,
		RecurringFrequency: p.RecurringFrequency,
		RecurringEndDate:   p.RecurringEndDate,
	}
}
