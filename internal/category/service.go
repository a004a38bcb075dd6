package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/icon"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	CreateCategories(ctx context.Context, cs []*Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context, userID string) ([]*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name  string
	Type  Type
	Icon  icon.Icon
	Color string
}

func (p CreateParams) validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", apperr.ErrValidation)
	case !p.Type.Valid():
		return fmt.Errorf("%w: unknown category type %q", apperr.ErrValidation, p.Type)
	case !p.Icon.Valid():
		return fmt.Errorf("%w: unknown icon %q", apperr.ErrValidation, p.Icon)
	case !icon.ValidColor(p.Color):
		return fmt.Errorf("%w: color must be a hex value", apperr.ErrValidation)
	}

	return nil
}

// Create stores a category owned by userID. Any owner the client claimed is
// ignored by construction.
func (s *Service) Create(ctx context.Context, userID string, params CreateParams) (*Category, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	c := &Category{
		UserID: userID,
		Name:   strings.TrimSpace(params.Name),
		Type:   params.Type,
		Icon:   params.Icon,
		Color:  params.Color,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*Category, error) {
	return s.repo.ListCategories(ctx, userID)
}

// Get returns the category if userID owns it.
func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*Category, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.UserID != userID {
		return nil, apperr.ErrForbidden
	}

	return c, nil
}

// Delete removes an owned category. Transactions that referenced it keep
// existing without a category; budgets on it are removed with it.
func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) SeedDefaults(ctx context.Context, userID string) error {
	return s.repo.CreateCategories(ctx, Defaults(userID))
}
