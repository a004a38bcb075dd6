package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	SetDisabled(ctx context.Context, id string, isDisabled bool) error
	DeleteUser(ctx context.Context, id string) error
}

// CategorySeeder creates the starter categories of a new account.
type CategorySeeder interface {
	SeedDefaults(ctx context.Context, userID string) error
}

type Service struct {
	repo        Repository
	seeder      CategorySeeder
	adminEmails []string
}

// NewService builds the user service. adminEmails is the bootstrap allowlist
// and must already be lower case.
func NewService(repo Repository, seeder CategorySeeder, adminEmails []string) *Service {
	return &Service{repo: repo, seeder: seeder, adminEmails: adminEmails}
}

type SyncParams struct {
	ID          string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Sync records a sign-in. First-time users are created with the default
// categories and are never promoted on that call. Existing users whose
// stored email is on the bootstrap allowlist are promoted to admin.
func (s *Service) Sync(ctx context.Context, params SyncParams) (*User, error) {
	if params.ID == "" || params.Email == "" {
		return nil, fmt.Errorf("%w: id and email are required", apperr.ErrValidation)
	}

	u, err := s.repo.GetUser(ctx, params.ID)

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return s.create(ctx, params)
	case err != nil:
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if u.IsAdmin || !s.isBootstrapAdmin(u.Email) {
		return u, nil
	}

	if err := s.repo.SetAdmin(ctx, u.ID, true); err != nil {
		return nil, fmt.Errorf("promoting bootstrap admin: %w", err)
	}

	slog.Info("promoted bootstrap admin", "user_id", u.ID)

	u.IsAdmin = true

	return u, nil
}

func (s *Service) create(ctx context.Context, params SyncParams) (*User, error) {
	u := &User{
		ID:          params.ID,
		Email:       params.Email,
		DisplayName: params.DisplayName,
		PhotoURL:    params.PhotoURL,
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	// A user left without defaults would never get them, since later syncs
	// take the existing-user path. Remove the row so the next sync retries.
	if err := s.seeder.SeedDefaults(ctx, u.ID); err != nil {
		if delErr := s.repo.DeleteUser(context.WithoutCancel(ctx), u.ID); delErr != nil {
			slog.Error("failed to remove unseeded user", "error", delErr, "user_id", u.ID)
		}

		return nil, fmt.Errorf("seeding default categories: %w", err)
	}

	return u, nil
}

func (s *Service) isBootstrapAdmin(email string) bool {
	return slices.Contains(s.adminEmails, strings.ToLower(email))
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	return s.repo.SetAdmin(ctx, id, isAdmin)
}

func (s *Service) SetDisabled(ctx context.Context, id string, isDisabled bool) error {
	return s.repo.SetDisabled(ctx, id, isDisabled)
}

// Delete removes the account. Owned records go with it through the
// database's cascading foreign keys.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}
