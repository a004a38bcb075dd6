package admin

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/user"
)

const (
	DefaultLogLimit = 50
	MaxLogLimit     = 500
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=admin
type Repository interface {
	CreateLog(ctx context.Context, l *Log) error
	ListLogs(ctx context.Context, limit int) ([]*Log, error)
	CountUsers(ctx context.Context) (int, error)
	CountActiveUsers(ctx context.Context) (int, error)
	CountTransactions(ctx context.Context) (int, error)
	CountBudgets(ctx context.Context) (int, error)
}

// Users is the account store the admin operations act on.
type Users interface {
	Get(ctx context.Context, id string) (*user.User, error)
	List(ctx context.Context) ([]*user.User, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	SetDisabled(ctx context.Context, id string, isDisabled bool) error
	Delete(ctx context.Context, id string) error
}

type ResetLinker interface {
	PasswordResetLink(ctx context.Context, email string) (string, error)
}

// Publisher forwards audit entries to other systems.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Notifier interface {
	SendPasswordReset(ctx context.Context, email string, link string) error
}

type Service struct {
	repo      Repository
	users     Users
	linker    ResetLinker
	publisher Publisher
	notifier  Notifier
}

type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func NewService(repo Repository, users Users, linker ResetLinker, opts ...Option) *Service {
	s := &Service{repo: repo, users: users, linker: linker}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) ListUsers(ctx context.Context) ([]*user.User, error) {
	return s.users.List(ctx)
}

// record appends the audit entry for a mutation that has already been
// applied. Failures are reported to the log only; the mutation stands.
func (s *Service) record(ctx context.Context, adminID string, action Action, target *user.User, details string) {
	ctx = context.WithoutCancel(ctx)

	entry := &Log{
		AdminID:     adminID,
		Action:      action,
		TargetID:    target.ID,
		TargetEmail: target.Email,
		Details:     details,
	}

	if err := s.repo.CreateLog(ctx, entry); err != nil {
		slog.Error("failed to write admin log",
			"error", err,
			"admin_id", adminID,
			"action", action,
			"target_id", target.ID,
		)

		return
	}

	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, "admin."+string(action), entry.Event()); err != nil {
		slog.Error("failed to publish admin event", "error", err, "log_id", entry.ID, "action", action)
	}
}

func (s *Service) target(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading target user: %w", err)
	}

	return u, nil
}

func (s *Service) SetAdmin(ctx context.Context, adminID, targetID string, isAdmin bool) (*user.User, error) {
	if !isAdmin && adminID == targetID {
		return nil, fmt.Errorf("%w: you cannot revoke your own admin access", apperr.ErrValidation)
	}

	u, err := s.target(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetAdmin(ctx, targetID, isAdmin); err != nil {
		return nil, fmt.Errorf("setting admin flag: %w", err)
	}

	u.IsAdmin = isAdmin

	if isAdmin {
		s.record(ctx, adminID, ActionMadeAdmin, u, "Granted admin privileges")
	} else {
		s.record(ctx, adminID, ActionRemovedAdmin, u, "Revoked admin privileges")
	}

	return u, nil
}

func (s *Service) SetDisabled(ctx context.Context, adminID, targetID string, isDisabled bool) (*user.User, error) {
	if isDisabled && adminID == targetID {
		return nil, fmt.Errorf("%w: you cannot disable your own account", apperr.ErrValidation)
	}

	u, err := s.target(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetDisabled(ctx, targetID, isDisabled); err != nil {
		return nil, fmt.Errorf("setting disabled flag: %w", err)
	}

	u.IsDisabled = isDisabled

	if isDisabled {
		s.record(ctx, adminID, ActionDisabledAccount, u, "Disabled account")
	} else {
		s.record(ctx, adminID, ActionEnabledAccount, u, "Enabled account")
	}

	return u, nil
}

// DeleteUser removes the target and, through cascading keys, everything
// they own. Audit entries about them are kept.
func (s *Service) DeleteUser(ctx context.Context, adminID, targetID string) error {
	if adminID == targetID {
		return fmt.Errorf("%w: you cannot delete your own account", apperr.ErrValidation)
	}

	u, err := s.target(ctx, targetID)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	s.record(ctx, adminID, ActionDeletedAccount, u, fmt.Sprintf("Deleted account %s", u.Email))

	return nil
}

// ResetPassword generates a reset link for the target's stored email and,
// when a notifier is configured, mails it to them.
func (s *Service) ResetPassword(ctx context.Context, adminID, targetID string) (*ResetLink, error) {
	u, err := s.target(ctx, targetID)
	if err != nil {
		return nil, err
	}

	link, err := s.linker.PasswordResetLink(ctx, u.Email)
	if err != nil {
		return nil, fmt.Errorf("generating reset link: %w", err)
	}

	s.record(ctx, adminID, ActionResetPassword, u, "Generated password reset link")

	result := &ResetLink{Link: link, Email: u.Email}

	if s.notifier != nil {
		if err := s.notifier.SendPasswordReset(ctx, u.Email, link); err != nil {
			slog.Error("failed to email reset link", "error", err, "target_id", u.ID)
		} else {
			result.Emailed = true
		}
	}

	return result, nil
}

// Logs returns the newest audit entries. Non-positive limits fall back to
// DefaultLogLimit and large ones are capped at MaxLogLimit.
func (s *Service) Logs(ctx context.Context, limit int) ([]*Log, error) {
	switch {
	case limit <= 0:
		limit = DefaultLogLimit
	case limit > MaxLogLimit:
		limit = MaxLogLimit
	}

	return s.repo.ListLogs(ctx, limit)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats

	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(ctx)
			if err != nil {
				return err
			}

			*dst = n

			return nil
		})
	}

	count(&stats.TotalUsers, s.repo.CountUsers)
	count(&stats.ActiveUsers, s.repo.CountActiveUsers)
	count(&stats.TotalTransactions, s.repo.CountTransactions)
	count(&stats.TotalBudgets, s.repo.CountBudgets)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("counting stats: %w", err)
	}

	return &stats, nil
}
