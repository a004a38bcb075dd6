package view

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/budgie/internal/admin"
	"github.com/MrJamesThe3rd/budgie/internal/export"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
	"github.com/MrJamesThe3rd/budgie/internal/user"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// AdminService is the slice of admin.Service the console drives.
type AdminService interface {
	ListUsers(ctx context.Context) ([]*user.User, error)
	SetAdmin(ctx context.Context, adminID string, targetID string, isAdmin bool) (*user.User, error)
	SetDisabled(ctx context.Context, adminID string, targetID string, isDisabled bool) (*user.User, error)
	DeleteUser(ctx context.Context, adminID string, targetID string) error
	ResetPassword(ctx context.Context, adminID string, targetID string) (*admin.ResetLink, error)
	Logs(ctx context.Context, limit int) ([]*admin.Log, error)
	Stats(ctx context.Context) (*admin.Stats, error)
}

type Exporter interface {
	Export(ctx context.Context, filter transaction.ListFilter, format export.Format, w io.Writer) error
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

var (
	_ View = UsersModel{}
	_ View = LogsModel{}
	_ View = StatsModel{}
)
