package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/budgie/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/budgie/internal/admin"
	adminStore "github.com/MrJamesThe3rd/budgie/internal/admin/store"
	"github.com/MrJamesThe3rd/budgie/internal/auth"
	"github.com/MrJamesThe3rd/budgie/internal/category"
	categoryStore "github.com/MrJamesThe3rd/budgie/internal/category/store"
	"github.com/MrJamesThe3rd/budgie/internal/config"
	"github.com/MrJamesThe3rd/budgie/internal/database"
	"github.com/MrJamesThe3rd/budgie/internal/export"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
	txStore "github.com/MrJamesThe3rd/budgie/internal/transaction/store"
	"github.com/MrJamesThe3rd/budgie/internal/user"
	userStore "github.com/MrJamesThe3rd/budgie/internal/user/store"
)

type model struct {
	adminService  *admin.Service
	exportService *export.Service
	adminID       string

	currentView View

	usersView view.UsersModel
	logsView  view.LogsModel
	statsView view.StatsModel
}

type View int

const (
	ViewMenu  View = 0
	ViewUsers View = 1
	ViewLogs  View = 2
	ViewStats View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := view.DbCtx()
	defer cancel()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	categorySvc := category.NewService(categoryStore.New(db))
	userSvc := user.NewService(userStore.New(db), categorySvc, cfg.AdminEmails())
	txSvc := transaction.NewService(txStore.New(db), categorySvc)
	expSvc := export.NewService(txSvc, categorySvc)
	operator, err := view.Operator(ctx, userSvc, cfg.Admin.ConsoleID)
	if err != nil {
		slog.Error("console admin rejected", "error", err)
		os.Exit(1)
	}

	adminSvc := admin.NewService(
		adminStore.New(db),
		userSvc,
		auth.NewResetLinker(auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer), cfg.Auth.ResetURL, cfg.Auth.ResetTTL),
	)

	return model{
		adminService:  adminSvc,
		exportService: expSvc,
		adminID:       operator.ID,
		currentView:   ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewUsers
				m.usersView = view.NewUsersModel(m.adminService, m.exportService, m.adminID)

				return m, m.usersView.Init()
			case "2":
				m.currentView = ViewLogs
				m.logsView = view.NewLogsModel(m.adminService)

				return m, m.logsView.Init()
			case "3":
				m.currentView = ViewStats
				m.statsView = view.NewStatsModel(m.adminService)

				return m, m.statsView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewUsers:
		var newModel tea.Model
		newModel, cmd = m.usersView.Update(msg)
		m.usersView = newModel.(view.UsersModel)
	case ViewLogs:
		var newModel tea.Model
		newModel, cmd = m.logsView.Update(msg)
		m.logsView = newModel.(view.LogsModel)
	case ViewStats:
		var newModel tea.Model
		newModel, cmd = m.statsView.Update(msg)
		m.statsView = newModel.(view.StatsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Budgie Admin\n\n" +
				"1. Users\n" +
				"2. Audit Log\n" +
				"3. Stats\n\n" +
				"q. Quit",
		)
	case ViewUsers:
		return m.usersView.View()
	case ViewLogs:
		return m.logsView.View()
	case ViewStats:
		return m.statsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
