package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/budgie/internal/export"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
	"github.com/MrJamesThe3rd/budgie/internal/user"
)

type usersState int

const (
	usersStateBrowse usersState = iota
	usersStateConfirmDelete
	usersStateExport
)

type UsersModel struct {
	svc      AdminService
	exporter Exporter
	adminID  string

	state usersState
	table table.Model
	users []*user.User
	form  *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings outlive the value copies bubbletea makes of the model.
	fields *userFields
}

type userFields struct {
	confirmed bool
	dir       string
	format    export.Format
}

func NewUsersModel(svc AdminService, exporter Exporter, adminID string) UsersModel {
	columns := []table.Column{
		{Title: "ID", Width: 28},
		{Title: "Email", Width: 30},
		{Title: "Name", Width: 20},
		{Title: "Admin", Width: 6},
		{Title: "Disabled", Width: 9},
		{Title: "Joined", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return UsersModel{
		svc:      svc,
		exporter: exporter,
		adminID:  adminID,
		table:    t,
		loading:  true,
		fields:   &userFields{dir: "./exports", format: export.FormatCSV},
	}
}

func (m UsersModel) Title() string { return "Users" }

func (m UsersModel) ShortHelp() string {
	if m.state != usersStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: toggle admin | d: toggle disabled | x: delete | p: reset link | e: export | r: refresh"
}

func (m UsersModel) Init() tea.Cmd {
	return m.loadUsersCmd()
}

func (m UsersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadUsersMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.users = msg.users
			m.refreshTable()
		}

		return m, nil

	case userActionMsg:
		m.state = usersStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.status = msg.status

		return m, m.loadUsersCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case usersStateBrowse:
		return m.updateBrowse(msg)
	case usersStateConfirmDelete, usersStateExport:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m UsersModel) selected() *user.User {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.users) {
		return nil
	}

	return m.users[idx]
}

func (m UsersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadUsersCmd()
		}

		u := m.selected()
		if u == nil {
			return m, nil
		}

		switch keyMsg.String() {
		case "a":
			return m, m.setAdminCmd(u.ID, !u.IsAdmin)
		case "d":
			return m, m.setDisabledCmd(u.ID, !u.IsDisabled)
		case "p":
			return m, m.resetPasswordCmd(u.ID)
		case "x":
			return m.enterForm(usersStateConfirmDelete, m.deleteForm(u))
		case "e":
			return m.enterForm(usersStateExport, m.exportForm(u))
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m UsersModel) enterForm(state usersState, form *huh.Form) (tea.Model, tea.Cmd) {
	m.fields.confirmed = false
	m.form = form
	m.state = state
	m.table.Blur()

	return m, m.form.Init()
}

func (m UsersModel) deleteForm(u *user.User) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %s and all of their data?", u.Email)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.fields.confirmed),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m UsersModel) exportForm(u *user.User) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Export transactions").
				Description(u.Email),

			huh.NewSelect[export.Format]().
				Key("format").
				Title("Format").
				Options(
					huh.NewOption("CSV", export.FormatCSV),
					huh.NewOption("Excel", export.FormatXLSX),
				).
				Value(&m.fields.format),

			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.fields.dir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m UsersModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = usersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	u := m.selected()
	if u == nil {
		return m, nil
	}

	if m.state == usersStateExport {
		return m, m.exportCmd(u, m.fields.format, m.fields.dir)
	}

	if !m.fields.confirmed {
		m.state = usersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.deleteCmd(u.ID)
}

func (m UsersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading users...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state != usersStateBrowse && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, m.status, "", content)
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, content, "", faintStyle.Render(m.ShortHelp())),
	)
}

func (m *UsersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.users))
	for _, u := range m.users {
		rows = append(rows, table.Row{
			u.ID,
			u.Email,
			u.DisplayName,
			yesNo(u.IsAdmin),
			yesNo(u.IsDisabled),
			FormatDate(u.CreatedAt),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadUsersMsg struct {
	users []*user.User
	err   error
}

type userActionMsg struct {
	status string
	err    error
}

func (m UsersModel) loadUsersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		users, err := m.svc.ListUsers(ctx)

		return loadUsersMsg{users: users, err: err}
	}
}

func (m UsersModel) setAdminCmd(id string, isAdmin bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		u, err := m.svc.SetAdmin(ctx, m.adminID, id, isAdmin)
		if err != nil {
			return userActionMsg{err: err}
		}

		if isAdmin {
			return userActionMsg{status: fmt.Sprintf("%s is now an admin", u.Email)}
		}

		return userActionMsg{status: fmt.Sprintf("%s is no longer an admin", u.Email)}
	}
}

func (m UsersModel) setDisabledCmd(id string, isDisabled bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		u, err := m.svc.SetDisabled(ctx, m.adminID, id, isDisabled)
		if err != nil {
			return userActionMsg{err: err}
		}

		if isDisabled {
			return userActionMsg{status: fmt.Sprintf("Disabled %s", u.Email)}
		}

		return userActionMsg{status: fmt.Sprintf("Enabled %s", u.Email)}
	}
}

func (m UsersModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.DeleteUser(ctx, m.adminID, id); err != nil {
			return userActionMsg{err: err}
		}

		return userActionMsg{status: fmt.Sprintf("Deleted %s", id)}
	}
}

func (m UsersModel) resetPasswordCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		link, err := m.svc.ResetPassword(ctx, m.adminID, id)
		if err != nil {
			return userActionMsg{err: err}
		}

		status := fmt.Sprintf("Reset link for %s:\n%s", link.Email, activeStyle.Render(link.Link))
		if link.Emailed {
			status += "\n(emailed to the user)"
		}

		return userActionMsg{status: status}
	}
}

const exportTimeout = 2 * time.Minute

func (m UsersModel) exportCmd(u *user.User, format export.Format, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return userActionMsg{err: fmt.Errorf("creating export directory: %w", err)}
		}

		path := filepath.Join(dir, fmt.Sprintf("%s_%s.%s", u.ID, time.Now().Format("20060102"), format))

		f, err := os.Create(path)
		if err != nil {
			return userActionMsg{err: fmt.Errorf("creating export file: %w", err)}
		}
		defer f.Close()

		if err := m.exporter.Export(ctx, transaction.ListFilter{UserID: u.ID}, format, f); err != nil {
			return userActionMsg{err: err}
		}

		return userActionMsg{status: fmt.Sprintf("Exported transactions of %s to %s", u.Email, path)}
	}
}
