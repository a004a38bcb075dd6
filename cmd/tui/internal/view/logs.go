package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/budgie/internal/admin"
)

var logLimits = []int{admin.DefaultLogLimit, 100, admin.MaxLogLimit}

type LogsModel struct {
	svc AdminService

	table    table.Model
	limitIdx int

	loading bool
	err     error
}

func NewLogsModel(svc AdminService) LogsModel {
	columns := []table.Column{
		{Title: "When", Width: 17},
		{Title: "Action", Width: 17},
		{Title: "Target", Width: 30},
		{Title: "Admin", Width: 28},
		{Title: "Details", Width: 40},
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
	t.SetStyles(s)

	return LogsModel{svc: svc, table: t, loading: true}
}

func (m LogsModel) Title() string { return "Audit Log" }

func (m LogsModel) ShortHelp() string {
	return "Esc: back | l: limit | r: refresh"
}

func (m LogsModel) Init() tea.Cmd {
	return m.loadLogsCmd()
}

func (m LogsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadLogsMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.table.SetRows(logRows(msg.logs))
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadLogsCmd()
		case "l":
			m.limitIdx = (m.limitIdx + 1) % len(logLimits)
			m.loading = true

			return m, m.loadLogsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LogsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading audit log...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Showing the latest %s entries", activeStyle.Render(fmt.Sprint(logLimits[m.limitIdx])))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			tableView,
			"",
			faintStyle.Render(m.ShortHelp()),
		),
	)
}

func logRows(logs []*admin.Log) []table.Row {
	rows := make([]table.Row, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, table.Row{
			FormatTime(l.CreatedAt),
			string(l.Action),
			l.TargetEmail,
			l.AdminID,
			l.Details,
		})
	}

	return rows
}

type loadLogsMsg struct {
	logs []*admin.Log
	err  error
}

func (m LogsModel) loadLogsCmd() tea.Cmd {
	limit := logLimits[m.limitIdx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		logs, err := m.svc.Logs(ctx, limit)

		return loadLogsMsg{logs: logs, err: err}
	}
}
