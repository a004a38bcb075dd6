package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/budgie/internal/admin"
)

type StatsModel struct {
	svc AdminService

	spinner spinner.Model
	stats   *admin.Stats
	loading bool
	err     error
}

func NewStatsModel(svc AdminService) StatsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = activeStyle

	return StatsModel{svc: svc, spinner: s, loading: true}
}

func (m StatsModel) Title() string { return "Stats" }

func (m StatsModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m StatsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadStatsCmd())
}

func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadStatsMsg:
		m.loading = false
		m.stats, m.err = msg.stats, msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadStatsCmd())
		}
	}

	if !m.loading {
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m StatsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(1).Render(fmt.Sprintf("%s Counting...", m.spinner.View()))
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	card := lipgloss.NewStyle().
		Padding(1, 3).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63"))

	label := lipgloss.NewStyle().Width(20)
	line := func(name string, n int) string {
		return label.Render(name) + activeStyle.Render(fmt.Sprint(n))
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			card.Render(lipgloss.JoinVertical(lipgloss.Left,
				line("Users", m.stats.TotalUsers),
				line("Active users", m.stats.ActiveUsers),
				line("Transactions", m.stats.TotalTransactions),
				line("Budgets", m.stats.TotalBudgets),
			)),
			"",
			faintStyle.Render(m.ShortHelp()),
		),
	)
}

type loadStatsMsg struct {
	stats *admin.Stats
	err   error
}

func (m StatsModel) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		stats, err := m.svc.Stats(ctx)

		return loadStatsMsg{stats: stats, err: err}
	}
}
