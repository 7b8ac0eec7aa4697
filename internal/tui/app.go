package tui

import (
	"fmt"
	"strings"

	"github.com/CosmoTheDev/tfwatch/internal/watcher"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// view indexes the dashboard sections.
type view int

const (
	viewRounds view = iota
	viewFindings
	viewCount
)

func (v view) title() string {
	switch v {
	case viewRounds:
		return "Rounds"
	case viewFindings:
		return "Findings"
	}
	return ""
}

// App is the root bubbletea model, a two-section dashboard over the round
// history the watch loop fills in the background. The dashboard is read
// only; it never fetches pages or sends notifications itself.
type App struct {
	history  *watcher.History
	active   view
	width    int
	height   int
	rounds   RoundsModel
	findings FindingsModel
}

// NewApp builds the dashboard over a shared history ring.
func NewApp(history *watcher.History) *App {
	return &App{
		history:  history,
		rounds:   NewRoundsModel(history),
		findings: NewFindingsModel(history),
	}
}

// Run starts the bubbletea program and blocks until quit.
func (a *App) Run() error {
	_, err := tea.NewProgram(a, tea.WithAltScreen()).Run()
	return err
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.rounds.Init(), a.findings.Init())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		bodyW := max(24, a.width-2)
		bodyH := max(8, a.height-6)
		a.rounds.SetSize(bodyW, bodyH)
		a.findings.SetSize(bodyW, bodyH)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "1":
			a.active = viewRounds
		case "2":
			a.active = viewFindings
		case "tab", "right":
			a.active = (a.active + 1) % viewCount
		case "shift+tab", "left":
			a.active = (a.active + viewCount - 1) % viewCount
		}
	}

	// Keys go to the visible section only. Everything else, notably the
	// refresh ticks, reaches both sections so the hidden one stays fresh.
	if _, isKey := msg.(tea.KeyMsg); isKey {
		var cmd tea.Cmd
		switch a.active {
		case viewRounds:
			m, c := a.rounds.Update(msg)
			a.rounds, cmd = m.(RoundsModel), c
		case viewFindings:
			m, c := a.findings.Update(msg)
			a.findings, cmd = m.(FindingsModel), c
		}
		return a, cmd
	}

	rm, rc := a.rounds.Update(msg)
	a.rounds = rm.(RoundsModel)
	fm, fc := a.findings.Update(msg)
	a.findings = fm.(FindingsModel)
	return a, tea.Batch(rc, fc)
}

func (a *App) View() string {
	if a.width == 0 {
		return "starting..."
	}

	var body string
	switch a.active {
	case viewRounds:
		body = a.rounds.View()
	case viewFindings:
		body = a.findings.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.header(),
		a.tabBar(),
		lipgloss.NewStyle().Width(a.width).Padding(0, 1).MaxHeight(max(1, a.height-5)).Render(body),
		a.footer(),
	)
}

func (a *App) header() string {
	left := lipgloss.JoinHorizontal(lipgloss.Left,
		brandStyle.Render("tfwatch"),
		taglineStyle.Render("beta slots, live"),
	)
	right := ""
	if latest := a.history.Latest(); latest != nil {
		right = helpStyle.Render(fmt.Sprintf("round #%d", latest.Round))
	}
	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return headerBarStyle.Width(a.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (a *App) tabBar() string {
	tabs := make([]string, 0, viewCount)
	for v := view(0); v < viewCount; v++ {
		label := fmt.Sprintf("%d %s", v+1, v.title())
		if v == a.active {
			tabs = append(tabs, tabOnStyle.Render(label))
		} else {
			tabs = append(tabs, tabOffStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (a *App) footer() string {
	hint := lipgloss.JoinHorizontal(lipgloss.Left,
		keyStyle.Render("tab"),
		helpStyle.Render(" switch  "),
		keyStyle.Render("q"),
		helpStyle.Render(" quit"),
	)
	return lipgloss.NewStyle().Width(a.width).Padding(0, 1).Render(hint)
}
