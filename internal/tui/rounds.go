package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/CosmoTheDev/tfwatch/internal/watcher"
	"github.com/CosmoTheDev/tfwatch/models"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// refreshEvery is how often the sections re-read the history ring. The
// watch loop writes on its own cadence; the dashboard only polls.
const refreshEvery = 2 * time.Second

// RoundsModel is the overview section: totals across the retained window
// plus one line per recent round.
type RoundsModel struct {
	history *watcher.History
	rounds  []*models.RoundSummary
	width   int
	height  int
}

// roundsTickMsg carries a snapshot of the ring, newest round first.
type roundsTickMsg []*models.RoundSummary

func NewRoundsModel(history *watcher.History) RoundsModel {
	return RoundsModel{history: history}
}

func (r RoundsModel) Init() tea.Cmd {
	return r.refresh
}

func (r RoundsModel) refresh() tea.Msg {
	return roundsTickMsg(r.history.Recent(0))
}

func (r RoundsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case roundsTickMsg:
		r.rounds = msg
		return r, tea.Tick(refreshEvery, func(time.Time) tea.Msg { return r.refresh() })
	case tea.KeyMsg:
		if msg.String() == "r" {
			return r, r.refresh
		}
	}
	return r, nil
}

func (r *RoundsModel) SetSize(w, h int) {
	r.width, r.height = w, h
}

func (r RoundsModel) View() string {
	if len(r.rounds) == 0 {
		return panelStyle.Render("No rounds yet. The first poll is still running.")
	}

	var checked, open, notified int
	for _, s := range r.rounds {
		checked += s.Checked
		open += s.Open
		notified += s.Notified
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("rounds", r.rounds[0].Round, ink),
		statCard("checked", checked, accent),
		statCard("open", open, mint),
		statCard("notified", notified, amber),
	)

	limit := max(4, r.height-10)
	var b strings.Builder
	b.WriteString(helpStyle.Render("round  started   outcome            checked  notified  took"))
	b.WriteByte('\n')
	for i, s := range r.rounds {
		if i >= limit {
			break
		}
		b.WriteString(roundRow(s))
		b.WriteByte('\n')
	}

	panel := panelStyle.Width(max(24, r.width-2)).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			panelTitleStyle.Render("Recent rounds"),
			"",
			b.String(),
			helpStyle.Render("r reload"),
		))
	return lipgloss.JoinVertical(lipgloss.Left, cards, "", panel)
}

// roundRow renders one summary line.
func roundRow(s *models.RoundSummary) string {
	outcome := quietBadgeStyle.Render("all full")
	if s.Open > 0 {
		outcome = badgeStyle.Background(mint).Render(fmt.Sprintf("%d open", s.Open))
	}
	if _, failed := models.CountOutcomes(s.Outcomes); failed > 0 {
		outcome = badgeStyle.Background(coral).Render(fmt.Sprintf("%d send failures", failed))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left,
		lipgloss.NewStyle().Width(7).Foreground(ink).Render(fmt.Sprintf("#%d", s.Round)),
		lipgloss.NewStyle().Width(10).Foreground(fog).Render(s.StartedAt.Format("15:04:05")),
		lipgloss.NewStyle().Width(19).Render(outcome),
		helpStyle.Render(fmt.Sprintf("%7d  %8d  %.2fs", s.Checked, s.Notified, s.Duration.Seconds())),
	)
}

// statCard renders one number-over-label counter.
func statCard(label string, n int, color lipgloss.Color) string {
	return statCardStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(fmt.Sprintf("%d", n)),
		helpStyle.Render(label),
	))
}
