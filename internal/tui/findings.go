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

// FindingsModel is the detail section: every finding of the latest round,
// filterable by slot state.
type FindingsModel struct {
	history *watcher.History
	round   *models.RoundSummary
	width   int
	height  int
	cursor  int
	filter  models.SlotState // zero value shows everything
}

type findingsTickMsg *models.RoundSummary

func NewFindingsModel(history *watcher.History) FindingsModel {
	return FindingsModel{history: history}
}

func (f FindingsModel) Init() tea.Cmd {
	return f.refresh
}

func (f FindingsModel) refresh() tea.Msg {
	return findingsTickMsg(f.history.Latest())
}

func (f FindingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case findingsTickMsg:
		f.round = msg
		return f.clamp(), tea.Tick(refreshEvery, func(time.Time) tea.Msg { return f.refresh() })
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			f.cursor++
		case "k", "up":
			f.cursor--
		case "o":
			f.filter, f.cursor = models.StateOpen, 0
		case "f":
			f.filter, f.cursor = models.StateFull, 0
		case "x":
			f.filter, f.cursor = models.StateUnknown, 0
		case "a", "0":
			f.filter, f.cursor = "", 0
		case "r":
			return f, f.refresh
		}
	}
	return f.clamp(), nil
}

func (f *FindingsModel) SetSize(w, h int) {
	f.width, f.height = w, h
}

func (f FindingsModel) View() string {
	if f.round == nil {
		return panelStyle.Render("No round finished yet.")
	}

	visible := f.visible()
	limit := max(4, f.height-9)

	var b strings.Builder
	b.WriteString(helpStyle.Render("state    group           url                                  status"))
	b.WriteByte('\n')
	for i, cf := range visible {
		if i >= limit {
			break
		}
		b.WriteString(f.row(i, cf))
		b.WriteByte('\n')
	}
	if len(visible) == 0 {
		b.WriteString(helpStyle.Render("nothing here under this filter"))
		b.WriteByte('\n')
	}

	hint := lipgloss.JoinHorizontal(lipgloss.Left,
		keyStyle.Render("j/k"),
		helpStyle.Render(" move  "),
		keyStyle.Render("o/f/x"),
		helpStyle.Render(" open/full/absent  "),
		keyStyle.Render("a"),
		helpStyle.Render(" all  "),
		keyStyle.Render("r"),
		helpStyle.Render(" reload"),
	)

	return panelStyle.Width(max(24, f.width-2)).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			panelTitleStyle.Render(fmt.Sprintf("Round %d", f.round.Round)),
			f.filterBar(),
			"",
			b.String(),
			hint,
		))
}

// filterBar shows one chip per state with its count in the latest round.
func (f FindingsModel) filterBar() string {
	counts := make(map[models.SlotState]int)
	for _, cf := range f.round.Findings {
		counts[cf.State]++
	}
	chip := func(label string, n int, active bool) string {
		text := fmt.Sprintf("%s %d", label, n)
		if active {
			return tabOnStyle.Render(text)
		}
		return tabOffStyle.Render(text)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		chip("all", len(f.round.Findings), f.filter == ""),
		" ",
		chip("open", counts[models.StateOpen], f.filter == models.StateOpen),
		" ",
		chip("full", counts[models.StateFull], f.filter == models.StateFull),
		" ",
		chip("absent", counts[models.StateUnknown], f.filter == models.StateUnknown),
	)
}

func (f FindingsModel) row(idx int, cf models.ClassifiedFinding) string {
	var status string
	switch {
	case cf.Err != "":
		status = errTextStyle.Render(clip(cf.Err, 40))
	case cf.Status == "":
		status = helpStyle.Render("no status fragment")
	default:
		status = stateStyle(cf.State).Render(clip(cf.Status, 40))
	}

	cells := lipgloss.JoinHorizontal(lipgloss.Left,
		lipgloss.NewStyle().Width(9).Render(stateBadge(cf.State)),
		lipgloss.NewStyle().Width(16).Foreground(fog).Render(clip(cf.Target.Group, 14)),
		lipgloss.NewStyle().Width(37).Foreground(ink).Render(clip(cf.Target.URL, 35)),
		status,
	)
	if idx == f.cursor {
		return cursorRowStyle.Render(cells)
	}
	return cells
}

func (f FindingsModel) visible() []models.ClassifiedFinding {
	if f.round == nil {
		return nil
	}
	if f.filter == "" {
		return f.round.Findings
	}
	var out []models.ClassifiedFinding
	for _, cf := range f.round.Findings {
		if cf.State == f.filter {
			out = append(out, cf)
		}
	}
	return out
}

func (f FindingsModel) clamp() FindingsModel {
	if n := len(f.visible()); f.cursor >= n {
		f.cursor = n - 1
	}
	if f.cursor < 0 {
		f.cursor = 0
	}
	return f
}

// clip shortens s to roughly n characters keeping the tail, which for a
// join URL is the part that identifies the beta.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n+3:]
}
