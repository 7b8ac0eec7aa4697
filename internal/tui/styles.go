package tui

import (
	"github.com/CosmoTheDev/tfwatch/models"
	"github.com/charmbracelet/lipgloss"
)

// The palette borrows the iOS system colors. A TestFlight watcher may as
// well look the part.
var (
	accent   = lipgloss.Color("#0A84FF") // system blue
	mint     = lipgloss.Color("#30D158") // system green
	amber    = lipgloss.Color("#FFD60A") // system yellow
	coral    = lipgloss.Color("#FF453A") // system red
	ink      = lipgloss.Color("#F2F2F7")
	fog      = lipgloss.Color("#98989D")
	fogDim   = lipgloss.Color("#636366")
	charcoal = lipgloss.Color("#1C1C1E")
	graphite = lipgloss.Color("#3A3A3C")
)

var (
	brandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(charcoal).
			Background(accent).
			Padding(0, 1)

	taglineStyle = lipgloss.NewStyle().
			Foreground(fogDim).
			Padding(0, 1)

	headerBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(graphite).
			Padding(0, 1)

	tabOnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(charcoal).
			Background(accent).
			Padding(0, 2)

	tabOffStyle = lipgloss.NewStyle().
			Foreground(fog).
			Background(charcoal).
			Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(graphite).
			Padding(1, 2)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ink)

	statCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(graphite).
			Padding(0, 3).
			MarginRight(2)

	badgeStyle = lipgloss.NewStyle().
			Foreground(charcoal).
			Padding(0, 1)

	quietBadgeStyle = lipgloss.NewStyle().
			Foreground(fog).
			Background(graphite).
			Padding(0, 1)

	cursorRowStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(accent).
			Background(charcoal)

	keyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ink).
			Background(graphite).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(fogDim)

	openTextStyle    = lipgloss.NewStyle().Bold(true).Foreground(mint)
	fullTextStyle    = lipgloss.NewStyle().Foreground(fog)
	unknownTextStyle = lipgloss.NewStyle().Foreground(amber)
	errTextStyle     = lipgloss.NewStyle().Foreground(coral)
)

// stateStyle picks the text style for a slot state.
func stateStyle(state models.SlotState) lipgloss.Style {
	switch state {
	case models.StateOpen:
		return openTextStyle
	case models.StateFull:
		return fullTextStyle
	default:
		return unknownTextStyle
	}
}

// stateBadge renders a short colored tag for a slot state.
func stateBadge(state models.SlotState) string {
	switch state {
	case models.StateOpen:
		return badgeStyle.Background(mint).Render("OPEN")
	case models.StateFull:
		return quietBadgeStyle.Render("FULL")
	default:
		return badgeStyle.Background(amber).Render("ABSENT")
	}
}
