package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	colorFaint  = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#F59E0B"}

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorAccent).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorFaint).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(colorFaint).
				Padding(0, 1)

	cursorStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	titleStyle       = lipgloss.NewStyle().Bold(true)
	doneTitleStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(colorFaint)
	descriptionStyle = lipgloss.NewStyle().Foreground(colorFaint).PaddingLeft(6)
	emptyStyle       = lipgloss.NewStyle().Foreground(colorFaint).Italic(true).Padding(1, 2)
	helpStyle        = lipgloss.NewStyle().Foreground(colorFaint)
	statusStyle      = lipgloss.NewStyle().Foreground(colorWarn)
	formHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	bodyStyle        = lipgloss.NewStyle().Padding(1, 0)
)

// renderHelp renders bindings as "key action • key action".
func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}
