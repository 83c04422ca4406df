package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderBreakScreen is the full-screen overlay shown while a break is in
// progress. It replaces every other view until the break ends.
func renderBreakScreen(width, height, remaining int, forced bool) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorFg).
		Render("Time for a Break")

	instruction := mutedStyle.Render("Look at something 20 feet away.\nRelax your eyes and breathe.")

	clock := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		Render(formatClock(remaining))

	hint := mutedStyle.Render("space: skip break")
	if forced {
		hint = warningStyle.Render("this break cannot be skipped")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title, "", instruction, "", clock, "", hint,
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		activePanelStyle.Render(content))
}
