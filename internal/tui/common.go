package tui

import (
	"fmt"
	"time"

	"github.com/neuroshield/eye/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Reports", "Settings"}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type dashboardDataMsg struct {
	today   store.DailyStat
	streak  int
	allTime float64
}

type reportsDataMsg struct {
	week    []store.DailyStat
	breaks  []store.BreakEvent
	streak  int
	allTime float64
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// formatClock renders a countdown as MM:SS.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// formatMinutes renders a minute count as "Xh YYm" (or "YYm" under an hour).
func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
