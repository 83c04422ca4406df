package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/neuroshield/eye/internal/config"
	"github.com/neuroshield/eye/internal/scheduler"
	"github.com/neuroshield/eye/internal/store"
)

type dashboardModel struct {
	store    *store.Store
	cfg      *config.Config
	cycle    *scheduler.CycleScheduler
	reminder *scheduler.ReminderScheduler
	width    int
	height   int

	today   store.DailyStat
	streak  int
	allTime float64
}

func newDashboardModel(s *store.Store, cfg *config.Config, cycle *scheduler.CycleScheduler, reminder *scheduler.ReminderScheduler) dashboardModel {
	return dashboardModel{
		store:    s,
		cfg:      cfg,
		cycle:    cycle,
		reminder: reminder,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		return dashboardDataMsg{
			today:   d.store.TodayStats(),
			streak:  d.store.BreakStreak(),
			allTime: d.store.AllTimeTotalHours(),
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(dashboardDataMsg); ok {
		d.today = msg.today
		d.streak = msg.streak
		d.allTime = msg.allTime
	}
	return d, nil
}

func (d dashboardModel) view() string {
	w := d.width - 4

	title := titleStyle.Render("Eye Health Today")

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		d.renderCard("Screen Time", formatMinutes(d.today.ScreenMinutes), d.goalNote(), colorPrimary),
		d.renderCard("Breaks Done", fmt.Sprintf("%d", d.today.BreaksDone), "completed", colorSuccess),
		d.renderCard("Breaks Missed", fmt.Sprintf("%d", d.today.BreaksMissed), "skipped", colorError),
		d.renderCard("Break Streak", fmt.Sprintf("%d", d.streak), "days", colorAccent),
	)

	countdown := d.renderCountdown(w)
	postureLine := d.renderPostureLine()
	goalBar := d.renderGoalBar(w)

	allTime := mutedStyle.Render(fmt.Sprintf("All-time screen hours: %.1f   Posture alerts today: %d",
		d.allTime, d.today.PostureAlerts))

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title, "", cards, "", countdown, "", goalBar, "", postureLine, "", allTime,
		),
	)
}

func (d dashboardModel) renderCard(label, value, unit string, color lipgloss.Color) string {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(0, 2).
		Width(18).
		Align(lipgloss.Center)

	v := lipgloss.NewStyle().Bold(true).Foreground(color).Render(value)
	return card.Render(lipgloss.JoinVertical(lipgloss.Center,
		mutedStyle.Render(label), v, mutedStyle.Render(unit),
	))
}

func (d dashboardModel) renderCountdown(w int) string {
	switch d.cycle.State() {
	case scheduler.StateWorking:
		clock := countdownStyle.Width(w - 6).Render(formatClock(d.cycle.WorkRemaining()))
		label := mutedStyle.Render("until next break  ·  x: stop  b: break now")
		return lipgloss.JoinVertical(lipgloss.Center, clock, label)
	case scheduler.StateOnBreak:
		clock := breakCountdownStyle.Width(w - 6).Render(formatClock(d.cycle.BreakRemaining()))
		return lipgloss.JoinVertical(lipgloss.Center, clock, successStyle.Render("on break"))
	default:
		hint := mutedStyle.Width(w - 6).Align(lipgloss.Center).
			Render("Break cycle stopped — press s to start")
		return hint
	}
}

func (d dashboardModel) renderPostureLine() string {
	if d.reminder.Enabled() {
		next := formatClock(d.reminder.Remaining())
		return successStyle.Render("● ") +
			mutedStyle.Render("posture reminders on, next in "+next+"  (p to disable)")
	}
	return mutedStyle.Render("○ posture reminders off  (p to enable)")
}

// renderGoalBar draws today's screen time against the daily goal.
func (d dashboardModel) renderGoalBar(w int) string {
	goalHours := d.cfg.GetFloat("analytics", "daily_goal_hours", 8)
	goalMinutes := int(goalHours * 60)
	if goalMinutes <= 0 {
		return ""
	}

	barWidth := min(w-20, 40)
	if barWidth < 10 {
		barWidth = 10
	}
	filled := d.today.ScreenMinutes * barWidth / goalMinutes
	over := filled > barWidth
	if over {
		filled = barWidth
	}

	fillStyle := successStyle
	if over {
		fillStyle = warningStyle
	}
	bar := fillStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", barWidth-filled))

	return fmt.Sprintf("  %s %s",
		bar,
		mutedStyle.Render(fmt.Sprintf("%s / %.0fh goal", formatMinutes(d.today.ScreenMinutes), goalHours)),
	)
}

func (d dashboardModel) goalNote() string {
	goalHours := d.cfg.GetFloat("analytics", "daily_goal_hours", 8)
	return fmt.Sprintf("of %.0fh goal", goalHours)
}
