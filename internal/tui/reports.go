package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/neuroshield/eye/internal/store"
)

type reportsModel struct {
	store  *store.Store
	width  int
	height int

	week    []store.DailyStat
	breaks  []store.BreakEvent
	streak  int
	allTime float64

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	return reportsModel{
		store: s,
		chart: barchart.New(60, 10),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return reportsDataMsg{
			week:    r.store.WeeklyStats(),
			breaks:  r.store.RecentBreaks(8),
			streak:  r.store.BreakStreak(),
			allTime: r.store.AllTimeTotalHours(),
		}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	if msg, ok := msg.(reportsDataMsg); ok {
		r.week = msg.week
		r.breaks = msg.breaks
		r.streak = msg.streak
		r.allTime = msg.allTime
		r.buildChart()
	}
	return r, nil
}

// buildChart draws the last 7 calendar days of screen time. Days with no
// daily_stats row render as an empty bar.
func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if r.height > 28 {
		chartHeight = 14
	}
	r.chart = barchart.New(chartWidth, chartHeight)

	byDate := make(map[string]store.DailyStat, len(r.week))
	for _, st := range r.week {
		byDate[st.Date] = st
	}

	today := time.Now()
	var bars []barchart.BarData
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		dateStr := day.Format(store.DateFormat)
		label := day.Format("Mon 02")

		hours := 0.0
		style := lipgloss.NewStyle().Foreground(colorSubtle)
		if st, ok := byDate[dateStr]; ok {
			hours = float64(st.ScreenMinutes) / 60.0
			style = lipgloss.NewStyle().Foreground(colorPrimary)
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: dateStr, Value: hours, Style: style}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Weekly Report"), "  ",
		mutedStyle.Render("screen hours, last 7 days"),
	)

	summary := fmt.Sprintf("  %s %d days    %s %.1fh",
		accentStyle.Render("streak:"), r.streak,
		accentStyle.Render("all-time:"), r.allTime,
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", summary, "",
			r.renderWeekTable(w), "", r.renderBreakLog(w),
		),
	)
}

func (r reportsModel) renderWeekTable(w int) string {
	if len(r.week) == 0 {
		return mutedStyle.Render("  No activity recorded this week")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %8s %8s %8s",
		"Date", "Screen", "Done", "Missed", "Posture")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 50))))

	for _, st := range r.week {
		rows = append(rows, fmt.Sprintf("  %-12s %10s %8d %8d %8d",
			st.Date, formatMinutes(st.ScreenMinutes), st.BreaksDone, st.BreaksMissed, st.PostureAlerts))
	}
	return strings.Join(rows, "\n")
}

func (r reportsModel) renderBreakLog(w int) string {
	if len(r.breaks) == 0 {
		return mutedStyle.Render("  No breaks recorded yet")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render("  Recent breaks"))
	for _, b := range r.breaks {
		mark := warningStyle.Render("·")
		note := "in progress"
		if b.EndTime != nil {
			if b.Completed {
				mark = successStyle.Render("✓")
				note = "completed"
			} else {
				mark = errorStyle.Render("✗")
				note = "skipped"
			}
		}
		rows = append(rows, fmt.Sprintf("  %s %s  %-9s %s",
			mark,
			b.StartTime.Local().Format("Jan 02 15:04"),
			b.BreakType,
			mutedStyle.Render(note),
		))
	}
	return strings.Join(rows, "\n")
}
