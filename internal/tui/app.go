package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/neuroshield/eye/internal/config"
	"github.com/neuroshield/eye/internal/export"
	"github.com/neuroshield/eye/internal/scheduler"
	"github.com/neuroshield/eye/internal/store"
)

// toastTicks is how many seconds a posture toast stays on screen.
const toastTicks = 8

// App is the root Bubble Tea model. It owns the one-second tick loop that
// drives all three schedulers and fans their events back into the UI.
type App struct {
	cfg    *config.Config
	store  *store.Store
	width  int
	height int

	bus       *scheduler.Bus
	collector *scheduler.Collector
	cycle     *scheduler.CycleScheduler
	reminder  *scheduler.ReminderScheduler
	tracker   *scheduler.ScreenTimeTracker

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	reports   reportsModel
	settings  settingsModel

	help      help.Model
	status    string
	toast     string
	toastLeft int
}

func NewApp(cfg *config.Config, s *store.Store) App {
	bus := scheduler.NewBus()
	collector := scheduler.NewCollector(bus)
	cycle := scheduler.NewCycle(cfg, s, bus)
	reminder := scheduler.NewReminder(cfg, s, bus)
	tracker := scheduler.NewScreenTimeTracker(cfg, s)

	cycle.Start()
	if cfg.GetBool("posture", "enabled", true) {
		reminder.Start()
	}

	h := help.New()
	h.ShowAll = false

	return App{
		cfg:        cfg,
		store:      s,
		bus:        bus,
		collector:  collector,
		cycle:      cycle,
		reminder:   reminder,
		tracker:    tracker,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s, cfg, cycle, reminder),
		reports:    newReportsModel(s),
		settings:   newSettingsModel(cfg, reminder),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.dashboard.Init(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ringBell sounds the terminal bell once. Kept out of the status string so
// a footer repaint cannot re-ring it.
func ringBell() tea.Msg {
	os.Stdout.WriteString("\a")
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tickMsg:
		return a.handleTick()

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.updateActiveView(msg)
}

// handleTick advances all schedulers by one second and reacts to whatever
// they emitted.
func (a App) handleTick() (tea.Model, tea.Cmd) {
	a.cycle.Tick()
	a.reminder.Tick()
	a.tracker.Tick()

	if a.toastLeft > 0 {
		a.toastLeft--
		if a.toastLeft == 0 {
			a.toast = ""
		}
	}

	cmds := []tea.Cmd{tickCmd()}
	for _, ev := range a.collector.Drain() {
		switch ev := ev.(type) {
		case scheduler.BreakStarted:
			a.status = "Break time!"
			if a.cfg.GetBool("break_timer", "sound_enabled", true) &&
				a.cfg.GetBool("app", "show_notifications", true) {
				cmds = append(cmds, ringBell)
			}
		case scheduler.BreakEnded:
			if ev.Completed {
				a.status = "Break completed"
			} else {
				a.status = "Break skipped"
			}
			cmds = append(cmds, a.dashboard.loadData())
		case scheduler.ReminderFired:
			// A new reminder supersedes any toast still showing.
			a.toast = ev.Message
			a.toastLeft = toastTicks
			cmds = append(cmds, a.dashboard.loadData())
		}
	}

	return a, tea.Batch(cmds...)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The break overlay captures input while a break is running.
	if a.cycle.State() == scheduler.StateOnBreak {
		switch {
		case key.Matches(msg, keys.Skip):
			a.cycle.SkipBreak()
			return a, nil
		case key.Matches(msg, keys.Quit):
			// Stop closes the open break row; quitting must not orphan it.
			a.cycle.Stop()
			return a, tea.Quit
		}
		return a, nil
	}

	if a.exportPicking {
		return a.updateExportPicker(msg)
	}

	if a.activeView == viewSettings && a.settings.formActive {
		return a.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		a.cycle.Stop()
		return a, tea.Quit
	case key.Matches(msg, keys.Start):
		a.cycle.Start()
		a.status = "Break cycle started"
		return a, nil
	case key.Matches(msg, keys.Stop):
		a.cycle.Stop()
		a.status = "Break cycle stopped"
		return a, nil
	case key.Matches(msg, keys.BreakNow):
		a.cycle.TriggerBreakNow()
		return a, nil
	case key.Matches(msg, keys.Posture):
		if a.reminder.Toggle() {
			a.status = "Posture reminders on"
		} else {
			a.status = "Posture reminders off"
		}
		return a, nil
	case key.Matches(msg, keys.Export):
		a.exportPicking = true
		a.exportCursor = 0
		return a, nil
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil
	case key.Matches(msg, keys.Tab1):
		a.activeView = viewDashboard
		return a, a.dashboard.loadData()
	case key.Matches(msg, keys.Tab2):
		a.activeView = viewReports
		return a, a.reports.refresh()
	case key.Matches(msg, keys.Tab3):
		a.activeView = viewSettings
		return a, nil
	case key.Matches(msg, keys.Tab):
		a.activeView = (a.activeView + 1) % 3
		return a, a.refreshCurrentView()
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewReports:
		return a.reports.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if a.cycle.State() == scheduler.StateOnBreak {
		return renderBreakScreen(a.width, a.height, a.cycle.BreakRemaining(), a.cycle.BreakForced())
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	if a.toast != "" {
		content = lipgloss.JoinVertical(lipgloss.Left,
			toastStyle.Render(accentStyle.Render("Posture Check  ")+a.toast),
			content,
		)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("nseye")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Work countdown indicator
	cycleInfo := ""
	if a.cycle.State() == scheduler.StateWorking {
		cycleInfo = successStyle.Render(" ● " + formatClock(a.cycle.WorkRemaining()))
	}

	left := footerStyle.Render(helpView)
	right := cycleInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		stats := a.store.AllDailyStats()
		breaks := a.store.RecentBreaks(1000)

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("nseye-export-%s.csv", dateStr))
			if err := export.ToCSV(stats, breaks, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("nseye-export-%s.json", dateStr))
			if err := export.ToJSON(stats, breaks, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
