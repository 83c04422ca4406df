package tui

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/neuroshield/eye/internal/config"
	"github.com/neuroshield/eye/internal/scheduler"
	"github.com/neuroshield/eye/internal/store"
)

type settingsModel struct {
	cfg      *config.Config
	reminder *scheduler.ReminderScheduler
	width    int
	height   int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	mode            *string
	workMinutes     *string
	breakSeconds    *string
	customWork      *string
	customBreak     *string
	forcedBreak     *bool
	soundEnabled    *bool
	postureEnabled  *bool
	postureInterval *string
	postureMessage  *string
	trackScreenTime *bool
	dailyGoal       *string
	notifications   *bool
}

func newSettingsModel(cfg *config.Config, reminder *scheduler.ReminderScheduler) settingsModel {
	m, wm, bs, cw, cb := "", "", "", "", ""
	pi, pm, dg := "", "", ""
	fb, se, pe, ts, nt := false, false, false, false, false
	return settingsModel{
		cfg:             cfg,
		reminder:        reminder,
		mode:            &m,
		workMinutes:     &wm,
		breakSeconds:    &bs,
		customWork:      &cw,
		customBreak:     &cb,
		forcedBreak:     &fb,
		soundEnabled:    &se,
		postureEnabled:  &pe,
		postureInterval: &pi,
		postureMessage:  &pm,
		trackScreenTime: &ts,
		dailyGoal:       &dg,
		notifications:   &nt,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showForm()
		case msg.String() == "r":
			if err := s.cfg.ResetToDefaults(); err != nil {
				return s, func() tea.Msg {
					return statusMsg{text: fmt.Sprintf("Reset error: %v", err), isError: true}
				}
			}
			// The restored defaults decide whether reminders run.
			if s.cfg.GetBool("posture", "enabled", true) {
				s.reminder.Start()
			} else {
				s.reminder.Stop()
			}
			s.reminder.UpdateInterval()
			return s, func() tea.Msg {
				return statusMsg{text: "Settings reset to defaults"}
			}
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.mode = s.cfg.GetString("break_timer", "mode", store.BreakType202020)
	*s.workMinutes = strconv.Itoa(s.cfg.GetInt("break_timer", "work_interval_minutes", 20))
	*s.breakSeconds = strconv.Itoa(s.cfg.GetInt("break_timer", "break_duration_seconds", 20))
	*s.customWork = strconv.Itoa(s.cfg.GetInt("break_timer", "custom_work_minutes", 45))
	*s.customBreak = strconv.Itoa(s.cfg.GetInt("break_timer", "custom_break_minutes", 5))
	*s.forcedBreak = s.cfg.GetBool("break_timer", "forced_break", false)
	*s.soundEnabled = s.cfg.GetBool("break_timer", "sound_enabled", true)
	*s.postureEnabled = s.cfg.GetBool("posture", "enabled", true)
	*s.postureInterval = strconv.Itoa(s.cfg.GetInt("posture", "interval_minutes", 30))
	*s.postureMessage = s.cfg.GetString("posture", "message", "")
	*s.trackScreenTime = s.cfg.GetBool("analytics", "track_screen_time", true)
	*s.dailyGoal = fmt.Sprintf("%.1f", s.cfg.GetFloat("analytics", "daily_goal_hours", 8))
	*s.notifications = s.cfg.GetBool("app", "show_notifications", true)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Break mode").
				Options(
					huh.NewOption("20-20-20", store.BreakType202020),
					huh.NewOption("Custom", store.BreakTypeCustom),
				).Value(s.mode),
			huh.NewInput().Title("Work interval (min)").Value(s.workMinutes),
			huh.NewInput().Title("Break duration (sec)").Value(s.breakSeconds),
			huh.NewInput().Title("Custom work (min)").Value(s.customWork),
			huh.NewInput().Title("Custom break (min)").Value(s.customBreak),
			huh.NewConfirm().Title("Forced breaks").Value(s.forcedBreak),
			huh.NewConfirm().Title("Break sound").Value(s.soundEnabled),
		).Title("Break Timer"),
		huh.NewGroup(
			huh.NewConfirm().Title("Posture reminders").Value(s.postureEnabled),
			huh.NewInput().Title("Reminder interval (min)").Value(s.postureInterval),
			huh.NewInput().Title("Reminder message").Value(s.postureMessage),
		).Title("Posture"),
		huh.NewGroup(
			huh.NewConfirm().Title("Track screen time").Value(s.trackScreenTime),
			huh.NewInput().Title("Daily goal (hours)").Value(s.dailyGoal),
			huh.NewConfirm().Title("Notifications").Value(s.notifications),
		).Title("Analytics"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.saveSettings()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() tea.Cmd {
	s.cfg.Set("break_timer", "mode", *s.mode)
	s.cfg.Set("break_timer", "work_interval_minutes", atoiOr(*s.workMinutes, 20))
	s.cfg.Set("break_timer", "break_duration_seconds", atoiOr(*s.breakSeconds, 20))
	s.cfg.Set("break_timer", "custom_work_minutes", atoiOr(*s.customWork, 45))
	s.cfg.Set("break_timer", "custom_break_minutes", atoiOr(*s.customBreak, 5))
	s.cfg.Set("break_timer", "forced_break", *s.forcedBreak)
	s.cfg.Set("break_timer", "sound_enabled", *s.soundEnabled)
	s.cfg.Set("posture", "enabled", *s.postureEnabled)
	s.cfg.Set("posture", "interval_minutes", atoiOr(*s.postureInterval, 30))
	s.cfg.Set("posture", "message", *s.postureMessage)
	s.cfg.Set("analytics", "track_screen_time", *s.trackScreenTime)
	s.cfg.Set("analytics", "daily_goal_hours", atofOr(*s.dailyGoal, 8))
	s.cfg.Set("app", "show_notifications", *s.notifications)

	// New posture interval takes effect immediately, not after the old
	// countdown drains.
	if *s.postureEnabled {
		s.reminder.Start()
	} else {
		s.reminder.Stop()
	}
	s.reminder.UpdateInterval()

	if err := s.cfg.Save(); err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
	}
	return func() tea.Msg {
		return statusMsg{text: "Settings saved"}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("enter: edit   r: reset to defaults")

	var rows []string
	rows = append(rows, title, "")
	for _, section := range []string{"break_timer", "posture", "analytics", "app"} {
		rows = append(rows, accentStyle.Render("  ["+section+"]"))
		values := s.cfg.Section(section)
		names := make([]string, 0, len(values))
		for k := range values {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			label := lipgloss.NewStyle().Width(26).Render("  " + k)
			rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(fmt.Sprintf("%v", values[k]))))
		}
	}
	rows = append(rows, "", hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func atoiOr(s string, fallback int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return fallback
}

func atofOr(s string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return fallback
}
