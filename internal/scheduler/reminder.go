package scheduler

import (
	"github.com/neuroshield/eye/internal/config"
	"github.com/neuroshield/eye/internal/store"
)

const defaultPostureMessage = "Check your posture! Sit up straight and relax your shoulders."

// ReminderScheduler fires a posture reminder at a configured interval.
// Like CycleScheduler it is advanced by one-second Tick calls and keeps
// no state beyond the running countdown.
type ReminderScheduler struct {
	cfg   *config.Config
	stats *store.Store
	bus   *Bus

	enabled   bool
	remaining int
}

func NewReminder(cfg *config.Config, stats *store.Store, bus *Bus) *ReminderScheduler {
	return &ReminderScheduler{cfg: cfg, stats: stats, bus: bus}
}

func (r *ReminderScheduler) Enabled() bool { return r.enabled }

// Remaining returns the seconds until the next firing.
func (r *ReminderScheduler) Remaining() int { return r.remaining }

func (r *ReminderScheduler) Start() {
	if r.enabled {
		return
	}
	r.enabled = true
	r.restart()
}

func (r *ReminderScheduler) Stop() {
	r.enabled = false
}

// Toggle flips the enabled state and reports the new value.
func (r *ReminderScheduler) Toggle() bool {
	if r.enabled {
		r.Stop()
	} else {
		r.Start()
	}
	return r.enabled
}

// UpdateInterval reschedules the next firing from the current configured
// interval. The running countdown is discarded, not resumed.
func (r *ReminderScheduler) UpdateInterval() {
	if r.enabled {
		r.restart()
	}
}

// Tick advances the countdown by one second.
func (r *ReminderScheduler) Tick() {
	if !r.enabled {
		return
	}
	r.remaining--
	if r.remaining <= 0 {
		r.fire()
		r.restart()
	}
}

func (r *ReminderScheduler) restart() {
	r.remaining = r.cfg.GetInt("posture", "interval_minutes", 30) * 60
}

func (r *ReminderScheduler) fire() {
	message := r.cfg.GetString("posture", "message", defaultPostureMessage)
	r.bus.publish(ReminderFired{Message: message})
	r.stats.RecordPostureAlert()
}
