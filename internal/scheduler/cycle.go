package scheduler

import (
	"github.com/neuroshield/eye/internal/config"
	"github.com/neuroshield/eye/internal/store"
)

// CycleState is the work/break state machine's current phase.
type CycleState int

const (
	StateIdle CycleState = iota
	StateWorking
	StateOnBreak
)

func (s CycleState) String() string {
	switch s {
	case StateWorking:
		return "working"
	case StateOnBreak:
		return "on_break"
	default:
		return "idle"
	}
}

// CycleScheduler drives the work -> break -> work cycle. It holds no
// timers of its own: the host calls Tick once per second and the machine
// advances synchronously, publishing events on its Bus.
//
// Break duration, type and the forced flag are read from configuration at
// the moment a break starts, so a settings change mid-work-cycle takes
// effect on the next break without a restart.
type CycleScheduler struct {
	cfg   *config.Config
	stats *store.Store
	bus   *Bus

	state          CycleState
	workRemaining  int
	breakRemaining int
	breakForced    bool
	breakID        int64
}

func NewCycle(cfg *config.Config, stats *store.Store, bus *Bus) *CycleScheduler {
	return &CycleScheduler{
		cfg:   cfg,
		stats: stats,
		bus:   bus,
		state: StateIdle,
	}
}

func (c *CycleScheduler) State() CycleState { return c.state }

func (c *CycleScheduler) Running() bool { return c.state != StateIdle }

// WorkRemaining returns the seconds left until the next break.
func (c *CycleScheduler) WorkRemaining() int { return c.workRemaining }

// BreakRemaining returns the seconds left in the current break.
func (c *CycleScheduler) BreakRemaining() int { return c.breakRemaining }

// BreakForced reports whether the current break may be skipped.
func (c *CycleScheduler) BreakForced() bool { return c.breakForced }

// Start begins the work countdown. Starting during a break ends the
// break as skipped; starting while already working is a no-op.
func (c *CycleScheduler) Start() {
	switch c.state {
	case StateWorking:
		return
	case StateOnBreak:
		c.endBreak(false)
	default:
		c.state = StateWorking
		c.workRemaining = c.workSeconds()
	}
}

// Stop halts the cycle. An in-progress break is closed as abandoned so no
// open break_events row is left behind, but neither counter is credited.
func (c *CycleScheduler) Stop() {
	if c.state == StateOnBreak {
		c.stats.AbandonBreak(c.breakID)
		c.breakID = 0
	}
	c.state = StateIdle
	c.workRemaining = 0
	c.breakRemaining = 0
}

// TriggerBreakNow forces an immediate break, resetting the work cycle.
// From Idle the scheduler bootstraps itself first. During a break it is a
// no-op: only one break event may be open at a time.
func (c *CycleScheduler) TriggerBreakNow() {
	if c.state == StateOnBreak {
		return
	}
	c.state = StateWorking
	c.startBreak()
}

// SkipBreak dismisses the current break early. Forced breaks ignore it.
func (c *CycleScheduler) SkipBreak() {
	if c.state != StateOnBreak || c.breakForced {
		return
	}
	c.endBreak(false)
}

// Tick advances the machine by one second.
func (c *CycleScheduler) Tick() {
	switch c.state {
	case StateWorking:
		c.workRemaining--
		c.bus.publish(ProgressTick{Remaining: c.workRemaining})
		if c.workRemaining <= 0 {
			c.startBreak()
		}
	case StateOnBreak:
		c.breakRemaining--
		c.bus.publish(BreakTick{Remaining: c.breakRemaining})
		if c.breakRemaining <= 0 {
			c.endBreak(true)
		}
	}
}

func (c *CycleScheduler) startBreak() {
	duration := c.breakSeconds()
	forced := c.cfg.GetBool("break_timer", "forced_break", false)
	breakType := c.mode()

	c.breakID = c.stats.RecordBreakStart(breakType)
	c.state = StateOnBreak
	c.breakRemaining = duration
	c.breakForced = forced
	c.bus.publish(BreakStarted{Duration: duration, Forced: forced, Type: breakType})
}

func (c *CycleScheduler) endBreak(completed bool) {
	c.stats.RecordBreakEnd(c.breakID, completed)
	c.breakID = 0
	c.bus.publish(BreakEnded{Completed: completed})
	c.state = StateWorking
	c.workRemaining = c.workSeconds()
}

func (c *CycleScheduler) mode() string {
	return c.cfg.GetString("break_timer", "mode", store.BreakType202020)
}

func (c *CycleScheduler) workSeconds() int {
	if c.mode() == store.BreakType202020 {
		return c.cfg.GetInt("break_timer", "work_interval_minutes", 20) * 60
	}
	return c.cfg.GetInt("break_timer", "custom_work_minutes", 45) * 60
}

func (c *CycleScheduler) breakSeconds() int {
	if c.mode() == store.BreakType202020 {
		return c.cfg.GetInt("break_timer", "break_duration_seconds", 20)
	}
	return c.cfg.GetInt("break_timer", "custom_break_minutes", 5) * 60
}
