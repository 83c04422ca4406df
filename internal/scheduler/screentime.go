package scheduler

import (
	"time"

	"github.com/neuroshield/eye/internal/config"
	"github.com/neuroshield/eye/internal/store"
)

// ScreenTimeTracker accrues one screen minute per 60 ticks while
// analytics tracking is enabled. The toggle is checked at accrual time so
// switching it off stops the very next minute.
type ScreenTimeTracker struct {
	cfg   *config.Config
	stats *store.Store

	seconds int
}

func NewScreenTimeTracker(cfg *config.Config, stats *store.Store) *ScreenTimeTracker {
	return &ScreenTimeTracker{cfg: cfg, stats: stats}
}

// Tick advances the tracker by one second.
func (t *ScreenTimeTracker) Tick() {
	t.seconds++
	if t.seconds < 60 {
		return
	}
	t.seconds = 0
	if t.cfg.GetBool("analytics", "track_screen_time", true) {
		t.stats.AddScreenMinutes(1, time.Time{})
	}
}
