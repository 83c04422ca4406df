package store

import "time"

// DateFormat is how daily_stats keys its rows.
const DateFormat = "2006-01-02"

// Break types recorded on break_events.
const (
	BreakType202020 = "20-20-20"
	BreakTypeCustom = "custom"
)

// DailyStat is one row of daily_stats: aggregate counters for a single
// calendar day. Counters only ever grow within a day.
type DailyStat struct {
	ID            int64
	Date          string // YYYY-MM-DD
	ScreenMinutes int
	BreaksDone    int
	BreaksMissed  int
	PostureAlerts int
}

// BreakEvent is one break occurrence. EndTime is nil while the break is
// in progress; Completed is meaningful only once EndTime is set.
type BreakEvent struct {
	ID        int64
	StartTime time.Time
	EndTime   *time.Time
	Completed bool
	BreakType string
}

// PostureEvent is an append-only posture reminder log entry.
type PostureEvent struct {
	ID        int64
	EventTime time.Time
}
