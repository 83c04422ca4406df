package store

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertDay is a test helper that seeds a daily_stats row directly.
func insertDay(t *testing.T, s *Store, date string, screen, done, missed, posture int) {
	t.Helper()
	_, err := s.db.Exec(
		`INSERT INTO daily_stats (stat_date, screen_minutes, breaks_done, breaks_missed, posture_alerts)
		 VALUES (?, ?, ?, ?, ?)`,
		date, screen, done, missed, posture,
	)
	if err != nil {
		t.Fatalf("insert day: %v", err)
	}
}

func daysAgo(s *Store, n int) string {
	return s.now().AddDate(0, 0, -n).Format(DateFormat)
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/nseye.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Screen time
// ============================================================

func TestAddScreenMinutesUpsert(t *testing.T) {
	s := newTestStore(t)

	s.AddScreenMinutes(5, time.Time{})
	if got := s.TodayStats().ScreenMinutes; got != 5 {
		t.Fatalf("expected 5 minutes, got %d", got)
	}

	// Second call increments, never overwrites.
	s.AddScreenMinutes(3, time.Time{})
	if got := s.TodayStats().ScreenMinutes; got != 8 {
		t.Fatalf("expected 8 minutes, got %d", got)
	}
}

func TestAddScreenMinutesZeroIsNoop(t *testing.T) {
	s := newTestStore(t)

	s.AddScreenMinutes(0, time.Time{})
	if got := s.WeeklyStats(); got != nil {
		t.Fatalf("zero minutes should not create a row, got %+v", got)
	}

	s.AddScreenMinutes(-4, time.Time{})
	if got := s.WeeklyStats(); got != nil {
		t.Fatal("negative minutes should not create a row")
	}
}

func TestAddScreenMinutesExplicitDay(t *testing.T) {
	s := newTestStore(t)
	yesterday := s.now().AddDate(0, 0, -1)

	s.AddScreenMinutes(42, yesterday)

	if got := s.TodayStats().ScreenMinutes; got != 0 {
		t.Fatalf("today should be untouched, got %d", got)
	}
	week := s.WeeklyStats()
	if len(week) != 1 || week[0].ScreenMinutes != 42 {
		t.Fatalf("expected yesterday's 42 minutes, got %+v", week)
	}
}

// ============================================================
// Break events
// ============================================================

func TestRecordBreakStart(t *testing.T) {
	s := newTestStore(t)

	id := s.RecordBreakStart(BreakType202020)
	if id == 0 {
		t.Fatal("expected non-zero break id")
	}

	e := s.GetBreakEvent(id)
	if e == nil {
		t.Fatal("break event not found")
	}
	if e.BreakType != BreakType202020 {
		t.Fatalf("wrong break type: %s", e.BreakType)
	}
	if e.EndTime != nil {
		t.Fatal("new break should be open")
	}
	if e.StartTime.IsZero() {
		t.Fatal("start time should be set")
	}
}

func TestRecordBreakEndCompleted(t *testing.T) {
	s := newTestStore(t)

	id := s.RecordBreakStart(BreakType202020)
	s.RecordBreakEnd(id, true)

	e := s.GetBreakEvent(id)
	if e.EndTime == nil {
		t.Fatal("break should be closed")
	}
	if !e.Completed {
		t.Fatal("break should be completed")
	}

	today := s.TodayStats()
	if today.BreaksDone != 1 {
		t.Fatalf("expected 1 break done, got %d", today.BreaksDone)
	}
	if today.BreaksMissed != 0 {
		t.Fatalf("expected 0 breaks missed, got %d", today.BreaksMissed)
	}
}

func TestRecordBreakEndSkipped(t *testing.T) {
	s := newTestStore(t)

	id := s.RecordBreakStart(BreakTypeCustom)
	s.RecordBreakEnd(id, false)

	e := s.GetBreakEvent(id)
	if e.EndTime == nil || e.Completed {
		t.Fatalf("expected closed, not-completed break: %+v", e)
	}

	today := s.TodayStats()
	if today.BreaksMissed != 1 || today.BreaksDone != 0 {
		t.Fatalf("expected 1 missed / 0 done, got %d / %d", today.BreaksMissed, today.BreaksDone)
	}
}

// Breaks are credited to the day they close, not the day they start. A
// break opened before midnight and finished after it counts toward the
// morning.
func TestRecordBreakEndCreditsCloseDay(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 3, 14, 23, 59, 30, 0, time.Local)
	s.now = func() time.Time { return base }
	id := s.RecordBreakStart(BreakType202020)

	s.now = func() time.Time { return base.Add(time.Minute) } // past midnight
	s.RecordBreakEnd(id, true)

	week := s.WeeklyStats()
	if len(week) != 1 {
		t.Fatalf("expected exactly one daily row, got %d", len(week))
	}
	if week[0].Date != "2026-03-15" {
		t.Fatalf("break should count toward the close day, got %s", week[0].Date)
	}
}

func TestAbandonBreak(t *testing.T) {
	s := newTestStore(t)

	id := s.RecordBreakStart(BreakType202020)
	s.AbandonBreak(id)

	e := s.GetBreakEvent(id)
	if e.EndTime == nil {
		t.Fatal("abandoned break should be closed")
	}
	if e.Completed {
		t.Fatal("abandoned break should not be completed")
	}

	// Neither counter moves.
	today := s.TodayStats()
	if today.BreaksDone != 0 || today.BreaksMissed != 0 {
		t.Fatalf("abandon should not touch counters: %+v", today)
	}
}

func TestAbandonBreakAlreadyClosed(t *testing.T) {
	s := newTestStore(t)

	id := s.RecordBreakStart(BreakType202020)
	s.RecordBreakEnd(id, true)
	closed := s.GetBreakEvent(id)

	s.AbandonBreak(id)
	after := s.GetBreakEvent(id)
	if !after.Completed || !after.EndTime.Equal(*closed.EndTime) {
		t.Fatal("abandon must not rewrite a closed break")
	}
}

func TestAbandonBreakZeroID(t *testing.T) {
	s := newTestStore(t)
	s.AbandonBreak(0) // must not panic or write anything
	if got := s.RecentBreaks(10); got != nil {
		t.Fatalf("unexpected break rows: %+v", got)
	}
}

// ============================================================
// Posture events
// ============================================================

func TestRecordPostureAlert(t *testing.T) {
	s := newTestStore(t)

	s.RecordPostureAlert()
	s.RecordPostureAlert()

	today := s.TodayStats()
	if today.PostureAlerts != 2 {
		t.Fatalf("expected 2 posture alerts, got %d", today.PostureAlerts)
	}

	var count int
	s.db.QueryRow(`SELECT COUNT(*) FROM posture_events`).Scan(&count)
	if count != 2 {
		t.Fatalf("expected 2 posture_events rows, got %d", count)
	}
}

// ============================================================
// Queries
// ============================================================

func TestTodayStatsEmpty(t *testing.T) {
	s := newTestStore(t)

	today := s.TodayStats()
	if today.Date != s.today() {
		t.Fatalf("zero record should carry today's date, got %q", today.Date)
	}
	if today.ScreenMinutes != 0 || today.BreaksDone != 0 || today.BreaksMissed != 0 || today.PostureAlerts != 0 {
		t.Fatalf("expected zero-valued record, got %+v", today)
	}
}

func TestWeeklyStatsEmpty(t *testing.T) {
	s := newTestStore(t)
	if got := s.WeeklyStats(); len(got) != 0 {
		t.Fatalf("expected empty sequence, got %+v", got)
	}
}

func TestWeeklyStatsSparseAscending(t *testing.T) {
	s := newTestStore(t)
	insertDay(t, s, daysAgo(s, 0), 30, 1, 0, 0)
	insertDay(t, s, daysAgo(s, 3), 60, 2, 1, 4)
	insertDay(t, s, daysAgo(s, 8), 999, 9, 9, 9) // outside the window

	week := s.WeeklyStats()
	if len(week) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(week))
	}
	if week[0].Date != daysAgo(s, 3) || week[1].Date != daysAgo(s, 0) {
		t.Fatalf("expected ascending dates, got %s then %s", week[0].Date, week[1].Date)
	}
}

func TestWeeklyStatsWindowBoundary(t *testing.T) {
	s := newTestStore(t)
	insertDay(t, s, daysAgo(s, 6), 10, 0, 0, 0) // oldest day still in window
	insertDay(t, s, daysAgo(s, 7), 20, 0, 0, 0) // just outside

	week := s.WeeklyStats()
	if len(week) != 1 || week[0].Date != daysAgo(s, 6) {
		t.Fatalf("expected only the 6-days-ago row, got %+v", week)
	}
}

func TestBreakStreak(t *testing.T) {
	s := newTestStore(t)
	insertDay(t, s, daysAgo(s, 0), 0, 1, 0, 0)
	insertDay(t, s, daysAgo(s, 1), 0, 2, 0, 0)
	insertDay(t, s, daysAgo(s, 2), 0, 1, 1, 0)
	// day 3 missing entirely
	insertDay(t, s, daysAgo(s, 4), 0, 5, 0, 0)

	if got := s.BreakStreak(); got != 3 {
		t.Fatalf("expected streak 3, got %d", got)
	}
}

func TestBreakStreakZeroBreaksBreaksIt(t *testing.T) {
	s := newTestStore(t)
	insertDay(t, s, daysAgo(s, 0), 0, 1, 0, 0)
	insertDay(t, s, daysAgo(s, 1), 30, 0, 2, 0) // present but no completed break

	if got := s.BreakStreak(); got != 1 {
		t.Fatalf("expected streak 1, got %d", got)
	}
}

func TestBreakStreakNoTodayRecord(t *testing.T) {
	s := newTestStore(t)
	insertDay(t, s, daysAgo(s, 1), 0, 3, 0, 0)

	if got := s.BreakStreak(); got != 0 {
		t.Fatalf("streak requires today, got %d", got)
	}
}

func TestBreakStreakEmpty(t *testing.T) {
	s := newTestStore(t)
	if got := s.BreakStreak(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestAllTimeTotalHours(t *testing.T) {
	s := newTestStore(t)
	insertDay(t, s, daysAgo(s, 0), 60, 0, 0, 0)
	insertDay(t, s, daysAgo(s, 1), 90, 0, 0, 0)
	insertDay(t, s, daysAgo(s, 2), 30, 0, 0, 0)

	if got := s.AllTimeTotalHours(); got != 3.0 {
		t.Fatalf("expected 3.0 hours, got %v", got)
	}
}

func TestAllTimeTotalHoursRounding(t *testing.T) {
	s := newTestStore(t)
	insertDay(t, s, daysAgo(s, 0), 100, 0, 0, 0) // 1.666... hours

	if got := s.AllTimeTotalHours(); got != 1.7 {
		t.Fatalf("expected 1.7, got %v", got)
	}
}

func TestAllTimeTotalHoursEmpty(t *testing.T) {
	s := newTestStore(t)
	if got := s.AllTimeTotalHours(); got != 0.0 {
		t.Fatalf("expected 0.0, got %v", got)
	}
}

func TestRecentBreaksNewestFirst(t *testing.T) {
	s := newTestStore(t)
	first := s.RecordBreakStart(BreakType202020)
	second := s.RecordBreakStart(BreakTypeCustom)

	breaks := s.RecentBreaks(10)
	if len(breaks) != 2 {
		t.Fatalf("expected 2 breaks, got %d", len(breaks))
	}
	if breaks[0].ID != second || breaks[1].ID != first {
		t.Fatal("expected newest first")
	}
}

func TestAllDailyStats(t *testing.T) {
	s := newTestStore(t)
	insertDay(t, s, "2026-01-02", 10, 0, 0, 0)
	insertDay(t, s, "2026-01-01", 20, 0, 0, 0)

	all := s.AllDailyStats()
	if len(all) != 2 || all[0].Date != "2026-01-01" {
		t.Fatalf("expected ascending dates, got %+v", all)
	}
}

// ============================================================
// Failure behavior
// ============================================================

// Every operation degrades to a safe default once the database is gone;
// nothing may panic or propagate an error to the schedulers.
func TestOperationsSoftFailAfterClose(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	s.AddScreenMinutes(5, time.Time{})
	if id := s.RecordBreakStart(BreakType202020); id != 0 {
		t.Fatalf("expected sentinel id 0, got %d", id)
	}
	s.RecordBreakEnd(1, true)
	s.AbandonBreak(1)
	s.RecordPostureAlert()

	if got := s.TodayStats(); got.ScreenMinutes != 0 {
		t.Fatalf("expected zero record, got %+v", got)
	}
	if got := s.WeeklyStats(); got != nil {
		t.Fatal("expected nil weekly stats")
	}
	if got := s.BreakStreak(); got != 0 {
		t.Fatalf("expected 0 streak, got %d", got)
	}
	if got := s.AllTimeTotalHours(); got != 0 {
		t.Fatalf("expected 0 hours, got %v", got)
	}
}
