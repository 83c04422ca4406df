package store

import (
	"database/sql"
	"log"
	"math"
	"time"
)

// today returns the current calendar date as a daily_stats key. Dates are
// local: a break taken at 23:30 belongs to the user's evening, not UTC's.
func (s *Store) today() string {
	return s.now().Format(DateFormat)
}

// AddScreenMinutes adds n minutes of screen time to the given day via
// upsert-increment. A zero (or negative) n is a no-op so idle callers
// don't materialize empty rows. Pass the zero time for "today".
func (s *Store) AddScreenMinutes(n int, day time.Time) {
	if n <= 0 {
		return
	}
	dayStr := s.today()
	if !day.IsZero() {
		dayStr = day.Format(DateFormat)
	}
	_, err := s.db.Exec(
		`INSERT INTO daily_stats (stat_date, screen_minutes) VALUES (?, ?)
		 ON CONFLICT(stat_date) DO UPDATE SET
		     screen_minutes = screen_minutes + excluded.screen_minutes`,
		dayStr, n,
	)
	if err != nil {
		log.Printf("store: add screen minutes: %v", err)
	}
}

// RecordBreakStart inserts an open break_events row and returns its id.
// Returns 0 if the insert fails; callers must tolerate a break that can
// never be closed.
func (s *Store) RecordBreakStart(breakType string) int64 {
	res, err := s.db.Exec(
		`INSERT INTO break_events (start_time, break_type) VALUES (?, ?)`,
		s.now().Format(time.RFC3339), breakType,
	)
	if err != nil {
		log.Printf("store: record break start: %v", err)
		return 0
	}
	id, _ := res.LastInsertId()
	return id
}

// RecordBreakEnd closes the break and bumps today's breaks_done or
// breaks_missed. The counter goes to the day the break ends, not the day
// it started; a break crossing midnight counts toward the morning after.
func (s *Store) RecordBreakEnd(id int64, completed bool) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("store: record break end: %v", err)
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE break_events SET end_time = ?, completed = ? WHERE id = ?`,
		s.now().Format(time.RFC3339), boolToInt(completed), id,
	)
	if err != nil {
		log.Printf("store: record break end: %v", err)
		return
	}

	column := "breaks_missed"
	if completed {
		column = "breaks_done"
	}
	_, err = tx.Exec(
		`INSERT INTO daily_stats (stat_date, `+column+`) VALUES (?, 1)
		 ON CONFLICT(stat_date) DO UPDATE SET
		     `+column+` = `+column+` + 1`,
		s.today(),
	)
	if err != nil {
		log.Printf("store: record break end: %v", err)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("store: record break end: %v", err)
	}
}

// AbandonBreak closes an in-progress break without crediting either
// counter. Used when the scheduler is stopped mid-break so no open
// break_events row is left behind.
func (s *Store) AbandonBreak(id int64) {
	if id == 0 {
		return
	}
	_, err := s.db.Exec(
		`UPDATE break_events SET end_time = ?, completed = 0
		 WHERE id = ? AND end_time IS NULL`,
		s.now().Format(time.RFC3339), id,
	)
	if err != nil {
		log.Printf("store: abandon break: %v", err)
	}
}

// RecordPostureAlert appends a posture_events row and bumps today's
// posture_alerts counter.
func (s *Store) RecordPostureAlert() {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("store: record posture alert: %v", err)
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO posture_events (event_time) VALUES (?)`,
		s.now().Format(time.RFC3339),
	); err != nil {
		log.Printf("store: record posture alert: %v", err)
		return
	}
	if _, err := tx.Exec(
		`INSERT INTO daily_stats (stat_date, posture_alerts) VALUES (?, 1)
		 ON CONFLICT(stat_date) DO UPDATE SET
		     posture_alerts = posture_alerts + 1`,
		s.today(),
	); err != nil {
		log.Printf("store: record posture alert: %v", err)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("store: record posture alert: %v", err)
	}
}

// TodayStats returns today's aggregates, or a zero-valued record if the
// day has no row yet. Never nil.
func (s *Store) TodayStats() DailyStat {
	dayStr := s.today()
	stat := DailyStat{Date: dayStr}
	err := s.db.QueryRow(
		`SELECT id, stat_date, screen_minutes, breaks_done, breaks_missed, posture_alerts
		 FROM daily_stats WHERE stat_date = ?`, dayStr,
	).Scan(&stat.ID, &stat.Date, &stat.ScreenMinutes, &stat.BreaksDone,
		&stat.BreaksMissed, &stat.PostureAlerts)
	if err != nil && err != sql.ErrNoRows {
		log.Printf("store: today stats: %v", err)
	}
	return stat
}

// WeeklyStats returns rows for the last 7 calendar days (today included),
// ascending by date. Days with no activity are absent, not zero-filled.
func (s *Store) WeeklyStats() []DailyStat {
	start := s.now().AddDate(0, 0, -6).Format(DateFormat)
	rows, err := s.db.Query(
		`SELECT id, stat_date, screen_minutes, breaks_done, breaks_missed, posture_alerts
		 FROM daily_stats WHERE stat_date >= ? ORDER BY stat_date ASC`, start,
	)
	if err != nil {
		log.Printf("store: weekly stats: %v", err)
		return nil
	}
	defer rows.Close()

	var stats []DailyStat
	for rows.Next() {
		var st DailyStat
		if err := rows.Scan(&st.ID, &st.Date, &st.ScreenMinutes, &st.BreaksDone,
			&st.BreaksMissed, &st.PostureAlerts); err != nil {
			log.Printf("store: weekly stats: %v", err)
			return nil
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		log.Printf("store: weekly stats: %v", err)
	}
	return stats
}

// BreakStreak counts consecutive calendar days ending today that each
// have at least one completed break. A missing day breaks the streak.
// Scans at most the 30 most recent rows.
func (s *Store) BreakStreak() int {
	rows, err := s.db.Query(
		`SELECT stat_date, breaks_done FROM daily_stats
		 ORDER BY stat_date DESC LIMIT 30`,
	)
	if err != nil {
		log.Printf("store: break streak: %v", err)
		return 0
	}
	defer rows.Close()

	streak := 0
	today := s.now()
	for rows.Next() {
		var dateStr string
		var done int
		if err := rows.Scan(&dateStr, &done); err != nil {
			log.Printf("store: break streak: %v", err)
			return 0
		}
		expected := today.AddDate(0, 0, -streak).Format(DateFormat)
		if dateStr != expected || done == 0 {
			break
		}
		streak++
	}
	return streak
}

// AllTimeTotalHours sums screen_minutes across every day and converts to
// hours, rounded to one decimal.
func (s *Store) AllTimeTotalHours() float64 {
	var total sql.NullInt64
	err := s.db.QueryRow(`SELECT SUM(screen_minutes) FROM daily_stats`).Scan(&total)
	if err != nil {
		log.Printf("store: all-time total: %v", err)
		return 0
	}
	return math.Round(float64(total.Int64)/60*10) / 10
}

// GetBreakEvent returns a single break_events row, or nil if absent or on
// storage error.
func (s *Store) GetBreakEvent(id int64) *BreakEvent {
	e := &BreakEvent{}
	var start string
	var end sql.NullString
	var completed int
	err := s.db.QueryRow(
		`SELECT id, start_time, end_time, completed, break_type
		 FROM break_events WHERE id = ?`, id,
	).Scan(&e.ID, &start, &end, &completed, &e.BreakType)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("store: get break event %d: %v", id, err)
		}
		return nil
	}
	e.StartTime, _ = time.Parse(time.RFC3339, start)
	if end.Valid {
		t, _ := time.Parse(time.RFC3339, end.String)
		e.EndTime = &t
	}
	e.Completed = completed != 0
	return e
}

// RecentBreaks returns the most recent break events, newest first.
func (s *Store) RecentBreaks(limit int) []BreakEvent {
	rows, err := s.db.Query(
		`SELECT id, start_time, end_time, completed, break_type
		 FROM break_events ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		log.Printf("store: recent breaks: %v", err)
		return nil
	}
	defer rows.Close()

	var events []BreakEvent
	for rows.Next() {
		var e BreakEvent
		var start string
		var end sql.NullString
		var completed int
		if err := rows.Scan(&e.ID, &start, &end, &completed, &e.BreakType); err != nil {
			log.Printf("store: recent breaks: %v", err)
			return nil
		}
		e.StartTime, _ = time.Parse(time.RFC3339, start)
		if end.Valid {
			t, _ := time.Parse(time.RFC3339, end.String)
			e.EndTime = &t
		}
		e.Completed = completed != 0
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		log.Printf("store: recent breaks: %v", err)
	}
	return events
}

// AllDailyStats returns every daily_stats row, ascending by date.
func (s *Store) AllDailyStats() []DailyStat {
	rows, err := s.db.Query(
		`SELECT id, stat_date, screen_minutes, breaks_done, breaks_missed, posture_alerts
		 FROM daily_stats ORDER BY stat_date ASC`,
	)
	if err != nil {
		log.Printf("store: all daily stats: %v", err)
		return nil
	}
	defer rows.Close()

	var stats []DailyStat
	for rows.Next() {
		var st DailyStat
		if err := rows.Scan(&st.ID, &st.Date, &st.ScreenMinutes, &st.BreaksDone,
			&st.BreaksMissed, &st.PostureAlerts); err != nil {
			log.Printf("store: all daily stats: %v", err)
			return nil
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		log.Printf("store: all daily stats: %v", err)
	}
	return stats
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
