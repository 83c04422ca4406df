package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// Store is the SQLite-backed analytics store. Its recording and query
// methods never return storage errors to callers: failures are logged and
// a safe zero value comes back instead, so a broken database degrades
// stats without stalling the break/posture cycle.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS daily_stats (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		stat_date       TEXT NOT NULL UNIQUE,
		screen_minutes  INTEGER NOT NULL DEFAULT 0,
		breaks_done     INTEGER NOT NULL DEFAULT 0,
		breaks_missed   INTEGER NOT NULL DEFAULT 0,
		posture_alerts  INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS break_events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		start_time  TEXT NOT NULL,
		end_time    TEXT,
		completed   INTEGER NOT NULL DEFAULT 0,
		break_type  TEXT NOT NULL DEFAULT '20-20-20'
	);

	CREATE INDEX IF NOT EXISTS idx_breaks_start ON break_events(start_time);

	CREATE TABLE IF NOT EXISTS posture_events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		event_time  TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/nseye/nseye.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "nseye", "nseye.db"), nil
}
