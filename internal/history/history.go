// Package history provides SQLite storage of triggered reload events so a
// developer can inspect what the watcher pushed and when.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ermolaev/vite-plugin-turbo-reload/internal/log"
	"github.com/ermolaev/vite-plugin-turbo-reload/internal/reload"

	// Import pure-Go SQLite driver for database/sql (no CGO required)
	_ "modernc.org/sqlite"
)

// Entry is one recorded reload push.
type Entry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`  // full-reload or custom
	Path      string    `json:"path"`  // reload target, "*" under always mode
	Event     string    `json:"event"` // custom event name, empty for full reloads
}

// DB wraps the reload history database. A disabled DB accepts calls and
// does nothing, so callers never need to branch.
type DB struct {
	db      *sql.DB
	mu      sync.RWMutex
	enabled bool
	path    string
}

// New creates a history handle. Call Init before recording.
func New(dbPath string, enabled bool) *DB {
	return &DB{path: dbPath, enabled: enabled}
}

// Init opens the database and creates the schema.
func (d *DB) Init() error {
	if !d.enabled {
		log.Debug("Reload history disabled")
		return nil
	}

	dbDir := filepath.Dir(d.path)
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	// WAL mode for concurrent reads while the watcher writes
	dsn := d.path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping history database: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS reload_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			kind TEXT NOT NULL,
			path TEXT,
			event TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_reload_events_timestamp
			ON reload_events(timestamp);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create history schema: %w", err)
	}

	d.mu.Lock()
	d.db = db
	d.mu.Unlock()

	log.Debug("Reload history initialized: %s", d.path)
	return nil
}

// RecordReload stores one pushed message. Failures are logged, not
// returned; history must never break the reload path.
func (d *DB) RecordReload(msg reload.Message) {
	d.mu.RLock()
	db := d.db
	d.mu.RUnlock()

	if db == nil {
		return
	}

	_, err := db.Exec(
		`INSERT INTO reload_events (kind, path, event) VALUES (?, ?, ?)`,
		msg.Type, msg.Path, msg.Event,
	)
	if err != nil {
		log.Error("Failed to record reload event: %v", err)
	}
}

// Recent returns the most recent limit entries, newest first.
func (d *DB) Recent(limit int) ([]Entry, error) {
	d.mu.RLock()
	db := d.db
	d.mu.RUnlock()

	if db == nil {
		return nil, fmt.Errorf("history database not initialized")
	}

	rows, err := db.Query(
		`SELECT id, timestamp, kind, path, event
		 FROM reload_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reload events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Kind, &e.Path, &e.Event); err != nil {
			return nil, fmt.Errorf("failed to scan reload event: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}
