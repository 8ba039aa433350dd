package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists fetch history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

var _ Recorder = (*SQLiteRecorder)(nil)
var _ Recorder = (*NoopRecorder)(nil)

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so API reads don't block refresh writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fetch_events (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			source      TEXT,
			start_date  TEXT,
			end_date    TEXT,
			error_kind  TEXT,
			message     TEXT,
			points      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_ts ON fetch_events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_symbol ON fetch_events(symbol)`,

		`CREATE TABLE IF NOT EXISTS summary_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			fetch_id       TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			earliest_date  TEXT,
			latest_date    TEXT,
			earliest_close REAL,
			latest_close   REAL,
			change         REAL,
			change_percent REAL,
			latest_volume  INTEGER,
			high           REAL,
			low            REAL,
			points         INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_summary_symbol_ts ON summary_snapshots(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordFetch(evt *FetchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := evt.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO fetch_events
		(id, timestamp, symbol, source, start_date, end_date, error_kind, message, points)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		evt.ID, at.UnixMilli(), evt.Symbol, evt.Source, evt.Start, evt.End,
		evt.ErrorKind, evt.Message, evt.Points,
	)
	return err
}

func (r *SQLiteRecorder) RecordSummary(snap *SummarySnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := snap.Row
	_, err := r.db.Exec(`INSERT INTO summary_snapshots
		(fetch_id, timestamp, symbol, earliest_date, latest_date,
		 earliest_close, latest_close, change, change_percent, latest_volume,
		 high, low, points)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.FetchID, time.Now().UnixMilli(), row.Symbol, row.EarliestDate, row.LatestDate,
		row.EarliestClose, row.LatestClose, row.Change, row.ChangePercent, row.LatestVolume,
		row.High, row.Low, row.Points,
	)
	return err
}

// RecentFetches returns up to limit fetch events, newest first.
func (r *SQLiteRecorder) RecentFetches(limit int) ([]FetchEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`SELECT id, timestamp, symbol, source, start_date, end_date,
		error_kind, message, points
		FROM fetch_events ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query fetch events: %w", err)
	}
	defer rows.Close()

	var out []FetchEvent
	for rows.Next() {
		var evt FetchEvent
		var ts int64
		if err := rows.Scan(&evt.ID, &ts, &evt.Symbol, &evt.Source, &evt.Start, &evt.End,
			&evt.ErrorKind, &evt.Message, &evt.Points); err != nil {
			return nil, fmt.Errorf("scan fetch event: %w", err)
		}
		evt.At = time.UnixMilli(ts)
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
