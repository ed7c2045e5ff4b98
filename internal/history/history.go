// Package history persists fired alerts to SQLite so the live view
// survives restarts. This is alert history only; aircraft state is
// deliberately not persisted.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"milwatch/internal/alert"
)

// DB wraps the SQLite alert-history database.
type DB struct {
	db *sql.DB
}

// Open opens or creates the history database at path. An empty path or
// ":memory:" uses an in-memory database.
func Open(path string) (*DB, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &DB{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS alerts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	fired_at TEXT NOT NULL,
	icao TEXT NOT NULL,
	callsign TEXT NOT NULL,
	label TEXT NOT NULL,
	altitude INTEGER NOT NULL,
	ground_speed REAL NOT NULL,
	latitude REAL NOT NULL,
	longitude REAL NOT NULL,
	distance_mi REAL NOT NULL,
	bearing_deg INTEGER NOT NULL,
	cardinal TEXT NOT NULL,
	map_link TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_alerts_fired_at ON alerts(fired_at);
CREATE INDEX IF NOT EXISTS idx_alerts_icao ON alerts(icao);
`

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Append stores one fired alert.
func (d *DB) Append(a alert.Alert) error {
	_, err := d.db.Exec(`
		INSERT INTO alerts (fired_at, icao, callsign, label, altitude, ground_speed,
		                    latitude, longitude, distance_mi, bearing_deg, cardinal, map_link)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.Timestamp.UTC().Format(time.RFC3339), a.ICAO, a.Callsign, a.Label,
		a.Altitude, a.GroundSpeed, a.Lat, a.Lon,
		a.DistanceMi, a.BearingDeg, a.Cardinal, a.MapLink,
	)
	if err != nil {
		return fmt.Errorf("append alert: %w", err)
	}
	return nil
}

// Recent returns the most recent alerts, newest first.
func (d *DB) Recent(limit int) ([]alert.Alert, error) {
	rows, err := d.db.Query(`
		SELECT fired_at, icao, callsign, label, altitude, ground_speed,
		       latitude, longitude, distance_mi, bearing_deg, cardinal, map_link
		FROM alerts
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []alert.Alert
	for rows.Next() {
		var a alert.Alert
		var firedAt string
		if err := rows.Scan(&firedAt, &a.ICAO, &a.Callsign, &a.Label,
			&a.Altitude, &a.GroundSpeed, &a.Lat, &a.Lon,
			&a.DistanceMi, &a.BearingDeg, &a.Cardinal, &a.MapLink); err != nil {
			continue
		}
		if t, err := time.Parse(time.RFC3339, firedAt); err == nil {
			a.Timestamp = t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Count returns the total number of stored alerts.
func (d *DB) Count() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM alerts").Scan(&n)
	return n, err
}
