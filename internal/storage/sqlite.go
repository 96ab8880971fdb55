// Package storage provides persistent storage for parsed flights: a local
// SQLite catalogue, a PostgreSQL series-review store, and a ClickHouse
// trajectory archive.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"flightplan_parser/internal/plan"
)

// StoredFlight is one row of the local flight catalogue.
type StoredFlight struct {
	ID          int64
	Hash        string
	Filename    string
	Instrument  string
	Origin      string
	Destination string
	Takeoff     time.Time
	Landing     time.Time
	LegCount    int
	Warnings    int
	FlightJSON  string
}

// Acquisition is one data-acquisition log entry, keyed by the raw file it
// was scanned from.
type Acquisition struct {
	ID         int64
	Filename   string
	Instrument string
	Object     string
	ObsID      string
	AORID      string
	MissionID  string
	DateObs    string
	ExpTime    float64
}

// DB wraps a SQLite database holding the flight catalogue and the
// acquisition log.
type DB struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS flights (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hash TEXT NOT NULL UNIQUE,
		filename TEXT NOT NULL,
		instrument TEXT,
		origin TEXT,
		destination TEXT,
		takeoff TEXT NOT NULL,
		landing TEXT,
		leg_count INTEGER NOT NULL,
		warning_count INTEGER NOT NULL DEFAULT 0,
		flight_json TEXT NOT NULL,
		created_at TEXT DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_flights_takeoff ON flights(takeoff);
	CREATE INDEX IF NOT EXISTS idx_flights_instrument ON flights(instrument);

	CREATE TABLE IF NOT EXISTS acquisition_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL UNIQUE,
		instrument TEXT,
		object TEXT,
		obs_id TEXT,
		aor_id TEXT,
		mission_id TEXT,
		date_obs TEXT,
		exp_time REAL,
		created_at TEXT DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_acquisition_mission ON acquisition_log(mission_id);
	CREATE INDEX IF NOT EXISTS idx_acquisition_aor ON acquisition_log(aor_id);
	`

	_, err := db.Exec(schema)
	return err
}

// InsertFlight stores a parsed flight in the catalogue. Flights are keyed
// by content hash; inserting the same bytes twice is a no-op and returns
// inserted == false.
func (d *DB) InsertFlight(f *plan.Flight) (id int64, inserted bool, err error) {
	flightJSON, err := json.Marshal(f)
	if err != nil {
		return 0, false, fmt.Errorf("marshal flight: %w", err)
	}

	result, err := d.db.Exec(`
		INSERT OR IGNORE INTO flights (hash, filename, instrument, origin, destination, takeoff, landing, leg_count, warning_count, flight_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, f.Hash, f.Filename, f.Instrument, f.Origin, f.Destination,
		f.Takeoff.UTC().Format(time.RFC3339), f.Landing.UTC().Format(time.RFC3339),
		len(f.Legs), len(f.AllWarnings()), string(flightJSON))
	if err != nil {
		return 0, false, fmt.Errorf("insert flight: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	id, err = result.LastInsertId()
	return id, true, err
}

// FlightByHash loads one catalogue row, or nil when the hash is unknown.
func (d *DB) FlightByHash(hash string) (*StoredFlight, error) {
	row := d.db.QueryRow(`
		SELECT id, hash, filename, instrument, origin, destination, takeoff, landing, leg_count, warning_count, flight_json
		FROM flights WHERE hash = ?
	`, hash)

	var sf StoredFlight
	var takeoff, landing string
	err := row.Scan(&sf.ID, &sf.Hash, &sf.Filename, &sf.Instrument, &sf.Origin,
		&sf.Destination, &takeoff, &landing, &sf.LegCount, &sf.Warnings, &sf.FlightJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query flight: %w", err)
	}
	sf.Takeoff, _ = time.Parse(time.RFC3339, takeoff)
	sf.Landing, _ = time.Parse(time.RFC3339, landing)
	return &sf, nil
}

// Flights lists the catalogue ordered by takeoff.
func (d *DB) Flights() ([]StoredFlight, error) {
	rows, err := d.db.Query(`
		SELECT id, hash, filename, instrument, origin, destination, takeoff, landing, leg_count, warning_count, flight_json
		FROM flights ORDER BY takeoff
	`)
	if err != nil {
		return nil, fmt.Errorf("query flights: %w", err)
	}
	defer rows.Close()

	var out []StoredFlight
	for rows.Next() {
		var sf StoredFlight
		var takeoff, landing string
		if err := rows.Scan(&sf.ID, &sf.Hash, &sf.Filename, &sf.Instrument, &sf.Origin,
			&sf.Destination, &takeoff, &landing, &sf.LegCount, &sf.Warnings, &sf.FlightJSON); err != nil {
			return nil, err
		}
		sf.Takeoff, _ = time.Parse(time.RFC3339, takeoff)
		sf.Landing, _ = time.Parse(time.RFC3339, landing)
		out = append(out, sf)
	}
	return out, rows.Err()
}

// InsertAcquisition appends one scanned raw file to the acquisition log.
// The log is keyed by filename; rescanning a file is a no-op and returns
// inserted == false.
func (d *DB) InsertAcquisition(a Acquisition) (inserted bool, err error) {
	result, err := d.db.Exec(`
		INSERT OR IGNORE INTO acquisition_log (filename, instrument, object, obs_id, aor_id, mission_id, date_obs, exp_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.Filename, a.Instrument, a.Object, a.ObsID, a.AORID, a.MissionID, a.DateObs, a.ExpTime)
	if err != nil {
		return false, fmt.Errorf("insert acquisition: %w", err)
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// Acquisitions lists the acquisition log for one mission, newest first.
// An empty mission ID lists everything.
func (d *DB) Acquisitions(missionID string) ([]Acquisition, error) {
	query := `
		SELECT id, filename, instrument, object, obs_id, aor_id, mission_id, date_obs, exp_time
		FROM acquisition_log`
	args := []interface{}{}
	if missionID != "" {
		query += ` WHERE mission_id = ?`
		args = append(args, missionID)
	}
	query += ` ORDER BY id DESC`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query acquisitions: %w", err)
	}
	defer rows.Close()

	var out []Acquisition
	for rows.Next() {
		var a Acquisition
		if err := rows.Scan(&a.ID, &a.Filename, &a.Instrument, &a.Object, &a.ObsID,
			&a.AORID, &a.MissionID, &a.DateObs, &a.ExpTime); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
