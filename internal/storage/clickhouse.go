package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"flightplan_parser/internal/plan"
)

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseDB wraps a ClickHouse connection holding the trajectory
// archive: every step sample of every archived flight, one row per
// sample, for after-the-fact analytics across seasons.
type ClickHouseDB struct {
	conn driver.Conn
}

// Conn returns the underlying ClickHouse connection for direct queries.
func (d *ClickHouseDB) Conn() driver.Conn {
	return d.conn
}

// OpenClickHouse opens a connection to ClickHouse.
func OpenClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Close closes the ClickHouse connection.
func (d *ClickHouseDB) Close() error {
	return d.conn.Close()
}

// CreateSchema creates the ClickHouse tables.
func (d *ClickHouseDB) CreateSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS trajectory_steps (
		hash            String,
		filename        LowCardinality(String),
		instrument      LowCardinality(String),
		leg_ordinal     UInt16,
		leg_kind        LowCardinality(String),
		utc             DateTime64(0),
		since_takeoff_s Int64,
		since_start_s   Int64,
		mag_heading     Nullable(Float64),
		true_heading    Nullable(Float64),
		latitude        Nullable(Float64),
		longitude       Nullable(Float64),
		wind_direction  Nullable(Float64),
		wind_speed      Nullable(Float64),
		oat             Nullable(Float64),
		elevation       Nullable(Float64),
		rof             Nullable(Float64),
		rof_rate        Nullable(Float64),
		loswv           Nullable(Float64),
		sun_elevation   Nullable(Float64),
		sun_ha          Nullable(Float64),
		archived_at     DateTime64(3) DEFAULT now64(3)
	)
	ENGINE = MergeTree()
	PARTITION BY toYYYYMM(utc)
	ORDER BY (hash, leg_ordinal, utc)
	SETTINGS index_granularity = 8192`

	if err := d.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create clickhouse schema: %w", err)
	}
	return nil
}

// ArchiveFlight stores every step sample of a flight as one batch.
// Missing values archive as NULL.
func (d *ClickHouseDB) ArchiveFlight(ctx context.Context, f *plan.Flight) error {
	batch, err := d.conn.PrepareBatch(ctx, `
		INSERT INTO trajectory_steps (hash, filename, instrument, leg_ordinal, leg_kind, utc, since_takeoff_s, since_start_s, mag_heading, true_heading, latitude, longitude, wind_direction, wind_speed, oat, elevation, rof, rof_rate, loswv, sun_elevation, sun_ha)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, leg := range f.Legs {
		for _, s := range leg.Steps {
			err = batch.Append(
				f.Hash, f.Filename, f.Instrument,
				uint16(leg.Ordinal), leg.Kind.String(),
				s.UTC,
				int64(s.SinceTakeoff/time.Second),
				int64(s.SinceStart/time.Second),
				null(s.MagHeading), null(s.TrueHeading),
				null(s.Latitude), null(s.Longitude),
				null(s.WindDirection), null(s.WindSpeed),
				null(s.OAT), null(s.Elevation),
				null(s.ROF), null(s.ROFRate), null(s.LOSWV),
				null(s.SunElevation), null(s.SunHA),
			)
			if err != nil {
				return fmt.Errorf("append to batch: %w", err)
			}
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// StepCount returns how many samples are archived for one flight.
func (d *ClickHouseDB) StepCount(ctx context.Context, hash string) (uint64, error) {
	var count uint64
	err := d.conn.QueryRow(ctx,
		`SELECT count() FROM trajectory_steps WHERE hash = ?`, hash).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count steps: %w", err)
	}
	return count, nil
}

// null converts an optional float to the pointer form the driver maps to
// Nullable columns.
func null(f plan.Float) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}
