package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"flightplan_parser/internal/series"
)

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// PostgresDB wraps a PostgreSQL connection pool holding the mutable
// series-review state: which flights belong to which review, and the
// reviewer's per-leg annotations.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the PostgreSQL connection pool.
func (d *PostgresDB) Close() {
	d.pool.Close()
}

// CreateSchema creates the PostgreSQL tables.
func (d *PostgresDB) CreateSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS series (
		id          SERIAL PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		reviewer    TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS series_flights (
		series_id   INTEGER NOT NULL REFERENCES series(id) ON DELETE CASCADE,
		hash        TEXT NOT NULL,
		filename    TEXT NOT NULL,
		takeoff     TIMESTAMPTZ NOT NULL,
		added_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (series_id, hash)
	);

	CREATE INDEX IF NOT EXISTS idx_series_flights_takeoff ON series_flights(takeoff);

	CREATE TABLE IF NOT EXISTS leg_annotations (
		id          SERIAL PRIMARY KEY,
		hash        TEXT NOT NULL,
		leg_ordinal INTEGER NOT NULL,
		author      TEXT NOT NULL,
		note        TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_annotations_flight ON leg_annotations(hash, leg_ordinal);
	`

	if _, err := d.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create postgres schema: %w", err)
	}
	return nil
}

// UpsertSeries creates or refreshes a series row and returns its id.
func (d *PostgresDB) UpsertSeries(ctx context.Context, name, reviewer string) (int64, error) {
	var id int64
	err := d.pool.QueryRow(ctx, `
		INSERT INTO series (name, reviewer)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET reviewer = EXCLUDED.reviewer, updated_at = NOW()
		RETURNING id
	`, name, reviewer).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert series %q: %w", name, err)
	}
	return id, nil
}

// AddFlight records a flight's membership in a series. Re-adding the same
// content hash is a no-op, matching the in-memory aggregator.
func (d *PostgresDB) AddFlight(ctx context.Context, seriesID int64, hash, filename string, takeoff time.Time) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO series_flights (series_id, hash, filename, takeoff)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (series_id, hash) DO NOTHING
	`, seriesID, hash, filename, takeoff.UTC())
	if err != nil {
		return fmt.Errorf("add flight %s: %w", hash, err)
	}
	return nil
}

// SaveReview persists an in-memory review's membership in one round trip.
func (d *PostgresDB) SaveReview(ctx context.Context, rev *series.Review) error {
	id, err := d.UpsertSeries(ctx, rev.Name, rev.Reviewer)
	if err != nil {
		return err
	}
	for _, f := range rev.Flights() {
		if err := d.AddFlight(ctx, id, f.Hash, f.Filename, f.Takeoff); err != nil {
			return err
		}
	}
	return nil
}

// Annotation is a reviewer note attached to one leg of one flight.
type Annotation struct {
	ID         int64
	Hash       string
	LegOrdinal int
	Author     string
	Note       string
	CreatedAt  time.Time
}

// Annotate stores a reviewer note against a leg.
func (d *PostgresDB) Annotate(ctx context.Context, hash string, legOrdinal int, author, note string) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO leg_annotations (hash, leg_ordinal, author, note)
		VALUES ($1, $2, $3, $4)
	`, hash, legOrdinal, author, note)
	if err != nil {
		return fmt.Errorf("annotate leg %d of %s: %w", legOrdinal, hash, err)
	}
	return nil
}

// Annotations returns all notes for one flight, oldest first.
func (d *PostgresDB) Annotations(ctx context.Context, hash string) ([]Annotation, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, hash, leg_ordinal, author, note, created_at
		FROM leg_annotations WHERE hash = $1 ORDER BY created_at
	`, hash)
	if err != nil {
		return nil, fmt.Errorf("query annotations: %w", err)
	}
	defer rows.Close()

	var out []Annotation
	for rows.Next() {
		var a Annotation
		if err := rows.Scan(&a.ID, &a.Hash, &a.LegOrdinal, &a.Author, &a.Note, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SeriesMembers lists one series' flights ordered by takeoff.
func (d *PostgresDB) SeriesMembers(ctx context.Context, name string) ([]string, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT sf.hash
		FROM series_flights sf
		JOIN series s ON s.id = sf.series_id
		WHERE s.name = $1
		ORDER BY sf.takeoff
	`, name)
	if err != nil {
		return nil, fmt.Errorf("query series members: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
