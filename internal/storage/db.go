package storage

import (
	"context"
	"fmt"
)

// Config holds connection settings for the two server-side stores.
type Config struct {
	ClickHouse ClickHouseConfig
	Postgres   PostgresConfig
}

// DefaultConfig returns a configuration with default local development settings.
func DefaultConfig() Config {
	return Config{
		ClickHouse: ClickHouseConfig{
			Host:     "localhost",
			Port:     9000,
			Database: "flightplan",
			User:     "default",
			Password: "",
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "flightplan_state",
			User:     "flightplan",
			Password: "flightplan",
		},
	}
}

// Archive wraps both server-side stores: ClickHouse for trajectory
// analytics and PostgreSQL for mutable series-review state.
type Archive struct {
	CH *ClickHouseDB
	PG *PostgresDB
}

// OpenArchive opens connections to both stores.
func OpenArchive(ctx context.Context, cfg Config) (*Archive, error) {
	ch, err := OpenClickHouse(ctx, cfg.ClickHouse)
	if err != nil {
		return nil, fmt.Errorf("clickhouse: %w", err)
	}

	pg, err := OpenPostgres(ctx, cfg.Postgres)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	return &Archive{CH: ch, PG: pg}, nil
}

// Close closes both connections.
func (a *Archive) Close() error {
	var first error
	if a.CH != nil {
		if err := a.CH.Close(); err != nil {
			first = fmt.Errorf("clickhouse: %w", err)
		}
	}
	if a.PG != nil {
		a.PG.Close()
	}
	return first
}

// CreateSchemas creates the schemas in both stores.
func (a *Archive) CreateSchemas(ctx context.Context) error {
	if err := a.CH.CreateSchema(ctx); err != nil {
		return err
	}
	return a.PG.CreateSchema(ctx)
}
