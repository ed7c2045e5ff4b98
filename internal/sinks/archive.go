package sinks

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"milwatch/internal/alert"
)

// ArchiveConfig holds ClickHouse connection settings for the long-term
// alert archive.
type ArchiveConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// Archive writes every alert to an append-only ClickHouse table for
// analytics. Strictly optional: when not configured the sink is simply
// not registered.
type Archive struct {
	conn driver.Conn
}

// OpenArchive connects to ClickHouse and ensures the alerts table
// exists.
func OpenArchive(ctx context.Context, cfg ArchiveConfig) (*Archive, error) {
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
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	a := &Archive{conn: conn}
	if err := a.createSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) createSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS alerts (
		fired_at     DateTime64(3),
		icao         LowCardinality(String),
		callsign     LowCardinality(String),
		label        LowCardinality(String),
		altitude     Int32,
		ground_speed Float64,
		latitude     Float64,
		longitude    Float64,
		distance_mi  Float64,
		bearing_deg  Int32,
		cardinal     LowCardinality(String)
	)
	ENGINE = MergeTree()
	PARTITION BY toYYYYMM(fired_at)
	ORDER BY (icao, fired_at)
	SETTINGS index_granularity = 8192`

	if err := a.conn.Exec(ctx, q); err != nil {
		return fmt.Errorf("create archive schema: %w", err)
	}
	return nil
}

func (a *Archive) Name() string { return "archive" }

func (a *Archive) Deliver(al alert.Alert) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	batch, err := a.conn.PrepareBatch(ctx, "INSERT INTO alerts")
	if err != nil {
		return fmt.Errorf("prepare archive batch: %w", err)
	}
	if err := batch.Append(
		al.Timestamp, al.ICAO, al.Callsign, al.Label,
		int32(al.Altitude), al.GroundSpeed, al.Lat, al.Lon,
		al.DistanceMi, int32(al.BearingDeg), al.Cardinal,
	); err != nil {
		return fmt.Errorf("append archive row: %w", err)
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send archive batch: %w", err)
	}
	return nil
}

// Close closes the ClickHouse connection.
func (a *Archive) Close() error {
	return a.conn.Close()
}
