// Package sqlite provides a file-backed series cache.
//
// The store only holds derived data: deleting the file loses nothing that a
// rebuild from the booklet cannot restore.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spektr-org/growthkit/cache"
	"github.com/spektr-org/growthkit/engine"
)

const schema = `CREATE TABLE IF NOT EXISTS series_cache (
    child_id     TEXT    NOT NULL,
    measurement  TEXT    NOT NULL,
    version      TEXT    NOT NULL,
    payload_json BLOB    NOT NULL,
    stored_at    INTEGER NOT NULL,
    PRIMARY KEY (child_id, measurement)
)`

// Store is a cache.Store backed by SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) a cache database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cache path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get loads the payload for key. Another stored version is a miss.
func (s *Store) Get(ctx context.Context, key cache.Key) ([]byte, bool, error) {
	if s == nil || s.sqlDB == nil {
		return nil, false, fmt.Errorf("storage is not configured")
	}

	var payload []byte
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT payload_json FROM series_cache
		 WHERE child_id = ? AND measurement = ? AND version = ?`,
		key.ChildID, string(key.Type), key.Version,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get series: %w", err)
	}
	return payload, true, nil
}

// Put upserts the payload, replacing any other version for the child and type.
func (s *Store) Put(ctx context.Context, key cache.Key, payload []byte) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if len(payload) == 0 {
		return fmt.Errorf("cache payload is required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO series_cache (child_id, measurement, version, payload_json, stored_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(child_id, measurement) DO UPDATE SET
		    version = excluded.version,
		    payload_json = excluded.payload_json,
		    stored_at = excluded.stored_at`,
		key.ChildID, string(key.Type), key.Version, payload, timeToUnixMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("put series: %w", err)
	}
	return nil
}

// Delete removes the cached series of a child for mt.
func (s *Store) Delete(ctx context.Context, childID string, mt engine.MeasurementType) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM series_cache WHERE child_id = ? AND measurement = ?`,
		childID, string(mt),
	); err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	return nil
}

// StoredAt reports when the series for a child and type was last written.
func (s *Store) StoredAt(ctx context.Context, childID string, mt engine.MeasurementType) (time.Time, bool, error) {
	if s == nil || s.sqlDB == nil {
		return time.Time{}, false, fmt.Errorf("storage is not configured")
	}
	var millis int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT stored_at FROM series_cache WHERE child_id = ? AND measurement = ?`,
		childID, string(mt),
	).Scan(&millis)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get stored_at: %w", err)
	}
	return unixMillisToTime(millis), true, nil
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ cache.Store = (*Store)(nil)
