// Package store keeps a history of finished suites in PostgreSQL or SQLite.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/moguls753/termbench/internal/benchmark"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store writes suites and their results, one transaction per suite.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and applies migrations.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("%s store: empty dsn", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if driver == DriverSQLite {
		// one writer at a time; avoids SQLITE_BUSY between concurrent targets
		db.SetMaxOpenConns(1)
	}

	s := New(db, driver)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// New wraps an open database without migrating it.
func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS suites (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		label TEXT NOT NULL,
		terminal TEXT NOT NULL,
		host TEXT NOT NULL,
		os_info TEXT NOT NULL,
		cpu_info TEXT NOT NULL,
		memory_gb DOUBLE PRECISION NOT NULL,
		captured_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		suite_id TEXT NOT NULL REFERENCES suites(id),
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		runs INTEGER NOT NULL,
		started_at TIMESTAMP NOT NULL,
		metrics TEXT NOT NULL,
		raw_data TEXT NOT NULL,
		metadata TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS results_name_idx ON results (name)`,
}

// Migrate creates the tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	for _, query := range migrations {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// SaveSuite stores a suite and all of its results atomically and returns the suite id.
func (s *Store) SaveSuite(ctx context.Context, runID uuid.UUID, label string, suite *benchmark.Suite) (id string, err error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	suiteID := ulid.MustNew(ulid.Timestamp(suite.Timestamp), entropy).String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	_, err = tx.ExecContext(ctx, s.rebind(`INSERT INTO suites
		(id, run_id, label, terminal, host, os_info, cpu_info, memory_gb, captured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		suiteID, runID.String(), label, suite.Terminal, suite.Host, suite.OSInfo, suite.CPUInfo,
		suite.MemoryGB, suite.Timestamp.UTC())
	if err != nil {
		return "", fmt.Errorf("insert suite: %w", err)
	}

	for i, r := range suite.Results {
		metrics, raw, metadata, err := encodeResult(r)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", r.Name, err)
		}
		resultID := ulid.MustNew(ulid.Timestamp(r.Timestamp), entropy).String()
		_, err = tx.ExecContext(ctx, s.rebind(`INSERT INTO results
			(id, suite_id, position, name, category, runs, started_at, metrics, raw_data, metadata)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			resultID, suiteID, i, r.Name, r.Category, r.Runs, r.Timestamp.UTC(), metrics, raw, metadata)
		if err != nil {
			return "", fmt.Errorf("insert result %s: %w", r.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return suiteID, nil
}

func encodeResult(r benchmark.Result) (metrics, raw, metadata string, err error) {
	m, err := json.Marshal(r.Metrics)
	if err != nil {
		return "", "", "", err
	}
	rd, err := json.Marshal(r.RawData)
	if err != nil {
		return "", "", "", err
	}
	md, err := json.Marshal(r.Metadata)
	if err != nil {
		return "", "", "", err
	}
	return string(m), string(rd), string(md), nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
