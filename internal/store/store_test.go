package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moguls753/termbench/internal/benchmark"
)

var stamp = time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC)

func testSuite() *benchmark.Suite {
	s := benchmark.NewSuite("alacritty", benchmark.Environment{
		Host: "host", OSInfo: "Linux", CPUInfo: "CPU", MemoryGB: 16, Timestamp: stamp,
	})
	for _, name := range []string{"braille", "powerline"} {
		s.Results = append(s.Results, benchmark.Result{
			Name: name, Category: "special", Terminal: "alacritty", Timestamp: stamp, Runs: 2,
			Metrics:  benchmark.NewMetricSetBuilder().AddInt("chars", 256).AddFloat("time_ms_mean", 1.5).Build(),
			RawData:  []float64{1, 2},
			Metadata: map[string]string{},
		})
	}
	return s
}

func TestSaveSuiteMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO suites").
		WithArgs(sqlmock.AnyArg(), runID.String(), "comprehensive", "alacritty", "host", "Linux", "CPU", 16.0, stamp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO results").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 0, "braille", "special", 2, stamp,
			`{"chars":256,"time_ms_mean":1.5}`, `[1,2]`, `{}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO results").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 1, "powerline", "special", 2, stamp,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := New(db, DriverSQLite).SaveSuite(context.Background(), runID, "comprehensive", testSuite())
	require.NoError(t, err)
	assert.Len(t, id, 26)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSuiteRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO suites").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO results").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = New(db, DriverSQLite).SaveSuite(context.Background(), uuid.New(), "comprehensive", testSuite())
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSuitePostgresPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO suites .*VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO results .*\$10\)`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO results .*\$10\)`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err = New(db, DriverPostgres).SaveSuite(context.Background(), uuid.New(), "comprehensive", testSuite())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "VALUES ($1, $2)", pg.rebind("VALUES (?, ?)"))
	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "VALUES (?, ?)", lite.rebind("VALUES (?, ?)"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x")
	assert.Error(t, err)
	_, err = Open(context.Background(), DriverSQLite, "")
	assert.Error(t, err)
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(ctx, DriverSQLite, dsn)
	require.NoError(t, err)
	defer s.Close()

	id, err := s.SaveSuite(ctx, uuid.New(), "comprehensive", testSuite())
	require.NoError(t, err)

	var terminal string
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT terminal FROM suites WHERE id = ?`, id).Scan(&terminal))
	assert.Equal(t, "alacritty", terminal)

	var count int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results WHERE suite_id = ?`, id).Scan(&count))
	assert.Equal(t, 2, count)

	var metrics string
	require.NoError(t, s.db.QueryRowContext(ctx,
		`SELECT metrics FROM results WHERE suite_id = ? AND position = 1`, id).Scan(&metrics))
	assert.JSONEq(t, `{"chars":256,"time_ms_mean":1.5}`, metrics)

	// migrations are idempotent
	require.NoError(t, s.Migrate(ctx))
}
