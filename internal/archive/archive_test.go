package archive_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/shellymon/internal/archive"
	"codeberg.org/mutker/shellymon/internal/errors"
	"codeberg.org/mutker/shellymon/internal/logger"
	"codeberg.org/mutker/shellymon/internal/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newConfig(t *testing.T) archive.Config {
	cfg := archive.DefaultConfig()
	cfg.Enabled = true
	cfg.DBPath = filepath.Join(t.TempDir(), "data", "archive.db")
	cfg.BatchSize = 2
	return cfg
}

func countRows(t *testing.T, path, query string) int {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(query).Scan(&n))
	return n
}

func TestDisabledIsNoop(t *testing.T) {
	a, err := archive.NewService(archive.DefaultConfig(), logger.Default())
	require.NoError(t, err)

	assert.False(t, a.Enabled())
	assert.NoError(t, a.BeginSession(context.Background(), archive.SessionInfo{}))
	assert.NoError(t, a.Record(context.Background(), archive.Entry{}))
	assert.NoError(t, a.Close())
}

func TestInvalidConfig(t *testing.T) {
	cfg := archive.DefaultConfig()
	cfg.Enabled = true
	cfg.DBPath = ""

	_, err := archive.NewService(cfg, logger.Default())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, archive.ErrInvalidDBPath))
}

func TestRecordAndClose(t *testing.T) {
	cfg := newConfig(t)
	ctx := context.Background()

	a, err := archive.NewService(cfg, logger.Default())
	require.NoError(t, err)
	assert.True(t, a.Enabled())

	err = a.Record(ctx, archive.Entry{Index: 0, Timestamp: epoch, Power: 1})
	assert.True(t, errors.HasCode(err, archive.ErrNoSession))

	require.NoError(t, a.BeginSession(ctx, archive.SessionInfo{
		Device: "10.0.0.2",
		Start:  epoch,
		Period: time.Second,
	}))

	obs := archive.Observer(a, logger.Default())
	for i := 0; i < 5; i++ {
		obs.Observe(i, sampler.Reading{Timestamp: epoch.Add(time.Duration(i) * time.Second), Power: float64(i) * 1.5})
	}

	// Two full batches are flushed, the fifth reading waits for Close.
	assert.Equal(t, 4, countRows(t, cfg.DBPath, "SELECT COUNT(*) FROM readings"))

	require.NoError(t, a.Close())

	assert.Equal(t, 5, countRows(t, cfg.DBPath, "SELECT COUNT(*) FROM readings"))
	assert.Equal(t, 1, countRows(t, cfg.DBPath, "SELECT COUNT(*) FROM sessions WHERE device = '10.0.0.2' AND period_ms = 1000"))
	assert.Equal(t, 6, countRows(t, cfg.DBPath, "SELECT CAST(power AS INTEGER) FROM readings WHERE idx = 4"))
}

func TestSchemaVersion(t *testing.T) {
	cfg := newConfig(t)

	a, err := archive.NewService(cfg, logger.Default())
	require.NoError(t, err)
	require.NoError(t, a.Close())

	db, err := sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	defer db.Close()

	version, err := archive.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, archive.SchemaVersion, version)
}

func TestMigrationBacksUpOldSchema(t *testing.T) {
	cfg := newConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755))

	db, err := sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE schema_versions (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL);
		INSERT INTO schema_versions VALUES (99, datetime('now'));
		CREATE TABLE readings (legacy TEXT);`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	a, err := archive.NewService(cfg, logger.Default())
	require.NoError(t, err)
	require.NoError(t, a.Close())

	backups, err := filepath.Glob(filepath.Join(filepath.Dir(cfg.DBPath), "backups", "archive_v99_*.db"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	assert.Equal(t, 0, countRows(t, cfg.DBPath, "SELECT COUNT(*) FROM readings"))
}
