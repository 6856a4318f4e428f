package clientdata

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCleanupJob(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	job := NewCleanupJob(repo, zerolog.Nop())

	assert.NotNil(t, job)
}

func TestCleanupJobName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	job := NewCleanupJob(repo, zerolog.Nop())

	assert.Equal(t, "cache_cleanup", job.Name())
}

func TestCleanupJobRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	job := NewCleanupJob(repo, zerolog.Nop())

	now := time.Now()
	expiredAt := now.Add(-time.Hour).Unix()
	freshAt := now.Add(time.Hour).Unix()

	// One expired and one fresh entry per table
	insertExpiredAndFresh(t, db, "snapshots", expiredAt, freshAt)
	insertExpiredAndFresh(t, db, "quotes", expiredAt, freshAt)

	var countBefore int
	db.QueryRow("SELECT (SELECT COUNT(*) FROM snapshots) + (SELECT COUNT(*) FROM quotes)").Scan(&countBefore)
	assert.Equal(t, 4, countBefore)

	require.NoError(t, job.Run())

	var countAfter int
	db.QueryRow("SELECT (SELECT COUNT(*) FROM snapshots) + (SELECT COUNT(*) FROM quotes)").Scan(&countAfter)
	assert.Equal(t, 2, countAfter) // Only the fresh entries remain
}

func TestCleanupJobRunEmptyTables(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	job := NewCleanupJob(repo, zerolog.Nop())

	// Run cleanup on empty tables - should not error
	require.NoError(t, job.Run())
}

func TestCleanupJobRunAllExpired(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	job := NewCleanupJob(repo, zerolog.Nop())

	expiredAt := time.Now().Add(-time.Hour).Unix()

	_, err := db.Exec("INSERT INTO snapshots (cache_key, data, expires_at) VALUES (?, ?, ?)", "AAPL|1y", []byte{0x80}, expiredAt)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO snapshots (cache_key, data, expires_at) VALUES (?, ?, ?)", "MSFT|1y", []byte{0x80}, expiredAt)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO quotes (cache_key, data, expires_at) VALUES (?, ?, ?)", "AAPL", []byte{0x80}, expiredAt)
	require.NoError(t, err)

	require.NoError(t, job.Run())

	var count int
	db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count)
	assert.Equal(t, 0, count)
	db.QueryRow("SELECT COUNT(*) FROM quotes").Scan(&count)
	assert.Equal(t, 0, count)
}

func TestCleanupJobRunAllFresh(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	job := NewCleanupJob(repo, zerolog.Nop())

	freshAt := time.Now().Add(time.Hour).Unix()

	_, err := db.Exec("INSERT INTO snapshots (cache_key, data, expires_at) VALUES (?, ?, ?)", "AAPL|1y", []byte{0x80}, freshAt)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO quotes (cache_key, data, expires_at) VALUES (?, ?, ?)", "AAPL", []byte{0x80}, freshAt)
	require.NoError(t, err)

	require.NoError(t, job.Run())

	var count int
	db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count)
	assert.Equal(t, 1, count)
	db.QueryRow("SELECT COUNT(*) FROM quotes").Scan(&count)
	assert.Equal(t, 1, count)
}

// Helper function to insert one expired and one fresh entry per table
func insertExpiredAndFresh(t *testing.T, db *sql.DB, table string, expiredAt, freshAt int64) {
	t.Helper()

	_, err := db.Exec(
		"INSERT INTO "+table+" (cache_key, data, expires_at) VALUES (?, ?, ?)",
		"EXPIRED_"+table, []byte{0x80}, expiredAt,
	)
	require.NoError(t, err)

	_, err = db.Exec(
		"INSERT INTO "+table+" (cache_key, data, expires_at) VALUES (?, ?, ?)",
		"FRESH_"+table, []byte{0x80}, freshAt,
	)
	require.NoError(t, err)
}
