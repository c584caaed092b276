package surveydb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// migrationsDir points at the repository's migrations from this package.
var migrationsDir = filepath.Join("..", "..", "migrations")

func TestMigrateLifecycle(t *testing.T) {
	db := openTestDB(t)

	version, dirty, err := db.MigrateVersion(migrationsDir)
	require.NoError(t, err)
	require.Zero(t, version)
	require.False(t, dirty)

	require.NoError(t, db.MigrateUp(migrationsDir))

	version, dirty, err = db.MigrateVersion(migrationsDir)
	require.NoError(t, err)
	require.Equal(t, uint(1), version)
	require.False(t, dirty)

	// The migrated schema accepts estimates.
	require.NoError(t, db.RecordEstimate(NewRunID(), sampleParams("cuh"), sampleResult("cuh", 4.5)))
	rows, err := db.Estimates("cuh", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, db.MigrateDown(migrationsDir))

	version, _, err = db.MigrateVersion(migrationsDir)
	require.NoError(t, err)
	require.Zero(t, version)

	// The down migration drops the estimates table.
	_, err = db.Estimates("cuh", 1)
	require.Error(t, err)
}

func TestMigrateUpIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.MigrateUp(migrationsDir))
	require.NoError(t, db.MigrateUp(migrationsDir))

	version, dirty, err := db.MigrateVersion(migrationsDir)
	require.NoError(t, err)
	require.Equal(t, uint(1), version)
	require.False(t, dirty)
}

func TestMigrateUpMissingDirectory(t *testing.T) {
	db := openTestDB(t)
	require.Error(t, db.MigrateUp(filepath.Join(t.TempDir(), "nope")))
}
