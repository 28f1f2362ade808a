package history

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/regsweep/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_NoneBackend(t *testing.T) {
	err := Migrate(&bytes.Buffer{}, schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrate_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	var out bytes.Buffer

	require.NoError(t, Migrate(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "to version 3")
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	out.Reset()
	require.NoError(t, Migrate(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "already at the latest version")

	require.NoError(t, Migrate(&out, schema.SQLiteBackend, dbPath, 1))
	require.NoError(t, Migrate(&out, schema.SQLiteBackend, dbPath, 0))

	out.Reset()
	require.NoError(t, Migrate(&out, schema.SQLiteBackend, dbPath, 0))
	assert.Contains(t, out.String(), "already at version 0")

	require.NoError(t, Migrate(&out, schema.SQLiteBackend, dbPath, 2))
}

func TestMigrate_AfterStoreCreatedTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	id, err := store.BeginSweep("keep", time.Now(), "/bin/tool", "pentium", nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, Migrate(&bytes.Buffer{}, schema.SQLiteBackend, dbPath, -1))

	store, err = NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	runs, err := store.GetAllSweepRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].SweepID)
}

func TestMigrate_SQLiteInMemory(t *testing.T) {
	require.NoError(t, Migrate(&bytes.Buffer{}, schema.SQLiteBackend, ":memory:", -1))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	for _, dir := range []string{"sqlite", "mysql", "postgres"} {
		entries, err := migrationsFS.ReadDir("migrations/" + dir)
		require.NoError(t, err)
		assert.Len(t, entries, 6, dir)
	}
}
