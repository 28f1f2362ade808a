//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/regsweep/internal/history"
	"github.com/huangsam/regsweep/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestRegsweepWithMySQL tests the regsweep CLI with a MySQL history backend.
func TestRegsweepWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "regsweep",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/regsweep?parseTime=true", host, port.Port())
	exerciseBackend(t, schema.MySQLBackend, connStr)
}

// TestRegsweepWithPostgres tests the regsweep CLI with a PostgreSQL history backend.
func TestRegsweepWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseBackend(t, schema.PostgreSQLBackend, connStr)
}

// exerciseBackend migrates the schema, records a sweep through the CLI and
// reads it back both through the CLI and the store.
func exerciseBackend(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	t.Helper()
	workDir, toolPath := sweepWorkspace(t, "x86/a.exe", "x86/fail.exe", "root.bin")
	env := []string{
		"REGSWEEP_HISTORY_BACKEND=" + string(backend),
		"REGSWEEP_HISTORY_DB_CONNECT=" + connStr,
	}

	out, code := runRegsweep(t, workDir, env, "history", "clear")
	require.Equal(t, 0, code, out)

	out, code = runRegsweep(t, workDir, env, "history", "migrate")
	require.Equal(t, 0, code, out)

	out, code = runRegsweep(t, workDir, env, "run", "--workers", "2", toolPath, "pentium")
	require.Equal(t, 0, code, out)

	out, code = runRegsweep(t, workDir, env, "history", "status")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, string(backend))

	exportBase := filepath.Join(workDir, "export")
	out, code = runRegsweep(t, workDir, env, "history", "export", "--output-file", exportBase)
	require.Equal(t, 0, code, out)
	assert.FileExists(t, exportBase+".invocations.parquet")

	store, err := history.NewHistoryStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runs, err := store.GetAllSweepRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "pentium", runs[0].Target)
	assert.Equal(t, string(schema.CompletedSweep), runs[0].Status)
	assert.EqualValues(t, 3, runs[0].TotalFixtures)
	assert.EqualValues(t, 1, runs[0].TotalFailures)
	require.NotNil(t, runs[0].EndTime)

	invocations, err := store.GetInvocations(runs[0].SweepID)
	require.NoError(t, err)
	require.Len(t, invocations, 3)
	assert.Contains(t, invocations[0].FixturePath, "root.bin")
}
