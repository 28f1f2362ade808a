//go:build unix

package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/regsweep/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteSweepQuiet(t *testing.T) {
	testsDir := t.TempDir()
	writeFixtures(t, testsDir, map[string]int{
		"x86/a.exe":    512,
		"x86/fail.exe": 16,
		"root.bin":     64,
	})
	cfg := testConfig(testsDir, writeTool(t, t.TempDir(), fakeTool))
	cfg.Workers = 2

	summary, err := ExecuteSweepQuiet(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, schema.CompletedSweep, summary.Status)
	assert.Equal(t, 3, summary.TotalFixtures)
	assert.Equal(t, 1, summary.TotalFailures)
	assert.Len(t, summary.Throughput, 2)

	outputs := filepath.Join(testsDir, schema.OutputsDir)
	assert.FileExists(t, filepath.Join(outputs, "x86", "a.exe", "a.exe.log"))
	assert.FileExists(t, filepath.Join(outputs, "root.bin", "root.bin.log"))

	stderr, err := os.ReadFile(filepath.Join(outputs, "x86", "fail.exe", "fail.exe"+schema.StderrSuffix))
	require.NoError(t, err)
	assert.Contains(t, string(stderr), "bad")
}
