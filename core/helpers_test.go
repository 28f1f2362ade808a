package core

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/regsweep/internal/contract"
	"github.com/huangsam/regsweep/schema"
	"github.com/stretchr/testify/require"
)

// fakeTool is a POSIX shell stand-in for the tool under test. The fixture
// name decides the behaviour: "fail" exits 3, "hang" sleeps in a child,
// "nolog" succeeds without a log, anything else writes the log and succeeds.
const fakeTool = `#!/bin/sh
outdir="$4"
for last; do :; done
case "$last" in
  *fail*) echo "bad $last" >&2; exit 3 ;;
  *hang*) sleep 30 & echo $! > "$outdir/child.pid"; wait; exit 0 ;;
  *nolog*) exit 0 ;;
esac
echo "log for $last" > "$outdir/boomerang.log"
echo "ok $last"
exit 0
`

// writeTool writes an executable script into dir and returns its path.
func writeTool(t *testing.T, dir, script string) string {
	t.Helper()
	path := filepath.Join(dir, "tool.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// writeFixtures creates fixtures of the given sizes under tests/inputs.
func writeFixtures(t *testing.T, testsDir string, fixtures map[string]int) {
	t.Helper()
	for rel, size := range fixtures {
		path := filepath.Join(testsDir, schema.InputsDir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	}
}

func testConfig(testsDir, toolPath string) *contract.Config {
	return &contract.Config{
		TestsDir:  testsDir,
		WorkDir:   testsDir,
		ToolPath:  toolPath,
		Target:    "pentium",
		ExtraArgs: []string{"pentium"},
		Timeout:   5 * time.Second,
		Workers:   1,
		LogName:   schema.DefaultLogName,
		Output:    schema.TextOut,
	}
}

// fakeInvoker runs fn instead of a process. Calls are recorded for ordering checks.
type fakeInvoker struct {
	mu    sync.Mutex
	calls []string
	fn    func(req schema.InvocationRequest) schema.InvocationResult
}

func (f *fakeInvoker) Invoke(_ context.Context, req schema.InvocationRequest) schema.InvocationResult {
	f.mu.Lock()
	f.calls = append(f.calls, req.Fixture.Path)
	f.mu.Unlock()
	return f.fn(req)
}

func (f *fakeInvoker) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// succeedWithLog writes the shared log and reports success.
func succeedWithLog(req schema.InvocationRequest) schema.InvocationResult {
	dir := filepath.Dir(req.OutputPrefix)
	_ = os.WriteFile(filepath.Join(dir, schema.DefaultLogName), []byte(req.Fixture.Name), 0o644)
	elapsed := time.Millisecond
	return schema.InvocationResult{
		Success:     true,
		CommandLine: "cmd " + req.Fixture.Path,
		FixturePath: req.Fixture.Path,
		Category:    req.Fixture.Category,
		SizeBytes:   req.Fixture.SizeBytes,
		Elapsed:     elapsed,
		Throughput:  computeThroughput(req.Fixture.SizeBytes, elapsed),
	}
}

func failWithExit(req schema.InvocationRequest) schema.InvocationResult {
	return schema.InvocationResult{
		CommandLine: "cmd " + req.Fixture.Path,
		FixturePath: req.Fixture.Path,
		Category:    req.Fixture.Category,
		ExitCode:    1,
		FailureKind: schema.ExitFailure,
	}
}

func mkdir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// removeLog deletes the shared log a fake run just wrote, simulating a tool
// that exits 0 without producing it.
func removeLog(req schema.InvocationRequest) error {
	return os.Remove(filepath.Join(filepath.Dir(req.OutputPrefix), schema.DefaultLogName))
}
