//go:build unix

package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/regsweep/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, toolPath, fixtureName string, size int) schema.InvocationRequest {
	t.Helper()
	root := t.TempDir()
	fixturePath := filepath.Join(root, "inputs", "x86", fixtureName)
	require.NoError(t, os.MkdirAll(filepath.Dir(fixturePath), 0o755))
	require.NoError(t, os.WriteFile(fixturePath, make([]byte, size), 0o644))

	fixture := schema.Fixture{
		Path:      fixturePath,
		RelDir:    "x86",
		Name:      fixtureName,
		SizeBytes: int64(size),
		Category:  "x86",
	}
	dir, prefix := fixtureOutputPaths(filepath.Join(root, "outputs"), fixture)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	return schema.InvocationRequest{
		ToolPath:     toolPath,
		Fixture:      fixture,
		OutputPrefix: prefix,
		WorkDir:      root,
		ExtraArgs:    []string{"pentium", "--fast"},
		Timeout:      5 * time.Second,
	}
}

func TestBuildArgs(t *testing.T) {
	req := schema.InvocationRequest{
		ToolPath:     "/bin/tool",
		Fixture:      schema.Fixture{Path: "tests/inputs/x86/a.exe"},
		OutputPrefix: "tests/outputs/x86/a.exe/a.exe",
		WorkDir:      "/work",
		ExtraArgs:    []string{"pentium", "-v"},
	}
	assert.Equal(t,
		[]string{"-P", "/work", "-o", "tests/outputs/x86/a.exe", "pentium", "-v", "tests/inputs/x86/a.exe"},
		BuildArgs(req))

	req.ExtraArgs = nil
	assert.Equal(t,
		[]string{"-P", "/work", "-o", "tests/outputs/x86/a.exe", "tests/inputs/x86/a.exe"},
		BuildArgs(req))
}

func TestFixtureOutputPaths(t *testing.T) {
	dir, prefix := fixtureOutputPaths("tests/outputs", schema.Fixture{RelDir: "x86/win", Name: "a.exe"})
	assert.Equal(t, filepath.Join("tests/outputs", "x86", "win", "a.exe"), dir)
	assert.Equal(t, filepath.Join(dir, "a.exe"), prefix)

	dir, _ = fixtureOutputPaths("tests/outputs", schema.Fixture{Name: "lone.bin"})
	assert.Equal(t, filepath.Join("tests/outputs", "lone.bin"), dir)
}

func TestComputeThroughput(t *testing.T) {
	v := computeThroughput(2000, 500*time.Millisecond)
	require.NotNil(t, v)
	assert.InDelta(t, 4000.0, *v, 1e-9)

	assert.Nil(t, computeThroughput(2000, 0))
	assert.Nil(t, computeThroughput(2000, -time.Second))
}

func TestLocalInvokerSuccess(t *testing.T) {
	tool := writeTool(t, t.TempDir(), fakeTool)
	req := newRequest(t, tool, "a.exe", 2048)

	result := NewLocalInvoker().Invoke(context.Background(), req)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.ExitCode)
	assert.Empty(t, result.FailureKind)
	assert.Equal(t, "x86", result.Category)
	assert.Equal(t, req.Fixture.Path, result.FixturePath)
	assert.Equal(t, strings.Join(BuildArgs(req), " "), result.CommandLine)
	assert.Equal(t, tool, result.Argv[0])
	require.NotNil(t, result.Throughput)
	assert.Greater(t, *result.Throughput, 0.0)

	stdout, err := os.ReadFile(req.OutputPrefix + schema.StdoutSuffix)
	require.NoError(t, err)
	assert.Equal(t, "ok "+req.Fixture.Path+"\n", string(stdout))
	assert.FileExists(t, req.OutputPrefix+schema.StderrSuffix)
	assert.FileExists(t, filepath.Join(filepath.Dir(req.OutputPrefix), schema.DefaultLogName))
}

func TestLocalInvokerExitFailure(t *testing.T) {
	tool := writeTool(t, t.TempDir(), fakeTool)
	req := newRequest(t, tool, "fail.exe", 16)

	result := NewLocalInvoker().Invoke(context.Background(), req)

	assert.False(t, result.Success)
	assert.Equal(t, schema.ExitFailure, result.FailureKind)
	assert.Equal(t, 3, result.ExitCode)
	assert.Nil(t, result.Throughput)

	stderr, err := os.ReadFile(req.OutputPrefix + schema.StderrSuffix)
	require.NoError(t, err)
	assert.Contains(t, string(stderr), "bad ")
}

func TestLocalInvokerSpawnFailure(t *testing.T) {
	t.Run("missing executable", func(t *testing.T) {
		req := newRequest(t, filepath.Join(t.TempDir(), "does-not-exist"), "a.exe", 16)
		result := NewLocalInvoker().Invoke(context.Background(), req)

		assert.False(t, result.Success)
		assert.Equal(t, schema.SpawnFailure, result.FailureKind)
		assert.Equal(t, -1, result.ExitCode)
		assert.NotEmpty(t, result.CommandLine)
	})

	t.Run("unwritable output prefix", func(t *testing.T) {
		tool := writeTool(t, t.TempDir(), fakeTool)
		req := newRequest(t, tool, "a.exe", 16)
		req.OutputPrefix = filepath.Join(t.TempDir(), "missing", "a.exe")

		result := NewLocalInvoker().Invoke(context.Background(), req)
		assert.Equal(t, schema.SpawnFailure, result.FailureKind)
	})
}

func TestLocalInvokerTimeout(t *testing.T) {
	tool := writeTool(t, t.TempDir(), fakeTool)
	req := newRequest(t, tool, "hang.exe", 16)
	req.Timeout = 300 * time.Millisecond

	start := time.Now()
	result := NewLocalInvoker().Invoke(context.Background(), req)

	assert.False(t, result.Success)
	assert.Equal(t, schema.TimeoutFailure, result.FailureKind)
	assert.Nil(t, result.Throughput)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestLocalInvokerParentCancel(t *testing.T) {
	tool := writeTool(t, t.TempDir(), fakeTool)
	req := newRequest(t, tool, "hang.exe", 16)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	result := NewLocalInvoker().Invoke(ctx, req)
	assert.False(t, result.Success)
	assert.Equal(t, schema.TimeoutFailure, result.FailureKind)
}

func TestDescribeFailure(t *testing.T) {
	assert.Equal(t, "ok", describeFailure(schema.InvocationResult{Success: true}))
	assert.Equal(t, "exit status 3", describeFailure(schema.InvocationResult{FailureKind: schema.ExitFailure, ExitCode: 3}))
	assert.Equal(t, "timed out", describeFailure(schema.InvocationResult{FailureKind: schema.TimeoutFailure}))
	assert.Equal(t, "could not start", describeFailure(schema.InvocationResult{FailureKind: schema.SpawnFailure}))
}
