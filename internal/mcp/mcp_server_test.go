package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/regsweep/internal/contract"
	"github.com/huangsam/regsweep/internal/history"
	mcp_internal "github.com/huangsam/regsweep/internal/mcp"
	"github.com/huangsam/regsweep/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, cfg *contract.Config, mgr contract.StoreManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

// seededStore returns a SQLite history store holding one completed sweep
// with a failure at the root and one in x86.
func seededStore(t *testing.T) contract.HistoryStore {
	t.Helper()
	store, err := history.NewHistoryStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	start := time.Now().Add(-time.Minute)
	for i, target := range []string{"pentium", "sparc"} {
		id, err := store.BeginSweep("uuid-"+target, start.Add(time.Duration(i)*time.Second), "/opt/tool", target, nil)
		require.NoError(t, err)
		records := []schema.InvocationRecord{
			{FixturePath: "tests/inputs/a.bin", Success: false, FailureKind: "exit", ExitCode: 3},
			{FixturePath: "tests/inputs/x86/b.exe", Category: "x86", Success: true},
			{FixturePath: "tests/inputs/x86/c.exe", Category: "x86", Success: false, FailureKind: "timeout", ExitCode: -1},
		}
		for _, r := range records {
			require.NoError(t, store.RecordInvocation(id, r))
		}
		require.NoError(t, store.EndSweep(id, start.Add(time.Minute), 3, 2, schema.CompletedSweep))
	}
	return store
}

func managerFor(store contract.HistoryStore) *history.MockStoreManager {
	mgr := &history.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(store)
	return mgr
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	testsDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(testsDir, schema.InputsDir), 0o755))
	baseCfg := &contract.Config{TestsDir: testsDir, Workers: 1, Timeout: time.Second}

	// We shouldn't hit the manager because we test validation errors
	var mgr contract.StoreManager

	tests := []struct {
		name     string
		args     map[string]any
		contains string
	}{
		{
			name:     "missing tool_path",
			args:     map[string]any{"args": []any{"pentium"}},
			contains: "path to the executable under test is required",
		},
		{
			name:     "missing target",
			args:     map[string]any{"tool_path": "/opt/tool"},
			contains: "platform/target identifier is required",
		},
		{
			name:     "bad timeout",
			args:     map[string]any{"tool_path": "/opt/tool", "args": []any{"pentium"}, "timeout": "soon"},
			contains: "bad timeout",
		},
		{
			name:     "too many workers",
			args:     map[string]any{"tool_path": "/opt/tool", "args": []any{"pentium"}, "workers": float64(contract.MaxWorkers + 1)},
			contains: "workers must be between",
		},
		{
			name:     "missing inputs",
			args:     map[string]any{"tool_path": "/opt/tool", "args": []any{"pentium"}, "tests_dir": t.TempDir()},
			contains: "inputs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, baseCfg, mgr, "run_sweep", tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(t, res), tt.contains)
		})
	}
}

func TestMCPServerHandlers_HistoryDisabled(t *testing.T) {
	mgr := managerFor(nil)
	for _, name := range []string{"list_sweeps", "get_sweep_failures", "get_history_status"} {
		t.Run(name, func(t *testing.T) {
			res := callTool(t, &contract.Config{}, mgr, name, nil)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), "sweep history is disabled")
		})
	}

	res := callTool(t, &contract.Config{}, nil, "list_sweeps", nil)
	assert.True(t, res.IsError)

	res = callTool(t, &contract.Config{HistoryBackend: schema.NoneBackend}, managerFor(seededStore(t)), "list_sweeps", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "sweep history is disabled")
}

func TestMCPServerHandlers_ListSweeps(t *testing.T) {
	mgr := managerFor(seededStore(t))

	res := callTool(t, &contract.Config{}, mgr, "list_sweeps", nil)
	require.False(t, res.IsError, resultText(t, res))

	var runs []schema.SweepRunRecord
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, "sparc", runs[0].Target, "most recent sweep comes first")
	assert.Equal(t, "pentium", runs[1].Target)

	res = callTool(t, &contract.Config{}, mgr, "list_sweeps", map[string]any{"limit": 1.0})
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "sparc", runs[0].Target)
}

func TestMCPServerHandlers_GetSweepFailures(t *testing.T) {
	store := seededStore(t)
	mgr := managerFor(store)

	type payload struct {
		Sweep    schema.SweepRunRecord                `json:"sweep"`
		Failures map[string][]schema.InvocationRecord `json:"failures"`
	}

	t.Run("latest sweep by default", func(t *testing.T) {
		res := callTool(t, &contract.Config{}, mgr, "get_sweep_failures", nil)
		require.False(t, res.IsError, resultText(t, res))

		var got payload
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
		assert.Equal(t, "sparc", got.Sweep.Target)
		require.Len(t, got.Failures[schema.RootCategoryLabel], 1)
		require.Len(t, got.Failures["x86"], 1)
		assert.Equal(t, "tests/inputs/x86/c.exe", got.Failures["x86"][0].FixturePath)
		assert.Equal(t, "timeout", got.Failures["x86"][0].FailureKind)
	})

	t.Run("explicit sweep", func(t *testing.T) {
		runs, err := store.GetAllSweepRuns()
		require.NoError(t, err)

		res := callTool(t, &contract.Config{}, mgr, "get_sweep_failures", map[string]any{"sweep_id": float64(runs[0].SweepID)})
		require.False(t, res.IsError, resultText(t, res))

		var got payload
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
		assert.Equal(t, "pentium", got.Sweep.Target)
	})

	t.Run("unknown sweep", func(t *testing.T) {
		res := callTool(t, &contract.Config{}, mgr, "get_sweep_failures", map[string]any{"sweep_id": 999.0})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "sweep 999 not found")
	})
}

func TestMCPServerHandlers_GetSweepFailuresEmptyHistory(t *testing.T) {
	store := &history.MockHistoryStore{}
	store.On("GetAllSweepRuns").Return([]schema.SweepRunRecord{}, nil)

	res := callTool(t, &contract.Config{}, managerFor(store), "get_sweep_failures", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "no sweeps have been recorded")
	store.AssertExpectations(t)
}

func TestMCPServerHandlers_GetHistoryStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		res := callTool(t, &contract.Config{}, managerFor(seededStore(t)), "get_history_status", nil)
		require.False(t, res.IsError, resultText(t, res))

		var status schema.HistoryStatus
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &status))
		assert.Equal(t, "sqlite", status.Backend)
		assert.Equal(t, 2, status.TotalSweeps)
		assert.Equal(t, 6, status.TotalInvocations)
	})

	t.Run("store error", func(t *testing.T) {
		store := &history.MockHistoryStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("connection refused"))

		res := callTool(t, &contract.Config{}, managerFor(store), "get_history_status", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "connection refused")
	})
}
