// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/regsweep/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the regsweep MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Regsweep Regression Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: run_sweep ---
	s.AddTool(mcp.NewTool("run_sweep",
		mcp.WithDescription("Run the executable under test against every fixture and return the sweep summary."),
		mcp.WithString("tool_path", mcp.Description("Path to the executable under test."), mcp.Required()),
		mcp.WithArray("args", mcp.Description("Forwarded arguments; the first one is the platform/target identifier."), mcp.WithStringItems(), mcp.Required()),
		mcp.WithString("tests_dir", mcp.Description("Directory holding inputs/ (defaults to the server's tests directory).")),
		mcp.WithString("timeout", mcp.Description("Per-invocation timeout (e.g., '20s', '2m').")),
		mcp.WithNumber("workers", mcp.Description("Number of concurrent invocations.")),
	), h.handleRunSweep)

	// --- 2. Tool: list_sweeps ---
	s.AddTool(mcp.NewTool("list_sweeps",
		mcp.WithDescription("List recorded sweeps from the history store, most recent first."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of sweeps returned.")),
	), h.handleListSweeps)

	// --- 3. Tool: get_sweep_failures ---
	s.AddTool(mcp.NewTool("get_sweep_failures",
		mcp.WithDescription("Return the failed invocations of a recorded sweep grouped by category."),
		mcp.WithNumber("sweep_id", mcp.Description("Sweep to inspect (defaults to the most recent sweep).")),
	), h.handleGetSweepFailures)

	// --- 4. Tool: get_history_status ---
	s.AddTool(mcp.NewTool("get_history_status",
		mcp.WithDescription("Report the backend, row counts and time range of the history store."),
	), h.handleGetHistoryStatus)

	return s
}

// StartMCPServer starts the regsweep MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
