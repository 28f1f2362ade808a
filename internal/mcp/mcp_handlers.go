package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/regsweep/core"
	"github.com/huangsam/regsweep/internal/contract"
	"github.com/huangsam/regsweep/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// errHistoryDisabled is returned by the history tools when no store is configured.
var errHistoryDisabled = errors.New("sweep history is disabled; start the server with --history-backend")

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// sweepFailures is the payload of get_sweep_failures.
type sweepFailures struct {
	Sweep    schema.SweepRunRecord                `json:"sweep"`
	Failures map[string][]schema.InvocationRecord `json:"failures"`
}

func (h *toolHandler) store() (contract.HistoryStore, error) {
	if h.mgr == nil || h.baseCfg.HistoryBackend == schema.NoneBackend {
		return nil, errHistoryDisabled
	}
	store := h.mgr.GetHistoryStore()
	if store == nil {
		return nil, errHistoryDisabled
	}
	return store, nil
}

func (h *toolHandler) handleRunSweep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if d := request.GetString("tests_dir", ""); d != "" {
		cfg.TestsDir = d
	}
	if w := request.GetInt("workers", 0); w != 0 {
		if w < 0 || w > contract.MaxWorkers {
			return mcp.NewToolResultError(fmt.Sprintf("invalid sweep parameters: workers must be between 1 and %d", contract.MaxWorkers)), nil
		}
		cfg.Workers = w
	}
	if cfg.Workers <= 0 {
		cfg.Workers = contract.DefaultWorkers
	}
	if raw := request.GetString("timeout", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return mcp.NewToolResultError(fmt.Sprintf("invalid sweep parameters: bad timeout %q", raw)), nil
		}
		cfg.Timeout = d
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = contract.DefaultTimeout
	}
	if cfg.LogName == "" {
		cfg.LogName = schema.DefaultLogName
	}

	toolPath := request.GetString("tool_path", "")
	forwardArgs := request.GetStringSlice("args", nil)
	if err := contract.RevalidateSweep(cfg, toolPath, forwardArgs); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid sweep parameters: %v", err)), nil
	}

	summary, err := core.ExecuteSweepQuiet(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("sweep failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListSweeps(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.store()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	runs, err := store.GetAllSweepRuns()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sweeps: %v", err)), nil
	}
	slices.Reverse(runs)
	if l := request.GetInt("limit", 0); l > 0 && l < len(runs) {
		runs = runs[:l]
	}
	if runs == nil {
		runs = []schema.SweepRunRecord{}
	}

	jsonData, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSweepFailures(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.store()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	runs, err := store.GetAllSweepRuns()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sweeps: %v", err)), nil
	}
	if len(runs) == 0 {
		return mcp.NewToolResultError("no sweeps have been recorded"), nil
	}

	run := runs[len(runs)-1]
	if id := int64(request.GetInt("sweep_id", 0)); id > 0 {
		idx := slices.IndexFunc(runs, func(r schema.SweepRunRecord) bool { return r.SweepID == id })
		if idx < 0 {
			return mcp.NewToolResultError(fmt.Sprintf("sweep %d not found", id)), nil
		}
		run = runs[idx]
	}

	invocations, err := store.GetInvocations(run.SweepID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load invocations: %v", err)), nil
	}

	result := sweepFailures{Sweep: run, Failures: map[string][]schema.InvocationRecord{}}
	for _, inv := range invocations {
		if inv.Success {
			continue
		}
		label := inv.Category
		if label == "" {
			label = schema.RootCategoryLabel
		}
		result.Failures[label] = append(result.Failures[label], inv)
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetHistoryStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := h.store()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	status, err := store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get history status: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
