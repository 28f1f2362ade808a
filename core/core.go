// Package core has core logic for running regression sweeps.
package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/regsweep/core/agg"
	"github.com/huangsam/regsweep/internal/contract"
	"github.com/huangsam/regsweep/internal/outwriter"
	"github.com/huangsam/regsweep/schema"
)

// ExecuteSweep rotates artifacts, walks every fixture and prints the report.
// It serves as the main entry point for the 'run' command.
func ExecuteSweep(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.SweepSummary, error) {
	summary, err := runSweep(ctx, cfg, NewLocalInvoker(), mgr, progressWriter(ctx, cfg))
	if err != nil {
		return summary, err
	}
	if shouldSuppressOutput(ctx) {
		return summary, nil
	}
	return summary, outwriter.WriteSweepReport(summary, cfg)
}

// ExecuteSweepQuiet runs a sweep without writing anything to stdout.
// It is used where stdout carries a protocol, such as the MCP server.
func ExecuteSweepQuiet(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.SweepSummary, error) {
	return ExecuteSweep(withSuppressOutput(ctx), cfg, mgr)
}

// runSweep performs one sweep with the given invoker. The summary is filled
// even when the walk aborts, so callers can still record what happened.
func runSweep(ctx context.Context, cfg *contract.Config, invoker contract.Invoker, mgr contract.StoreManager, progress io.Writer) (schema.SweepSummary, error) {
	start := time.Now()
	runUUID := uuid.NewString()
	ctx = withRunUUID(ctx, runUUID)

	if err := RotateSweepArtifacts(cfg.TestsDir); err != nil {
		return schema.SweepSummary{}, err
	}
	contract.Logger().Debug("rotated sweep artifacts", "tests_dir", cfg.TestsDir, "run", runUUID)

	aggregator := agg.New()
	walker := NewWalker(cfg, invoker, aggregator, progress)
	tracker := beginTracking(ctx, cfg, mgr, start)
	walker.OnResult(tracker.record)

	walkErr := walker.Walk(ctx)
	_, _ = fmt.Fprintln(progress)

	summary := schema.SweepSummary{
		SweepID:          runUUID,
		ToolPath:         cfg.ToolPath,
		Target:           cfg.Target,
		StartTime:        start,
		Duration:         time.Since(start),
		RelocationErrors: walker.RelocationErrors(),
		Status:           schema.CompletedSweep,
	}
	aggregator.Fill(&summary)
	if walkErr != nil {
		summary.Status = schema.AbortedSweep
	}
	tracker.finish(summary)

	return summary, walkErr
}

// progressWriter picks where markers and headers go. Structured reports on
// stdout must not be interleaved with progress.
func progressWriter(ctx context.Context, cfg *contract.Config) io.Writer {
	if shouldSuppressOutput(ctx) {
		return io.Discard
	}
	if cfg.Output != schema.TextOut && cfg.OutputFile == "" {
		return os.Stderr
	}
	return os.Stdout
}
