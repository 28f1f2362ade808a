package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/regsweep/internal/contract"
	"github.com/huangsam/regsweep/schema"
)

// sweepTracker mirrors one sweep into the history store. A zero tracker
// records nothing, which is what the none backend yields.
type sweepTracker struct {
	store   contract.HistoryStore
	sweepID int64
}

// beginTracking opens a history row for the sweep if a store is configured.
// Tracking problems are warnings; they never stop a sweep.
func beginTracking(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, start time.Time) *sweepTracker {
	t := &sweepTracker{}
	if mgr == nil {
		return t
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return t
	}

	runUUID, _ := getRunUUID(ctx)
	configParams := map[string]any{
		"tests_dir":  cfg.TestsDir,
		"work_dir":   cfg.WorkDir,
		"extra_args": cfg.ExtraArgs,
		"timeout":    cfg.Timeout.String(),
		"workers":    cfg.Workers,
		"log_name":   cfg.LogName,
	}
	sweepID, err := store.BeginSweep(runUUID, start, cfg.ToolPath, cfg.Target, configParams)
	if err != nil {
		contract.LogWarn("Sweep history initialization failed", err)
		return t
	}
	if sweepID > 0 {
		t.store = store
		t.sweepID = sweepID
	}
	return t
}

func (t *sweepTracker) record(r schema.InvocationResult) {
	if t.store == nil {
		return
	}
	if err := t.store.RecordInvocation(t.sweepID, schema.InvocationRecordFromResult(t.sweepID, r)); err != nil {
		logTrackingError("RecordInvocation", r.FixturePath, err)
	}
}

func (t *sweepTracker) finish(summary schema.SweepSummary) {
	if t.store == nil {
		return
	}
	if err := t.store.EndSweep(t.sweepID, time.Now(), summary.TotalFixtures, summary.TotalFailures, summary.Status); err != nil {
		contract.LogWarn("Failed to finalize sweep history", err)
	}
}

// logTrackingError logs history recording failures.
func logTrackingError(operation, path string, err error) {
	contract.LogWarn(fmt.Sprintf("Sweep history failed for %s on %s", operation, path), err)
}
