package schema

import "time"

// HistoryStatus represents the status of the sweep history store.
type HistoryStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalSweeps      int              `json:"total_sweeps"`
	LastSweepID      int64            `json:"last_sweep_id"`
	LastSweepTime    time.Time        `json:"last_sweep_time"`
	OldestSweepTime  time.Time        `json:"oldest_sweep_time"`
	TotalInvocations int              `json:"total_invocations"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
