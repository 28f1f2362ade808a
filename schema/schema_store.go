package schema

import "time"

// SweepRunRecord represents a row from the regsweep_sweep_runs table.
type SweepRunRecord struct {
	SweepID       int64      `json:"sweep_id"`
	RunUUID       string     `json:"run_uuid"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	RunDurationMs *int64     `json:"run_duration_ms,omitempty"`
	ToolPath      string     `json:"tool_path"`
	Target        string     `json:"target"`
	TotalFixtures int32      `json:"total_fixtures"`
	TotalFailures int32      `json:"total_failures"`
	Status        string     `json:"status"`
	ConfigParams  *string    `json:"config_params,omitempty"`
}

// InvocationRecord represents a row from the regsweep_invocations table.
type InvocationRecord struct {
	SweepID     int64    `json:"sweep_id"`
	FixturePath string   `json:"fixture_path"`
	Category    string   `json:"category"`
	Success     bool     `json:"success"`
	FailureKind string   `json:"failure_kind"`
	ExitCode    int32    `json:"exit_code"`
	CommandLine string   `json:"command_line"`
	SizeBytes   int64    `json:"size_bytes"`
	ElapsedMs   int64    `json:"elapsed_ms"`
	Throughput  *float64 `json:"throughput,omitempty"`
}

// InvocationRecordFromResult flattens an InvocationResult into its stored form.
func InvocationRecordFromResult(sweepID int64, r InvocationResult) InvocationRecord {
	return InvocationRecord{
		SweepID:     sweepID,
		FixturePath: r.FixturePath,
		Category:    r.Category,
		Success:     r.Success,
		FailureKind: string(r.FailureKind),
		ExitCode:    int32(r.ExitCode),
		CommandLine: r.CommandLine,
		SizeBytes:   r.SizeBytes,
		ElapsedMs:   r.Elapsed.Milliseconds(),
		Throughput:  r.Throughput,
	}
}
