// Package schema has models, enums and shared constants for all parts of regsweep.
package schema

import "time"

// Fixture is one input sample the tool under test is exercised against.
// Fixtures are read-only; nothing in regsweep mutates or deletes them.
type Fixture struct {
	Path      string `json:"path"`     // Path as walked, rooted at the inputs directory
	RelDir    string `json:"rel_dir"`  // Subdirectory relative to inputs ("" at the root)
	Name      string `json:"name"`     // Base name of the fixture entry
	SizeBytes int64  `json:"size"`     // Byte size at discovery time
	Category  string `json:"category"` // First segment of RelDir ("" at the root)
}

// InvocationResult is produced once per fixture per sweep.
type InvocationResult struct {
	Success     bool          `json:"success"`              // True iff the tool exited with status 0
	CommandLine string        `json:"command_line"`         // Arguments after the tool path, space joined
	Argv        []string      `json:"argv"`                 // Full argument vector including the tool path
	FixturePath string        `json:"fixture_path"`         // Fixture the tool was pointed at
	Category    string        `json:"category"`             // Category of the fixture
	SizeBytes   int64         `json:"size_bytes"`           // Fixture size used for throughput
	Elapsed     time.Duration `json:"elapsed_ns"`           // Wall-clock time around start and wait
	ExitCode    int           `json:"exit_code"`            // -1 when the process never produced one
	FailureKind FailureKind   `json:"failure_kind"`         // Empty on success
	Throughput  *float64      `json:"throughput,omitempty"` // Bytes per second; nil on failure or zero elapsed
}

// FailureRecord is one entry of a category bucket.
type FailureRecord struct {
	FixturePath string      `json:"fixture_path"`
	CommandLine string      `json:"command_line"`
	FailureKind FailureKind `json:"failure_kind"`
	ExitCode    int         `json:"exit_code"`
}

// CategoryFailures groups the failures of one category in discovery order.
type CategoryFailures struct {
	Category string          `json:"category"`
	Failures []FailureRecord `json:"failures"`
}

// CategoryStats counts the invocations of one category.
type CategoryStats struct {
	Category string `json:"category"`
	Fixtures int    `json:"fixtures"`
	Passed   int    `json:"passed"`
	Failed   int    `json:"failed"`
}

// ThroughputEntry is a single row of the throughput table.
type ThroughputEntry struct {
	FixturePath string  `json:"fixture_path"`
	BytesPerSec float64 `json:"bytes_per_sec"`
}

// SweepSummary is everything the reporter needs once the walk completes.
type SweepSummary struct {
	SweepID          string             `json:"sweep_id"`
	ToolPath         string             `json:"tool_path"`
	Target           string             `json:"target"`
	StartTime        time.Time          `json:"start_time"`
	Duration         time.Duration      `json:"duration_ns"`
	TotalFixtures    int                `json:"total_fixtures"`
	TotalFailures    int                `json:"total_failures"`
	RelocationErrors int                `json:"relocation_errors"`
	Failures         []CategoryFailures `json:"failures"`
	Stats            []CategoryStats    `json:"stats"`
	Throughput       []ThroughputEntry  `json:"throughput"`
	Slowest          *ThroughputEntry   `json:"slowest"`
	Status           SweepStatus        `json:"status"`
}

// InvocationRequest holds everything needed to run the tool against one fixture.
type InvocationRequest struct {
	ToolPath     string        // Executable under test
	Fixture      Fixture       // Fixture passed as the final positional argument
	OutputPrefix string        // Prefix for the .stdout and .stderr capture files
	WorkDir      string        // Value of the -P flag
	ExtraArgs    []string      // Forwarded verbatim between -o and the fixture
	Timeout      time.Duration // Wall-clock limit before the process group is killed
}
