// Package parquet provides data structures and functions for exporting sweep
// history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/regsweep/schema"
	"github.com/parquet-go/parquet-go"
)

// SweepRun represents a single regression sweep with metadata.
// This struct maps to the regsweep_sweep_runs database table.
type SweepRun struct {
	// SweepID is the unique identifier for this sweep
	SweepID int64 `parquet:"sweep_id,snappy"`

	// RunUUID is the identifier printed by the sweep and carried in logs
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartTime is when the sweep began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the sweep finished (nullable while running or after a crash)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the wall-clock duration in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	ToolPath      string `parquet:"tool_path,snappy"`
	Target        string `parquet:"target,snappy"`
	TotalFixtures int32  `parquet:"total_fixtures,snappy"`
	TotalFailures int32  `parquet:"total_failures,snappy"`

	// Status is running, completed or aborted
	Status string `parquet:"status,snappy"`

	// ConfigParams contains the JSON-encoded sweep settings (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Invocation is one tool run against one fixture within a sweep.
// This struct maps to the regsweep_invocations database table.
type Invocation struct {
	SweepID     int64  `parquet:"sweep_id,snappy"`
	FixturePath string `parquet:"fixture_path,snappy"`
	Category    string `parquet:"category,snappy"`
	Success     bool   `parquet:"success,snappy"`

	// FailureKind is exit, timeout or spawn; empty on success
	FailureKind string `parquet:"failure_kind,snappy"`
	ExitCode    int32  `parquet:"exit_code,snappy"`
	CommandLine string `parquet:"command_line,snappy"`
	SizeBytes   int64  `parquet:"size_bytes,snappy"`
	ElapsedMs   int64  `parquet:"elapsed_ms,snappy"`

	// Throughput is bytes per second (nullable for failed runs)
	Throughput *float64 `parquet:"throughput,optional,snappy"`
}

// WriteSweepRunsParquet writes a slice of SweepRun structs to a Parquet file.
func WriteSweepRunsParquet(data []SweepRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteInvocationsParquet writes a slice of Invocation structs to a Parquet file.
func WriteInvocationsParquet(data []Invocation, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows whose schema is inferred from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertSweepRunRecords converts schema.SweepRunRecord to SweepRun for Parquet export.
func ConvertSweepRunRecords(records []schema.SweepRunRecord) []SweepRun {
	result := make([]SweepRun, len(records))
	for i, record := range records {
		result[i] = SweepRun{
			SweepID:       record.SweepID,
			RunUUID:       record.RunUUID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			ToolPath:      record.ToolPath,
			Target:        record.Target,
			TotalFixtures: record.TotalFixtures,
			TotalFailures: record.TotalFailures,
			Status:        record.Status,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertInvocationRecords converts schema.InvocationRecord to Invocation for Parquet export.
func ConvertInvocationRecords(records []schema.InvocationRecord) []Invocation {
	result := make([]Invocation, len(records))
	for i, record := range records {
		result[i] = Invocation{
			SweepID:     record.SweepID,
			FixturePath: record.FixturePath,
			Category:    record.Category,
			Success:     record.Success,
			FailureKind: record.FailureKind,
			ExitCode:    record.ExitCode,
			CommandLine: record.CommandLine,
			SizeBytes:   record.SizeBytes,
			ElapsedMs:   record.ElapsedMs,
			Throughput:  record.Throughput,
		}
	}
	return result
}
