package history

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/regsweep/internal/contract"
	"github.com/huangsam/regsweep/internal/parquet"
)

// Suffixes appended to --output-file for each exported table.
const (
	sweepRunsSuffix   = ".sweep_runs.parquet"
	invocationsSuffix = ".invocations.parquet"
)

// ExecuteHistoryExport exports the global history store to Parquet files.
func ExecuteHistoryExport(w io.Writer, outputFile string) error {
	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("sweep history is not configured; set --history-backend")
	}
	return ExportHistory(w, store, outputFile)
}

// ExportHistory writes every sweep run and invocation from store to
// <outputFile>.sweep_runs.parquet and <outputFile>.invocations.parquet.
func ExportHistory(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalSweeps == 0 {
		return errors.New("no sweep history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total sweeps: %d\n", status.TotalSweeps)
	_, _ = fmt.Fprintf(w, "Total invocations: %d\n", status.TotalInvocations)

	runs, err := store.GetAllSweepRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve sweep runs: %w", err)
	}
	invocations, err := store.GetAllInvocations()
	if err != nil {
		return fmt.Errorf("failed to retrieve invocations: %w", err)
	}

	parquetRuns := parquet.ConvertSweepRunRecords(runs)
	runsFile := outputFile + sweepRunsSuffix
	if err := parquet.WriteSweepRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write sweep runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d sweep runs to: %s\n", len(parquetRuns), runsFile)

	parquetInvocations := parquet.ConvertInvocationRecords(invocations)
	invocationsFile := outputFile + invocationsSuffix
	if err := parquet.WriteInvocationsParquet(parquetInvocations, invocationsFile); err != nil {
		return fmt.Errorf("failed to write invocations: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d invocations to: %s\n", len(parquetInvocations), invocationsFile)

	return nil
}
