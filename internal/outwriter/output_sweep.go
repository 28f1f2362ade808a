package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/regsweep/internal/contract"
	"github.com/huangsam/regsweep/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeTextReport prints the failure report per category, the slowest run
// line and a one-line footer.
func writeTextReport(w io.Writer, summary schema.SweepSummary, cfg *contract.Config) error {
	for _, bucket := range summary.Failures {
		header := fmt.Sprintf("Encountered %d program failures for %s", len(bucket.Failures), categoryLabel(bucket.Category))
		if cfg.UseColors {
			header = contract.FailColor.Sprint(header)
		}
		if _, err := fmt.Fprintf(w, "\n%s\n", header); err != nil {
			return err
		}
		for _, f := range bucket.Failures {
			if _, err := fmt.Fprintf(w, "Tool failed on %s - %s\n", f.FixturePath, f.CommandLine); err != nil {
				return err
			}
		}
	}

	slowest := "No successful runs; no throughput recorded"
	if summary.Slowest != nil {
		slowest = fmt.Sprintf("Slowest run in bytes/sec %s - %d kBytes/sec",
			summary.Slowest.FixturePath, kBytesPerSec(summary.Slowest.BytesPerSec))
	}
	if cfg.UseColors {
		slowest = contract.SummaryColor.Sprint(slowest)
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", slowest); err != nil {
		return err
	}

	if cfg.Detail {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := writeStatsTable(w, summary); err != nil {
			return err
		}
		if summary.TotalFailures > 0 {
			if err := writeFailureTable(w, summary, cfg); err != nil {
				return err
			}
		}
	}

	return writeFooter(w, summary, cfg)
}

// writeFooter prints totals and the sweep duration.
func writeFooter(w io.Writer, summary schema.SweepSummary, cfg *contract.Config) error {
	prefix := ""
	if cfg.UseEmojis {
		prefix = "✅ "
		if summary.TotalFailures > 0 {
			prefix = "❌ "
		}
	}
	_, err := fmt.Fprintf(w, "%sSweep completed in %v: %d fixtures, %d failures, %d workers\n",
		prefix, summary.Duration.Round(time.Millisecond), summary.TotalFixtures, summary.TotalFailures, cfg.Workers)
	if err != nil {
		return err
	}
	if summary.RelocationErrors > 0 {
		_, err = fmt.Fprintf(w, "Log relocation errors: %d\n", summary.RelocationErrors)
	}
	return err
}

// writeStatsTable renders per-category pass/fail counts.
func writeStatsTable(w io.Writer, summary schema.SweepSummary) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Category", "Fixtures", "Passed", "Failed"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range summary.Stats {
		data = append(data, []string{
			categoryLabel(s.Category),
			strconv.Itoa(s.Fixtures),
			strconv.Itoa(s.Passed),
			strconv.Itoa(s.Failed),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeFailureTable renders every failure with its kind and exit status.
func writeFailureTable(w io.Writer, summary schema.SweepSummary, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Category", "Fixture", "Kind", "Exit"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	maxWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for _, bucket := range summary.Failures {
		for _, f := range bucket.Failures {
			exit := "-"
			if f.ExitCode >= 0 {
				exit = strconv.Itoa(f.ExitCode)
			}
			kind := string(f.FailureKind)
			if cfg.UseColors {
				kind = contract.FailColor.Sprint(kind)
			}
			data = append(data, []string{
				categoryLabel(bucket.Category),
				contract.TruncatePath(f.FixturePath, maxWidth),
				kind,
				exit,
			})
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
