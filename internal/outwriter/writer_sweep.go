package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/regsweep/schema"
)

// csvHeader is shared by failure and throughput rows; unused columns stay empty.
var csvHeader = []string{
	"record",
	"category",
	"fixture_path",
	"command_line",
	"failure_kind",
	"exit_code",
	"bytes_per_sec",
}

// writeCSVSweep writes failures in report order followed by the throughput table.
func writeCSVSweep(w io.Writer, summary schema.SweepSummary) error {
	return writeCSVWithHeader(w, csvHeader, func(cw *csv.Writer) error {
		for _, bucket := range summary.Failures {
			for _, f := range bucket.Failures {
				row := []string{
					"failure",
					bucket.Category,
					f.FixturePath,
					f.CommandLine,
					string(f.FailureKind),
					strconv.Itoa(f.ExitCode),
					"",
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		for _, t := range summary.Throughput {
			row := []string{
				"throughput",
				"",
				t.FixturePath,
				"",
				"",
				"",
				formatBytesPerSec(t.BytesPerSec),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
