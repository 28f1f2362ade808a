package history

import (
	"fmt"
	"io"
	"sort"

	"github.com/huangsam/regsweep/schema"
)

// PrintHistoryStatus prints history store status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Sweeps: %d\n", status.TotalSweeps)
	if status.TotalSweeps > 0 {
		_, _ = fmt.Fprintf(w, "Last Sweep ID: %d\n", status.LastSweepID)
		_, _ = fmt.Fprintf(w, "Last Sweep: %s\n", status.LastSweepTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Oldest Sweep: %s\n", status.OldestSweepTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Total Invocations: %d\n", status.TotalInvocations)

	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
