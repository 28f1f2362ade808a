package cmd

import (
	"errors"
	"fmt"

	"github.com/huangsam/regsweep/core"
	"github.com/huangsam/regsweep/internal/contract"
	"github.com/spf13/cobra"
)

// runCmd performs one regression sweep.
var runCmd = &cobra.Command{
	Use:   "run <tool> <target> [extra...]",
	Short: "Run the tool against every fixture and report failures.",
	Long: `Rotate the previous outputs, run the tool once per fixture under tests/inputs,
and print the failures grouped by category plus a throughput table.

Each fixture gets its own directory under tests/outputs holding the captured
stdout and stderr and, after a successful run, the relocated tool log.

Every value after the tool path is forwarded verbatim; the first one is the
platform/target identifier. Flags for regsweep itself must come before the
tool path.

Exit status:
  0 - the sweep completed (failed fixtures are reported, not fatal)
  1 - configuration problems, or failures with --fail-on-error
  2 - the tool exited 0 without writing its log, so the sweep was aborted

Examples:
  # Sweep the default tests directory for the pentium target
  regsweep run ./bin/boomerang pentium

  # Forward extra options to the tool
  regsweep run ./bin/boomerang pentium -v --no-cache

  # Run four fixtures at a time with a tighter timeout
  regsweep run --workers 4 --timeout 5s ./bin/boomerang sparc

  # Emit a JSON report for CI and record the sweep in SQLite
  regsweep run --output json --output-file sweep.json --history-backend sqlite ./bin/boomerang pentium`,
	Args:    cobra.MinimumNArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		summary, err := core.ExecuteSweep(rootCtx, cfg, storeManager)
		if err != nil {
			if errors.Is(err, contract.ErrContractViolation) {
				contract.LogFatalCode(contract.ExitContractViolation, "Sweep aborted", err)
			}
			contract.LogFatal("Cannot run sweep", err)
		}
		if cfg.FailOnError && summary.TotalFailures > 0 {
			contract.LogFatal("Sweep recorded failures",
				fmt.Errorf("%d of %d fixtures failed", summary.TotalFailures, summary.TotalFixtures))
		}
	},
}
