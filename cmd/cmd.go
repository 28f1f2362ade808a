// Package cmd defines the command-line interface for regsweep.
package cmd

import (
	"github.com/huangsam/regsweep/internal/contract"
	"github.com/huangsam/regsweep/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("tests-dir", contract.DefaultTestsDir, "Directory holding inputs/, outputs/ and outputs_prev/")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or json or csv")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Bool("detail", false, "Print a per-category summary table")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Print debug tracing to stderr")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in report headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored markers and labels (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", "", "Sweep history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of runCmd to Viper
	runCmd.Flags().String("timeout", contract.DefaultTimeout.String(), "Per-invocation wall-clock limit (e.g., 20s, 2m)")
	runCmd.Flags().IntP("workers", "j", contract.DefaultWorkers, "Number of concurrent invocations (1 keeps the sweep sequential)")
	runCmd.Flags().String("log-name", schema.DefaultLogName, "Log file the tool writes next to its captures on success")
	runCmd.Flags().Bool("fail-on-error", false, "Exit with status 1 when any fixture fails")
	// Everything after the tool path belongs to the tool, including values that look like flags.
	runCmd.Flags().SetInterspersed(false)
	if err := viper.BindPFlags(runCmd.Flags()); err != nil {
		contract.LogFatal("Error binding run flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
