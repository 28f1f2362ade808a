package cmd

import (
	"github.com/huangsam/regsweep/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the regsweep MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents run sweeps and query
the sweep history via standard tools.

Tools:
  run_sweep          - run a sweep and return its summary
  list_sweeps        - list recorded sweeps, most recent first
  get_sweep_failures - failed invocations of a sweep grouped by category
  get_history_status - backend, row counts and time range

The history tools need --history-backend.`,
	// Positional values arrive per tool call, so only the service settings
	// are validated here. Nothing may be printed to stdout, which carries the protocol.
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return serviceSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
