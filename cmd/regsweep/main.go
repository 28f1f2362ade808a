// Command regsweep runs a tool under test against a fixture tree and reports regressions.
package main

import (
	"github.com/huangsam/regsweep/cmd"
	"github.com/huangsam/regsweep/internal/contract"
	"github.com/huangsam/regsweep/internal/history"
)

func main() {
	cmd.SetStoreManager(history.Manager)

	err := cmd.Execute()
	history.CloseStores()
	if err != nil {
		contract.LogFatal("Cannot run regsweep", err)
	}
	if err := cmd.StopProfiling(); err != nil {
		contract.LogWarn("Cannot stop profiling", err)
	}
}
