package contract

import "errors"

// ErrContractViolation means the tool reported success without producing its
// shared log artifact. It aborts the sweep.
var ErrContractViolation = errors.New("tool exited 0 without writing its log artifact")

// ErrNoInputs means the tests directory has no inputs tree to walk.
var ErrNoInputs = errors.New("inputs directory not found")

// Exit codes used by the CLI.
const (
	ExitOK                = 0
	ExitFailure           = 1 // Generic failure, or failed fixtures with --fail-on-error
	ExitContractViolation = 2 // Sweep aborted on a broken tool contract
)
