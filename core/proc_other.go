//go:build !unix

package core

import "os/exec"

// setProcessGroup is a no-op; exec.CommandContext kills the direct child.
func setProcessGroup(_ *exec.Cmd) {}
