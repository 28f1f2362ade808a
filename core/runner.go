package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/regsweep/internal/contract"
	"github.com/huangsam/regsweep/schema"
)

// waitDelay bounds how long Wait blocks on I/O after the process group is killed.
const waitDelay = 2 * time.Second

// LocalInvoker runs the tool under test as a local child process.
type LocalInvoker struct{}

var _ contract.Invoker = &LocalInvoker{} // Compile-time check

// NewLocalInvoker creates a new LocalInvoker.
func NewLocalInvoker() *LocalInvoker {
	return &LocalInvoker{}
}

// BuildArgs returns the argument vector after the tool path for one request.
// The output directory is the parent of the output prefix.
func BuildArgs(req schema.InvocationRequest) []string {
	args := make([]string, 0, 5+len(req.ExtraArgs))
	args = append(args, "-P", req.WorkDir, "-o", filepath.Dir(req.OutputPrefix))
	args = append(args, req.ExtraArgs...)
	return append(args, req.Fixture.Path)
}

// Invoke runs the tool once against the requested fixture. Every problem,
// including a tool that cannot be started, becomes a failed result.
func (li *LocalInvoker) Invoke(ctx context.Context, req schema.InvocationRequest) schema.InvocationResult {
	args := BuildArgs(req)
	result := schema.InvocationResult{
		CommandLine: strings.Join(args, " "),
		Argv:        append([]string{req.ToolPath}, args...),
		FixturePath: req.Fixture.Path,
		Category:    req.Fixture.Category,
		SizeBytes:   req.Fixture.SizeBytes,
		ExitCode:    -1,
	}

	stdout, err := os.Create(req.OutputPrefix + schema.StdoutSuffix)
	if err != nil {
		return failSpawn(result, err)
	}
	defer func() { _ = stdout.Close() }()

	stderr, err := os.Create(req.OutputPrefix + schema.StderrSuffix)
	if err != nil {
		return failSpawn(result, err)
	}
	defer func() { _ = stderr.Close() }()

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = contract.DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, req.ToolPath, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		result.Elapsed = time.Since(start)
		return failSpawn(result, err)
	}
	err = cmd.Wait()
	result.Elapsed = time.Since(start)

	if runCtx.Err() != nil {
		// The group was killed; whatever the exit status, this run failed.
		result.FailureKind = schema.TimeoutFailure
		if cmd.ProcessState != nil {
			result.ExitCode = cmd.ProcessState.ExitCode()
		}
		contract.Logger().Debug("invocation timed out", "fixture", req.Fixture.Path, "timeout", timeout)
		return result
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			result.FailureKind = schema.ExitFailure
			return result
		}
		return failSpawn(result, err)
	}

	result.Success = true
	result.ExitCode = 0
	result.Throughput = computeThroughput(req.Fixture.SizeBytes, result.Elapsed)
	return result
}

// failSpawn marks a result as a spawn failure.
func failSpawn(result schema.InvocationResult, err error) schema.InvocationResult {
	result.Success = false
	result.FailureKind = schema.SpawnFailure
	contract.Logger().Debug("invocation could not run", "fixture", result.FixturePath, "error", err)
	return result
}

// computeThroughput returns bytes per second, or nil when no time elapsed.
func computeThroughput(sizeBytes int64, elapsed time.Duration) *float64 {
	if elapsed <= 0 {
		return nil
	}
	v := float64(sizeBytes) / elapsed.Seconds()
	return &v
}

// fixtureOutputPaths returns the per-fixture output directory and the capture prefix.
func fixtureOutputPaths(outputsRoot string, fixture schema.Fixture) (string, string) {
	dir := filepath.Join(outputsRoot, fixture.RelDir, fixture.Name)
	return dir, filepath.Join(dir, fixture.Name)
}

// describeFailure renders a short reason for debug logs.
func describeFailure(r schema.InvocationResult) string {
	switch r.FailureKind {
	case schema.ExitFailure:
		return fmt.Sprintf("exit status %d", r.ExitCode)
	case schema.TimeoutFailure:
		return "timed out"
	case schema.SpawnFailure:
		return "could not start"
	default:
		return "ok"
	}
}
