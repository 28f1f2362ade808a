package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/huangsam/regsweep/schema"
)

// RotateSweepArtifacts keeps exactly one previous generation of outputs.
// It deletes outputs_prev, then renames outputs to outputs_prev. The fresh
// outputs tree is created later, one fixture directory at a time.
func RotateSweepArtifacts(testsDir string) error {
	prev := filepath.Join(testsDir, schema.OutputsPrevDir)
	current := filepath.Join(testsDir, schema.OutputsDir)

	if err := os.RemoveAll(prev); err != nil {
		return fmt.Errorf("failed to remove %s: %w", prev, err)
	}

	info, err := os.Stat(current)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", current, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory", current)
	}

	if err := os.Rename(current, prev); err != nil {
		return fmt.Errorf("failed to rotate %s to %s: %w", current, prev, err)
	}
	return nil
}

// LogArtifactExists reports whether the shared log artifact is present in dir.
func LogArtifactExists(dir, logName string) bool {
	info, err := os.Stat(filepath.Join(dir, logName))
	return err == nil && !info.IsDir()
}

// RelocateLog moves the shared log artifact in dir to <entry>.log.
// A missing artifact is expected after a failed run and is not an error;
// any other I/O fault is returned.
func RelocateLog(dir, entry, logName string) error {
	src := filepath.Join(dir, logName)
	dst := filepath.Join(dir, entry+schema.LogSuffix)
	if err := os.Rename(src, dst); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to relocate %s: %w", src, err)
	}
	return nil
}
