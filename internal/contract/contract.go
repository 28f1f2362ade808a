// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/regsweep/schema"
)

// Invoker runs the tool under test against a single fixture.
// This allows the walker to be tested without spawning real processes.
type Invoker interface {
	// Invoke runs the tool once. It never returns an error: spawn failures,
	// timeouts and non-zero exits all surface as an unsuccessful result.
	Invoke(ctx context.Context, req schema.InvocationRequest) schema.InvocationResult
}

// StoreManager defines the interface for managing history stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking sweeps and their invocations.
type HistoryStore interface {
	// BeginSweep creates a new sweep run and returns its unique ID
	BeginSweep(runUUID string, startTime time.Time, toolPath, target string, configParams map[string]any) (int64, error)

	// RecordInvocation stores the outcome of one fixture invocation
	RecordInvocation(sweepID int64, record schema.InvocationRecord) error

	// EndSweep updates the sweep run with completion data
	EndSweep(sweepID int64, endTime time.Time, totalFixtures, totalFailures int, status schema.SweepStatus) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllSweepRuns returns every recorded sweep ordered by ID
	GetAllSweepRuns() ([]schema.SweepRunRecord, error)

	// GetInvocations returns the invocations of one sweep in discovery order
	GetInvocations(sweepID int64) ([]schema.InvocationRecord, error)

	// GetAllInvocations returns every stored invocation
	GetAllInvocations() ([]schema.InvocationRecord, error)

	// Close closes the underlying connection
	Close() error
}
