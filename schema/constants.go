package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the report.
	OutputMode string

	// DatabaseBackend represents the database backend for sweep history.
	DatabaseBackend string

	// FailureKind classifies why an invocation failed.
	FailureKind string

	// SweepStatus represents the final state of a sweep.
	SweepStatus string
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All failure kinds.
const (
	ExitFailure    FailureKind = "exit"    // Tool exited non-zero
	TimeoutFailure FailureKind = "timeout" // Tool was killed after the deadline
	SpawnFailure   FailureKind = "spawn"   // Tool could not be started or waited on
)

// All sweep states.
const (
	RunningSweep   SweepStatus = "running"
	CompletedSweep SweepStatus = "completed"
	AbortedSweep   SweepStatus = "aborted"
)

// Layout of the tests directory.
const (
	InputsDir      = "inputs"
	OutputsDir     = "outputs"
	OutputsPrevDir = "outputs_prev"
)

// Files produced per fixture.
const (
	DefaultLogName = "boomerang.log" // Shared log artifact the tool writes on success
	StdoutSuffix   = ".stdout"
	StderrSuffix   = ".stderr"
	LogSuffix      = ".log"
)

// RootCategoryLabel names the category of fixtures directly under inputs/.
const RootCategoryLabel = "(root)"

// Progress markers written once per completed invocation.
const (
	SuccessMarker = "."
	FailureMarker = "!"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
