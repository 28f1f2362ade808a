package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/regsweep/schema"
)

// Default values for configuration.
const (
	DefaultTestsDir = "tests"
	DefaultTimeout  = 20 * time.Second
	DefaultWorkers  = 1
	MaxWorkers      = 256
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a sweep.
// This struct remains the "final, validated" config.
type Config struct {
	TestsDir  string        // Root holding inputs/, outputs/ and outputs_prev/
	WorkDir   string        // Orchestrator working directory, passed to the tool as -P
	ToolPath  string        // Executable under test
	Target    string        // Platform/target identifier (first forwarded argument)
	ExtraArgs []string      // Every positional value after the tool path, forwarded verbatim
	Timeout   time.Duration // Per-invocation wall-clock limit
	Workers   int           // 1 keeps the sweep strictly sequential
	LogName   string        // Shared log artifact the tool writes on success

	Output      schema.OutputMode
	OutputFile  string
	Detail      bool
	Width       int // Terminal width override (0 = auto-detect)
	FailOnError bool
	Verbose     bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable coloured markers and labels
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	ToolPathStr string
	ForwardArgs []string

	// --- Fields from rootCmd.PersistentFlags() ---
	TestsDir         string `mapstructure:"tests-dir"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Detail           bool   `mapstructure:"detail"`
	Width            int    `mapstructure:"width"`
	Verbose          bool   `mapstructure:"verbose"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from runCmd.Flags() ---
	Timeout     string `mapstructure:"timeout"`
	Workers     int    `mapstructure:"workers"`
	LogName     string `mapstructure:"log-name"`
	FailOnError bool   `mapstructure:"fail-on-error"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.ExtraArgs != nil {
		clone.ExtraArgs = make([]string, len(c.ExtraArgs))
		copy(clone.ExtraArgs, c.ExtraArgs)
	}
	return &clone
}

// InputsRoot returns the directory holding the fixture tree.
func (c *Config) InputsRoot() string {
	return filepath.Join(c.TestsDir, schema.InputsDir)
}

// OutputsRoot returns the directory the current sweep writes to.
func (c *Config) OutputsRoot() string {
	return filepath.Join(c.TestsDir, schema.OutputsDir)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := ProcessServiceConfig(cfg, input); err != nil {
		return err
	}
	return RevalidateSweep(cfg, input.ToolPathStr, input.ForwardArgs)
}

// ProcessServiceConfig validates everything except the positional values.
// Commands that never start a sweep themselves (history, mcp) use it.
func ProcessServiceConfig(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSweepSettings(cfg, input); err != nil {
		return err
	}
	if err := validateHistoryConfig(cfg, input); err != nil {
		return err
	}
	return resolveTestsDir(cfg, input)
}

// RevalidateSweep applies the tool path and forwarded values to an already
// processed config and checks the fixture tree exists.
func RevalidateSweep(cfg *Config, toolPath string, forwardArgs []string) error {
	cfg.ToolPath = strings.TrimSpace(toolPath)
	if cfg.ToolPath == "" {
		return errors.New("path to the executable under test is required")
	}
	if len(forwardArgs) == 0 {
		return errors.New("a platform/target identifier is required after the executable path")
	}
	cfg.Target = forwardArgs[0]
	cfg.ExtraArgs = append([]string(nil), forwardArgs...)
	return checkInputs(cfg)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseHistoryBackend maps a raw backend string to a DatabaseBackend.
// The empty string means history is disabled.
func ParseHistoryBackend(raw string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(raw) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", raw)
	}
	return backend, nil
}

// validateSimpleInputs processes and validates the presentation fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.FailOnError = input.FailOnError

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv", input.Output)
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	return nil
}

// processSweepSettings handles the timeout, worker count and log name.
func processSweepSettings(cfg *Config, input *ConfigRawInput) error {
	timeout := DefaultTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout '%s': %w", input.Timeout, err)
		}
		timeout = d
	}
	if timeout <= 0 {
		return fmt.Errorf("timeout must be greater than 0 (received %s)", timeout)
	}
	cfg.Timeout = timeout

	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be greater than 0 and cannot exceed %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	cfg.LogName = strings.TrimSpace(input.LogName)
	if cfg.LogName == "" {
		cfg.LogName = schema.DefaultLogName
	}
	if strings.ContainsAny(cfg.LogName, `/\`) {
		return fmt.Errorf("log-name must be a bare file name (received %q)", cfg.LogName)
	}
	return nil
}

// validateHistoryConfig validates the history backend configuration.
func validateHistoryConfig(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseHistoryBackend(input.HistoryBackend)
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// resolveTestsDir records the working directory and the tests directory.
func resolveTestsDir(cfg *Config, input *ConfigRawInput) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot determine working directory: %w", err)
	}
	cfg.WorkDir = wd

	cfg.TestsDir = input.TestsDir
	if cfg.TestsDir == "" {
		cfg.TestsDir = DefaultTestsDir
	}
	cfg.TestsDir = filepath.Clean(cfg.TestsDir)
	return nil
}

// checkInputs fails with ErrNoInputs unless the fixture tree is a directory.
func checkInputs(cfg *Config) error {
	info, err := os.Stat(cfg.InputsRoot())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoInputs, cfg.InputsRoot())
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrNoInputs, cfg.InputsRoot())
	}
	return nil
}

// ProcessProfilingConfig enables profiling when a prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
