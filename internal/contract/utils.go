package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/regsweep/schema"
)

// Color variables for console output.
var (
	PassColor    = color.New(color.FgGreen)              // PassColor marks successful invocations.
	FailColor    = color.New(color.FgRed, color.Bold)    // FailColor marks failed invocations.
	HeaderColor  = color.New(color.FgCyan)               // HeaderColor is used for directory headers.
	SummaryColor = color.New(color.FgYellow, color.Bold) // SummaryColor highlights the slowest run line.
)

// GetPlainMarker returns the progress marker for an invocation outcome.
func GetPlainMarker(success bool) string {
	if success {
		return schema.SuccessMarker
	}
	return schema.FailureMarker
}

// GetColorMarker returns the progress marker wrapped in the outcome colour.
func GetColorMarker(success bool) string {
	if success {
		return PassColor.Sprint(schema.SuccessMarker)
	}
	return FailColor.Sprint(schema.FailureMarker)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	LogFatalCode(ExitFailure, msg, err)
}

// LogFatalCode logs an error and exits the program with the given status.
func LogFatalCode(code int, msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(code)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for sweep history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".regsweep_history.db"
	}
	return filepath.Join(homeDir, ".regsweep_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// CategoryOf returns the first segment of a path relative to the inputs root.
// Fixtures directly under the root have the empty category.
func CategoryOf(relDir string) string {
	if relDir == "" || relDir == "." {
		return ""
	}
	clean := filepath.ToSlash(filepath.Clean(relDir))
	first, _, _ := strings.Cut(clean, "/")
	return first
}
