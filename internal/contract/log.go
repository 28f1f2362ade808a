package contract

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/lmittmann/tint"
)

var (
	logLevel = &slog.LevelVar{}
	logOnce  sync.Once
	logger   *slog.Logger
)

func init() {
	logLevel.Set(slog.LevelWarn)
}

// Logger returns the process-wide debug logger. It writes to stderr so the
// progress stream on stdout stays clean.
func Logger() *slog.Logger {
	logOnce.Do(func() {
		logger = slog.New(newTerminalHandler(os.Stderr))
	})
	return logger
}

// SetVerbose switches debug tracing on or off.
func SetVerbose(verbose bool) {
	if verbose {
		logLevel.Set(slog.LevelDebug)
		return
	}
	logLevel.Set(slog.LevelWarn)
}

func newTerminalHandler(w io.Writer) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		NoColor: runtime.GOOS == "windows",
		Level:   logLevel,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
}
