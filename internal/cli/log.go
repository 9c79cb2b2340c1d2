// Package cli implements the plasmidmap command-line interface.
//
// This package provides commands for rendering plasmid maps from GenBank
// files, feature tables and element lists, inspecting and editing the parsed
// features, serving the HTTP API and managing the render cache. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - render: Draw a map as SVG, PNG, PDF or JSON
//   - inspect: Print the normalized feature table
//   - edit: Toggle, recolor and relabel features and save an overrides file
//   - palette: Show the named colors
//   - serve: Run the HTTP API
//   - config / cache: Manage settings and cached artifacts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so helpers can log without extra parameters.
//
// # Example
//
//	import "github.com/plasmidmap/plasmidmap/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes to w with wall-clock timestamps. Debug loggers also report
// the calling file and line.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		ReportCaller:    level <= log.DebugLevel,
	})
}

// stopwatch logs how long a step took.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func startStopwatch(l *log.Logger) *stopwatch {
	return &stopwatch{logger: l, start: time.Now()}
}

// done logs msg at info level with a "took" field, e.g.
//
//	12:04:31 INFO Parsed 4 features took=3ms
func (s *stopwatch) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(s.start).Round(time.Millisecond))
	s.logger.Info(msg, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default() outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
