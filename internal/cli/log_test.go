package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("parsed") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("cache hit") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("cache hit") }, true},
		{"warn at error", log.ErrorLevel, func(l *log.Logger) { l.Warn("slow") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("logged = %v, want %v (%q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestNewLoggerReportsCallerAtDebug(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.DebugLevel).Debug("layout")
	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("debug output should name the caller: %q", buf.String())
	}

	buf.Reset()
	newLogger(&buf, log.InfoLevel).Info("layout")
	if strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("info output should not name the caller: %q", buf.String())
	}
}

func TestStopwatch(t *testing.T) {
	var buf bytes.Buffer
	sw := startStopwatch(newLogger(&buf, log.InfoLevel))
	sw.done("Parsed pTEST", "features", 4)

	out := buf.String()
	for _, want := range []string{"Parsed pTEST", "features=4", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("stopwatch output missing %q: %q", want, out)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("a bare context should yield log.Default()")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}
