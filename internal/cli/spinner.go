package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// spinner animates a status line until stopped, or until the context it was
// started with is done. Only the animation goroutine draws; stop waits for it
// to erase the line and exit.
type spinner struct {
	w      io.Writer
	parent context.Context
	cancel context.CancelFunc
	done   chan struct{}
	msg    string
	drawn  int // cells covered by the last frame
}

func startSpinner(ctx context.Context, w io.Writer, msg string) *spinner {
	inner, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:      w,
		parent: ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		msg:    msg,
	}
	go s.run(inner)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.done)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			if s.drawn > 0 {
				fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.drawn)+"\r")
			}
			return
		case <-tick.C:
			glyph := string(spinnerFrames[frame%len(spinnerFrames)])
			fmt.Fprint(s.w, "\r"+styleSpinner.Render(glyph)+" "+StyleDim.Render(s.msg))
			s.drawn = max(s.drawn, lipgloss.Width(s.msg)+2)
		}
	}
}

// stop erases the line. Calling it again is a no-op.
func (s *spinner) stop() {
	s.cancel()
	<-s.done
}

func (s *spinner) succeed(msg string) {
	s.stop()
	printSuccess("%s", msg)
}

func (s *spinner) fail(msg string) {
	s.stop()
	printError("%s", msg)
}

// interrupted reports whether the caller's context ended, as opposed to the
// spinner being stopped.
func (s *spinner) interrupted() bool { return s.parent.Err() != nil }
