package cmd

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/nikogura/tex-tailor/pkg/tailor"
)

//nolint:gochecknoglobals // Terminal colors
var (
	okColor   = color.New(color.FgHiGreen)
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
	headColor = color.New(color.FgCyan, color.Bold)
)

// spinner provides a simple text-based progress indicator. Lines printed
// through printf appear above it.
type spinner struct {
	message string
	quit    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	active  bool
}

func newSpinner(message string) (s *spinner) {
	s = &spinner{
		message: message,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	return s
}

func (s *spinner) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true

	fmt.Printf("%s ", s.message)

	go func() {
		defer close(s.done)

		chars := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.quit:
				s.mu.Lock()
				s.clearLine()
				s.mu.Unlock()
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Printf("\r%s %s", s.message, chars[i%len(chars)])
				s.mu.Unlock()
			}
		}
	}()
}

func (s *spinner) stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.mu.Unlock()

	close(s.quit)
	<-s.done
}

// clearLine blanks the spinner line. Callers hold s.mu.
func (s *spinner) clearLine() {
	fmt.Printf("\r%s\r", strings.Repeat(" ", len(s.message)+2))
}

// printf prints a full line in c, clearing the spinner first. The next tick
// redraws it below. A nil spinner just prints.
func (s *spinner) printf(c *color.Color, format string, args ...interface{}) {
	if s == nil {
		_, _ = c.Printf(format, args...)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		s.clearLine()
	}
	_, _ = c.Printf(format, args...)
}

// withSpinner runs fn behind a spinner unless verbose output is on, in which
// case fn gets a nil spinner and progress lines print directly.
func withSpinner(message string, fn func(s *spinner)) {
	if getVerbose() {
		fmt.Println(message)
		fn(nil)
		return
	}

	s := newSpinner(message)
	s.start()
	defer s.stop()
	fn(s)
}

// sectionReporter prints one line per finished section. Parallel edits call it
// from several goroutines.
type sectionReporter struct {
	mu    sync.Mutex
	total int
	out   *spinner
}

func (r *sectionReporter) report(result tailor.SectionResult) {
	if !getVerbose() && !result.FellBack {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	label := fmt.Sprintf("[%d/%d] %s", result.Index+1, r.total, displayTitle(result.Title))
	if result.FellBack {
		r.out.printf(warnColor, "⚠ %s: kept original (%v)\n", label, result.Err)
		return
	}

	r.out.printf(okColor, "✓ %s (%d -> %d chars, score %d)\n", label, len(result.Original), len(result.Text), result.Check.Score)
}

func displayTitle(title string) (display string) {
	display = title
	if display == "" {
		display = "(untitled)"
	}
	return display
}
