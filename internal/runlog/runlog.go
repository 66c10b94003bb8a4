// Package runlog accumulates the human-readable event lines of one mode
// invocation and flushes them as a single block.
//
// Every run, success or failure, produces exactly one block of the form
//
//	[2026-08-30 14:05:11](mode=post)
//	  posted: Test message!
//
// written to stderr and, when a log file is configured, appended there too.
// Flushing is independent of config persistence and never fails the run.
package runlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// RunLog collects event lines for a single run.
type RunLog struct {
	mu       sync.Mutex
	mode     string
	started  time.Time
	lines    []string
	out      io.Writer
	filePath string
	flushed  bool
}

// New creates a run log for the given mode. Output defaults to stderr.
func New(mode string) *RunLog {
	return &RunLog{
		mode:    mode,
		started: time.Now(),
		out:     os.Stderr,
	}
}

// SetOutput redirects the console output. Useful for testing.
func (l *RunLog) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

// SetFile sets the log file the block is appended to on Flush.
// An empty path disables the file copy.
func (l *RunLog) SetFile(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filePath = path
}

// Logf appends one formatted event line.
func (l *RunLog) Logf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// LogError appends an error with its class so failures are never silent.
func (l *RunLog) LogError(err error) {
	if err == nil {
		return
	}
	l.Logf("error: %[1]T: %[1]v", err)
}

// Lines returns a copy of the accumulated lines.
func (l *RunLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Flush writes the accumulated block to the console and, if configured,
// appends it to the log file. A file error is reported on the console but
// does not fail the run. Flush is idempotent; a second call is a no-op.
func (l *RunLog) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.flushed {
		return
	}
	l.flushed = true

	block := l.render()
	fmt.Fprint(l.out, block)

	if l.filePath == "" {
		return
	}
	f, err := os.OpenFile(l.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(l.out, "run log: cannot open %s: %v\n", l.filePath, err)
		return
	}
	defer f.Close()
	if _, err := io.WriteString(f, block); err != nil {
		fmt.Fprintf(l.out, "run log: write to %s failed: %v\n", l.filePath, err)
	}
}

// render formats the block. Caller must hold the lock.
func (l *RunLog) render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s](mode=%s)\n", l.started.Format(timestampLayout), l.mode)
	for _, line := range l.lines {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
