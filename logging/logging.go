// Package logging provides the warning sink spec.md §7 describes: the
// core never aborts on a command-usage warning, it reports the warning
// through this sink and continues. Modeled on the teacher repo's
// writer-based logging (no third-party logging library is used anywhere
// in that corpus either — see DESIGN.md for why that's the grounded
// choice here too).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Sink receives warnings and invariant reports from the core.
type Sink interface {
	Warn(format string, args ...any)
	Invariant(err error)
}

// WriterSink writes timestamped lines to an io.Writer. It is safe for
// concurrent use by the processor and I/O tasks.
type WriterSink struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewWriterSink returns a Sink that writes to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w, now: time.Now}
}

// NewStdoutSink returns a Sink that writes to os.Stdout.
func NewStdoutSink() *WriterSink { return NewWriterSink(os.Stdout) }

// Warn logs a non-fatal command-usage condition.
func (s *WriterSink) Warn(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%s WARN %s\n", s.now().Format(time.RFC3339), fmt.Sprintf(format, args...))
}

// Invariant logs a fatal invariant violation before the run loop halts.
func (s *WriterSink) Invariant(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%s FATAL %s\n", s.now().Format(time.RFC3339), err)
}

// Discard is a Sink that drops everything, for tests that don't care
// about log output.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Warn(string, ...any) {}
func (discardSink) Invariant(error)     {}
