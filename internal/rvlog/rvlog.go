// Package rvlog provides the single shared logger used by the
// processor, the memory hierarchy and the CLI for informational
// tracing. It follows akita's own convention of leaning on the
// standard log package rather than introducing a structured-logging
// dependency: a plain panic marks invariant violations the caller caused,
// everything else is plain trace output a user can silence by
// discarding the logger's output.
package rvlog

import (
	"io"
	"log"
	"os"
)

// Logger is the package-level logger shared across the simulator.
// Tests and the CLI may redirect its output; by default it writes to
// stderr.
var Logger = log.New(os.Stderr, "rvpipe: ", 0)

// SetOutput redirects where Logger writes, e.g. io.Discard in tests
// that don't want tracing noise.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// Tracef logs an informational trace line (cache hit/miss, stall and
// flush cycles, memory state transitions). It never panics.
func Tracef(format string, args ...any) {
	Logger.Printf(format, args...)
}
