// Package logging provides the narrow logging seam gowire's runtime
// packages depend on. Grounded on cellorg/internal/broker and
// cellorg/internal/client, which log through the standard library's
// *log.Logger gated by a per-component debug flag rather than a
// structured-logging library; gowire follows the same convention (see
// SPEC_FULL.md §A.1 for why no third-party logger was introduced).
package logging

import (
	"io"
	"log"
	"os"
)

// Logger is satisfied by *log.Logger. Runtime components accept this
// instead of the concrete type so tests can substitute a buffer.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Default returns a *log.Logger writing to stderr with the given
// component prefix, matching the "ComponentName: ..." convention the
// teacher uses throughout cellorg.
func Default(component string) *log.Logger {
	return log.New(os.Stderr, component+": ", log.LstdFlags)
}

// Discard is a Logger that drops everything — used when debug is false
// so call sites don't need a nil check before every Printf.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// Pick returns debugLogger when debug is true, else a discarding logger,
// so components can hold one Logger field and call it unconditionally.
func Pick(debug bool, debugLogger *log.Logger, component string) *log.Logger {
	if debug {
		if debugLogger != nil {
			return debugLogger
		}
		return Default(component)
	}
	return Discard()
}
