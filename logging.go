package phys2d

// logging.go: ambient structured-ish logging, grounded verbatim on
// Gekko3D-gekko's logging.go (Logger interface, DefaultLogger wrapping
// stdlib log.Logger, NopLogger for embedders who want silence).

import (
	"log"
	"os"
)

// Logger is the ambient logging surface of a World. The World writes to it
// only when a step fails: the error (for example a NaN/Inf detection) is
// logged at Error level. Nothing else in the engine logs through it.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger wraps the stdlib logger with leveled, prefixed output and
// a debug on/off switch, matching Gekko3D-gekko's DefaultLogger shape.
type DefaultLogger struct {
	prefix string
	debug  bool
	out    *log.Logger
	err    *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return &DefaultLogger{
		prefix: prefix,
		debug:  debug,
		out:    log.New(os.Stdout, "", log.LstdFlags),
		err:    log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *DefaultLogger) SetDebug(enabled bool) { l.debug = enabled }
func (l *DefaultLogger) DebugEnabled() bool    { return l.debug }

func (l *DefaultLogger) prefixf(level, format string) string {
	return "[" + l.prefix + "] " + level + ": " + format
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.debug {
		return
	}
	l.out.Printf(l.prefixf("DEBUG", format), args...)
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Printf(l.prefixf("INFO", format), args...)
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.out.Printf(l.prefixf("WARN", format), args...)
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Printf(l.prefixf("ERROR", format), args...)
}

// nopLogger discards everything; this is the World default so embedding
// the engine is silent unless a Logger is explicitly configured.
type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }

func (*nopLogger) Debugf(string, ...any) {}
func (*nopLogger) Infof(string, ...any)  {}
func (*nopLogger) Warnf(string, ...any)  {}
func (*nopLogger) Errorf(string, ...any) {}
