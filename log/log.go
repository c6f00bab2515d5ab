// Package log defines the logger abstraction the core depends on. The
// core never imports a concrete logging library directly; it accepts a
// Logger and contextualizes it the way the teacher's Processor does
// ("component", "engine.svm", etc.) before passing it down the call
// chain.
package log

// Event is a single structured log entry being built up before Msg/Msgf
// flushes it. It mirrors zerolog's chained-builder shape so the default
// adapter can wrap zerolog.Event almost directly.
type Event interface {
	Str(key, value string) Event
	Int(key string, value int) Event
	Int64(key string, value int64) Event
	Uint64(key string, value uint64) Event
	Err(err error) Event
	Bool(key string, value bool) Event
	Msg(msg string)
	Msgf(format string, args ...interface{})
}

// Logger is the abstraction every bridge SDK component depends on.
type Logger interface {
	Debug() Event
	Info() Event
	Warn() Event
	Error() Event
	// With returns a child logger with component/field context attached.
	With(key, value string) Logger
}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug() Event          { return nopEvent{} }
func (nopLogger) Info() Event           { return nopEvent{} }
func (nopLogger) Warn() Event           { return nopEvent{} }
func (nopLogger) Error() Event          { return nopEvent{} }
func (nopLogger) With(string, string) Logger { return nopLogger{} }

type nopEvent struct{}

func (nopEvent) Str(string, string) Event      { return nopEvent{} }
func (nopEvent) Int(string, int) Event         { return nopEvent{} }
func (nopEvent) Int64(string, int64) Event     { return nopEvent{} }
func (nopEvent) Uint64(string, uint64) Event    { return nopEvent{} }
func (nopEvent) Err(error) Event                { return nopEvent{} }
func (nopEvent) Bool(string, bool) Event        { return nopEvent{} }
func (nopEvent) Msg(string)                     {}
func (nopEvent) Msgf(string, ...interface{})    {}
