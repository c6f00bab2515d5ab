package log

import "github.com/rs/zerolog"

// NewZerolog adapts a zerolog.Logger into the Logger abstraction. This is
// the default logger the teacher's main() would have wired with
// zerolog.New(os.Stdout).With().Timestamp().Caller().Logger(); embedders
// of this SDK construct that the same way and hand it here.
func NewZerolog(l zerolog.Logger) Logger {
	return zerologLogger{l: l}
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z zerologLogger) Debug() Event { return zerologEvent{e: z.l.Debug()} }
func (z zerologLogger) Info() Event  { return zerologEvent{e: z.l.Info()} }
func (z zerologLogger) Warn() Event  { return zerologEvent{e: z.l.Warn()} }
func (z zerologLogger) Error() Event { return zerologEvent{e: z.l.Error()} }

func (z zerologLogger) With(key, value string) Logger {
	return zerologLogger{l: z.l.With().Str(key, value).Logger()}
}

type zerologEvent struct {
	e *zerolog.Event
}

func (z zerologEvent) Str(key, value string) Event {
	z.e.Str(key, value)
	return z
}

func (z zerologEvent) Int(key string, value int) Event {
	z.e.Int(key, value)
	return z
}

func (z zerologEvent) Int64(key string, value int64) Event {
	z.e.Int64(key, value)
	return z
}

func (z zerologEvent) Uint64(key string, value uint64) Event {
	z.e.Uint64(key, value)
	return z
}

func (z zerologEvent) Err(err error) Event {
	z.e.Err(err)
	return z
}

func (z zerologEvent) Bool(key string, value bool) Event {
	z.e.Bool(key, value)
	return z
}

func (z zerologEvent) Msg(msg string) { z.e.Msg(msg) }

func (z zerologEvent) Msgf(format string, args ...interface{}) { z.e.Msgf(format, args...) }
