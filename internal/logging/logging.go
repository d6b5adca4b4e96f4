// Package logging sets up the engine's structured logger.
//
// The driver logs the start of a check and a passing verdict at info level,
// and a failing check (before shrinking) and a seed that could not be
// persisted at warn level. Individual invocations are not logged.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Setup creates a zerolog.Logger at the given level ("debug", "info", "warn",
// "error"; defaults to "info" for anything else).
func Setup(level string) zerolog.Logger {
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || l == zerolog.NoLevel {
		l = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05.000"}).
		Level(l).
		With().
		Timestamp().
		Logger()
}

// Default returns the package-level logger at info level. Specs that don't
// care about logging configuration can use this without calling Setup.
func Default() zerolog.Logger {
	return Setup("info")
}

// Nop returns a logger that discards everything, used by tests that don't
// want console noise.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// Logger is the thin key-value wrapper the engine's phase-boundary logging
// uses, so callers can write Info("starting check", "seed", seed) instead
// of building zerolog's fluent event chain by hand at every call site.
type Logger struct {
	zerolog.Logger
}

// Wrap adapts a zerolog.Logger to Logger.
func Wrap(l zerolog.Logger) Logger { return Logger{l} }

func (l Logger) Info(msg string, kv ...any)  { event(l.Logger.Info(), kv).Msg(msg) }
func (l Logger) Warn(msg string, kv ...any)  { event(l.Logger.Warn(), kv).Msg(msg) }
func (l Logger) Error(msg string, kv ...any) { event(l.Logger.Error(), kv).Msg(msg) }
func (l Logger) Debug(msg string, kv ...any) { event(l.Logger.Debug(), kv).Msg(msg) }

func event(e *zerolog.Event, kv []any) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		e = e.Interface(key, kv[i+1])
	}
	return e
}
