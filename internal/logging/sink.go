// Package logging carries parser diagnostics to zerolog.
//
// Parsers never log to a global directly: they report through a Sink, a
// severity plus a message. The scanner tees the sink so that warnings end up
// both in the configured logger and in Metadata.Warnings.
package logging

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Sink receives parser diagnostics.
type Sink interface {
	Log(level zerolog.Level, msg string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(level zerolog.Level, msg string)

// Log calls f(level, msg).
func (f SinkFunc) Log(level zerolog.Level, msg string) { f(level, msg) }

type nopSink struct{}

func (nopSink) Log(zerolog.Level, string) {}

// Nop returns a sink that discards everything.
func Nop() Sink { return nopSink{} }

type zerologSink struct {
	logger zerolog.Logger
}

func (s zerologSink) Log(level zerolog.Level, msg string) {
	s.logger.WithLevel(level).Msg(msg)
}

// Zerolog returns a sink writing to logger.
func Zerolog(logger zerolog.Logger) Sink {
	return zerologSink{logger: logger}
}

// Default returns a sink writing to the global zerolog logger.
func Default() Sink {
	return SinkFunc(func(level zerolog.Level, msg string) {
		log.Logger.WithLevel(level).Msg(msg)
	})
}

// With returns a sink that tags every message with a component field.
func With(logger zerolog.Logger, component string) Sink {
	return Zerolog(logger.With().Str("component", component).Logger())
}

// Tee fans out to every non-nil sink.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(level zerolog.Level, msg string) {
		for _, s := range sinks {
			if s != nil {
				s.Log(level, msg)
			}
		}
	})
}

// Logf formats and sends a message to s. A nil sink is ignored.
func Logf(s Sink, level zerolog.Level, format string, args ...any) {
	if s == nil {
		return
	}
	s.Log(level, fmt.Sprintf(format, args...))
}

// Entry is one recorded diagnostic.
type Entry struct {
	Level   zerolog.Level
	Message string
}

// Recorder is a Sink that keeps every entry. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Log records the entry.
func (r *Recorder) Log(level zerolog.Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg})
}

// Entries returns a copy of the entries at or above min.
func (r *Recorder) Entries(min zerolog.Level) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Entry
	for _, e := range r.entries {
		if e.Level >= min {
			out = append(out, e)
		}
	}
	return out
}
