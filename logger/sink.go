// logger/sink.go
package logger

import (
	"errors"

	"go.uber.org/zap/zapcore"
)

// SinkMode selects where one logging channel goes.
type SinkMode int

const (
	// SinkDefault writes through the zap logger built for the client.
	SinkDefault SinkMode = iota
	// SinkSilent drops everything.
	SinkSilent
	// SinkCustom hands every entry to a caller supplied LogFunc.
	SinkCustom
)

// LogFunc receives a message and its structured fields.
type LogFunc func(msg string, fields ...zapcore.Field)

// Sink is the configuration of a single logging channel. The zero value is Default().
type Sink struct {
	mode SinkMode
	fn   LogFunc
}

// Default routes the channel to the client's zap logger.
func Default() Sink { return Sink{mode: SinkDefault} }

// Silent drops the channel.
func Silent() Sink { return Sink{mode: SinkSilent} }

// Custom routes the channel to fn. A nil fn is treated as Silent.
func Custom(fn LogFunc) Sink {
	if fn == nil {
		return Silent()
	}
	return Sink{mode: SinkCustom, fn: fn}
}

// Mode reports the resolved mode.
func (s Sink) Mode() SinkMode { return s.mode }

// routedLogger splits output between an error channel (Warn, Error) and an
// info channel (Debug, Info). Sinks are fixed when the logger is built, and a
// non-default sink replaces the base logger for its whole channel.
type routedLogger struct {
	base      Logger
	errorSink Sink
	infoSink  Sink
	fields    []zapcore.Field
}

// NewRoutedLogger resolves errorSink and infoSink against base once. The
// returned logger never consults the sinks' configuration again.
func NewRoutedLogger(base Logger, errorSink, infoSink Sink) Logger {
	return &routedLogger{base: base, errorSink: errorSink, infoSink: infoSink}
}

func (r *routedLogger) SetLevel(level LogLevel) { r.base.SetLevel(level) }

func (r *routedLogger) GetLogLevel() LogLevel { return r.base.GetLogLevel() }

// Debug follows the info sink. A custom sink only receives it while the base
// logger is at debug level, so the configured level still applies.
func (r *routedLogger) Debug(msg string, fields ...zapcore.Field) {
	switch r.infoSink.mode {
	case SinkDefault:
		r.base.Debug(msg, fields...)
	case SinkCustom:
		if r.base.GetLogLevel() <= LogLevelDebug {
			r.infoSink.fn(msg, r.withContext(fields)...)
		}
	}
}

func (r *routedLogger) Info(msg string, fields ...zapcore.Field) {
	switch r.infoSink.mode {
	case SinkDefault:
		r.base.Info(msg, fields...)
	case SinkCustom:
		r.infoSink.fn(msg, r.withContext(fields)...)
	}
}

func (r *routedLogger) Warn(msg string, fields ...zapcore.Field) {
	switch r.errorSink.mode {
	case SinkDefault:
		r.base.Warn(msg, fields...)
	case SinkCustom:
		r.errorSink.fn(msg, r.withContext(fields)...)
	}
}

func (r *routedLogger) Error(msg string, fields ...zapcore.Field) error {
	switch r.errorSink.mode {
	case SinkDefault:
		return r.base.Error(msg, fields...)
	case SinkCustom:
		r.errorSink.fn(msg, r.withContext(fields)...)
	}
	return errors.New(msg)
}

func (r *routedLogger) With(fields ...zapcore.Field) Logger {
	ctx := make([]zapcore.Field, 0, len(r.fields)+len(fields))
	ctx = append(ctx, r.fields...)
	ctx = append(ctx, fields...)
	return &routedLogger{
		base:      r.base.With(fields...),
		errorSink: r.errorSink,
		infoSink:  r.infoSink,
		fields:    ctx,
	}
}

func (r *routedLogger) withContext(fields []zapcore.Field) []zapcore.Field {
	if len(r.fields) == 0 {
		return fields
	}
	out := make([]zapcore.Field, 0, len(r.fields)+len(fields))
	out = append(out, r.fields...)
	return append(out, fields...)
}
