// logger/logger.go
package logger

import (
	"errors"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel mirrors zapcore.Level values so the two convert without a table.
type LogLevel int

const (
	LogLevelDebug  LogLevel = -1
	LogLevelInfo   LogLevel = 0
	LogLevelWarn   LogLevel = 1
	LogLevelError  LogLevel = 2
	LogLevelDPanic LogLevel = 3
	LogLevelPanic  LogLevel = 4
	LogLevelFatal  LogLevel = 5
	// LogLevelNone disables every level.
	LogLevelNone LogLevel = 6
)

// levelNames are the configuration spellings of each level.
var levelNames = map[string]LogLevel{
	"LogLevelDebug":  LogLevelDebug,
	"LogLevelInfo":   LogLevelInfo,
	"LogLevelWarn":   LogLevelWarn,
	"LogLevelError":  LogLevelError,
	"LogLevelDPanic": LogLevelDPanic,
	"LogLevelPanic":  LogLevelPanic,
	"LogLevelFatal":  LogLevelFatal,
}

// ParseLogLevelFromString converts a configured level name such as "LogLevelInfo".
// Unknown names yield LogLevelNone.
func ParseLogLevelFromString(levelStr string) LogLevel {
	if level, ok := levelNames[levelStr]; ok {
		return level
	}
	return LogLevelNone
}

// IsValidLogLevel reports whether levelStr names a level.
func IsValidLogLevel(levelStr string) bool {
	_, ok := levelNames[levelStr]
	return ok
}

// Logger interface with structured logging capabilities at various levels.
// Panic and Fatal are deliberately absent: nothing in the client may terminate the caller.
type Logger interface {
	SetLevel(level LogLevel)
	Debug(msg string, fields ...zapcore.Field)
	Info(msg string, fields ...zapcore.Field)
	Warn(msg string, fields ...zapcore.Field)
	Error(msg string, fields ...zapcore.Field) error
	With(fields ...zapcore.Field) Logger
	GetLogLevel() LogLevel
}

// defaultLogger gates on logLevel before handing entries to zap, so SetLevel
// takes effect without rebuilding the core.
type defaultLogger struct {
	logger   *zap.Logger
	logLevel LogLevel
}

// NewZapLogger wraps an existing zap logger. It is mostly useful in tests
// together with zaptest/observer.
func NewZapLogger(z *zap.Logger, level LogLevel) Logger {
	return &defaultLogger{logger: z, logLevel: level}
}

func (d *defaultLogger) SetLevel(level LogLevel) {
	d.logLevel = level
}

func (d *defaultLogger) Debug(msg string, fields ...zapcore.Field) {
	if d.logLevel <= LogLevelDebug {
		d.logger.Debug(msg, fields...)
	}
}

func (d *defaultLogger) Info(msg string, fields ...zapcore.Field) {
	if d.logLevel <= LogLevelInfo {
		d.logger.Info(msg, fields...)
	}
}

func (d *defaultLogger) Warn(msg string, fields ...zapcore.Field) {
	if d.logLevel <= LogLevelWarn {
		d.logger.Warn(msg, fields...)
	}
}

// Error logs a message at the Error level and returns it as an error so call
// sites can write `return nil, log.Error(...)`.
func (d *defaultLogger) Error(msg string, fields ...zapcore.Field) error {
	if d.logLevel <= LogLevelError {
		d.logger.Error(msg, fields...)
	}
	return errors.New(msg)
}

// With returns a child logger carrying fields at the same level.
func (d *defaultLogger) With(fields ...zapcore.Field) Logger {
	return &defaultLogger{
		logger:   d.logger.With(fields...),
		logLevel: d.logLevel,
	}
}

func (d *defaultLogger) GetLogLevel() LogLevel {
	return d.logLevel
}
