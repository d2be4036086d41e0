// logger/loggerconfig.go
package logger

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-api-token-client/headers/redact"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogOutputJSON   = "json"
	LogOutputPretty = "pretty"
)

// BuildLogger creates and returns a new zap backed Logger writing to stdout.
// logOutputFormat selects JSON or console encoding. When sensitive is non-nil
// every field whose key is in the set is masked before it reaches the encoder.
func BuildLogger(logLevel LogLevel, logOutputFormat string, sensitive redact.Set) (Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	encoding := "json"
	if logOutputFormat == LogOutputPretty {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoding = "console"
	}

	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(convertToZapLevel(logLevel)),
		Development:       false,
		Encoding:          encoding,
		DisableCaller:     true,
		DisableStacktrace: true,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}

	zl, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	if sensitive != nil {
		zl = zap.New(&redactingCore{Core: zl.Core(), keys: sensitive})
	}

	return &defaultLogger{
		logger:   zl,
		logLevel: logLevel,
	}, nil
}

// NewLogger creates a zap backed Logger writing to w, for callers such as a CLI
// that keep stdout for their own output.
func NewLogger(w io.Writer, logLevel LogLevel, logOutputFormat string, sensitive redact.Set) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if logOutputFormat == LogOutputPretty {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	var core zapcore.Core = zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), convertToZapLevel(logLevel))
	if sensitive != nil {
		core = &redactingCore{Core: core, keys: sensitive}
	}

	return &defaultLogger{
		logger:   zap.New(core),
		logLevel: logLevel,
	}
}

// convertToZapLevel maps LogLevelNone, which zap has no equivalent for, to Fatal.
func convertToZapLevel(level LogLevel) zapcore.Level {
	if level >= LogLevelFatal {
		return zapcore.FatalLevel
	}
	return zapcore.Level(level)
}
