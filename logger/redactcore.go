// logger/redactcore.go
package logger

import (
	"github.com/deploymenttheory/go-api-token-client/headers/redact"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// redactingCore masks credential-bearing fields before they are encoded.
type redactingCore struct {
	zapcore.Core
	keys redact.Set
}

// With redacts context fields once, at the point they are attached.
func (c *redactingCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactingCore{Core: c.Core.With(c.redact(fields)), keys: c.keys}
}

// Check must register this core rather than the wrapped one, otherwise Write
// would be bypassed.
func (c *redactingCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *redactingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(entry, c.redact(fields))
}

func (c *redactingCore) redact(fields []zapcore.Field) []zapcore.Field {
	var out []zapcore.Field
	for i, f := range fields {
		if !c.keys.Contains(f.Key) {
			continue
		}
		if out == nil {
			out = make([]zapcore.Field, len(fields))
			copy(out, fields)
		}
		out[i] = zap.String(f.Key, redact.Redacted)
	}
	if out == nil {
		return fields
	}
	return out
}
