package logging

import (
	"time"

	"go.uber.org/zap"

	"http-logging/domain/port"
)

// ZapLoggerAdapter adapts zap.Logger to the port.Logger interface.
type ZapLoggerAdapter struct {
	logger *zap.Logger
}

// NewZapLoggerAdapter creates a new ZapLoggerAdapter.
func NewZapLoggerAdapter(logger *zap.Logger) *ZapLoggerAdapter {
	return &ZapLoggerAdapter{
		logger: logger.WithOptions(zap.AddCallerSkip(1)),
	}
}

func (z *ZapLoggerAdapter) Debug(msg string, fields ...port.Field) {
	z.logger.Debug(msg, toZapFields(fields)...)
}

func (z *ZapLoggerAdapter) Info(msg string, fields ...port.Field) {
	z.logger.Info(msg, toZapFields(fields)...)
}

func (z *ZapLoggerAdapter) Warn(msg string, fields ...port.Field) {
	z.logger.Warn(msg, toZapFields(fields)...)
}

func (z *ZapLoggerAdapter) Error(msg string, fields ...port.Field) {
	z.logger.Error(msg, toZapFields(fields)...)
}

// With returns a new logger with the given fields.
func (z *ZapLoggerAdapter) With(fields ...port.Field) port.Logger {
	if len(fields) == 0 {
		return z
	}
	return &ZapLoggerAdapter{logger: z.logger.With(toZapFields(fields)...)}
}

// toZapFields converts port.Field values to typed zap fields.
func toZapFields(fields []port.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			out = append(out, zap.String(f.Key, v))
		case int:
			out = append(out, zap.Int(f.Key, v))
		case int64:
			out = append(out, zap.Int64(f.Key, v))
		case bool:
			out = append(out, zap.Bool(f.Key, v))
		case time.Duration:
			out = append(out, zap.Int64(f.Key, v.Milliseconds()))
		case error:
			if v != nil {
				out = append(out, zap.String(f.Key, v.Error()))
			} else {
				out = append(out, zap.String(f.Key, ""))
			}
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}
	return out
}
