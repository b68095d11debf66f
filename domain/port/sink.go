package port

import "context"

// Level is the severity attached to an emitted log record.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Sink receives finished log records. A record is one formatted text block;
// the sink never sees partial records. Implementations must not block for long
// and must not panic.
type Sink interface {
	Emit(ctx context.Context, level Level, text string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, level Level, text string)

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, level Level, text string) {
	f(ctx, level, text)
}

// NopSink discards every record.
type NopSink struct{}

func (NopSink) Emit(context.Context, Level, string) {}
