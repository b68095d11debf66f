package logging

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"http-logging/application/correlation"
	"http-logging/domain/port"
)

// ZapSink writes records to a zap logger. The correlation id of the request in
// ctx is attached under the configured MDC key.
type ZapSink struct {
	logger *zap.Logger
	mdcKey string
}

// NewZapSink creates a sink. An empty mdcKey defaults to "requestId".
func NewZapSink(logger *zap.Logger, mdcKey string) *ZapSink {
	if mdcKey == "" {
		mdcKey = correlation.AttributeRequestID
	}
	return &ZapSink{logger: logger, mdcKey: mdcKey}
}

func (s *ZapSink) Emit(ctx context.Context, level port.Level, text string) {
	var fields []zap.Field
	if id := s.requestID(ctx); id != "" {
		fields = append(fields, zap.String(s.mdcKey, id))
	}
	switch level {
	case port.LevelDebug:
		s.logger.Debug(text, fields...)
	case port.LevelWarn:
		s.logger.Warn(text, fields...)
	case port.LevelError:
		s.logger.Error(text, fields...)
	default:
		s.logger.Info(text, fields...)
	}
}

// requestID 优先读取作用域中以 mdcKey 发布的属性
func (s *ZapSink) requestID(ctx context.Context) string {
	scope := correlation.FromContext(ctx)
	if v, ok := scope.Attribute(s.mdcKey); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	return scope.ID()
}

// ThrottledSink bounds the number of records passed on per second. Records over
// the limit are dropped and counted; the count is reported through the app
// logger with the next record that gets through.
type ThrottledSink struct {
	next    port.Sink
	limiter *rate.Limiter
	logger  port.Logger
	pending atomic.Int64
	dropped atomic.Int64
}

// NewThrottledSink wraps next. perSecond <= 0 disables throttling and returns next.
func NewThrottledSink(next port.Sink, perSecond float64, logger port.Logger) port.Sink {
	if perSecond <= 0 {
		return next
	}
	if logger == nil {
		logger = &port.NopLogger{}
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &ThrottledSink{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  logger,
	}
}

func (s *ThrottledSink) Emit(ctx context.Context, level port.Level, text string) {
	if !s.limiter.Allow() {
		s.pending.Add(1)
		s.dropped.Add(1)
		return
	}
	if n := s.pending.Swap(0); n > 0 {
		s.logger.Warn("日志记录超出速率限制，已丢弃", port.Dropped(n))
	}
	s.next.Emit(ctx, level, text)
}

// Dropped returns the total number of dropped records.
func (s *ThrottledSink) Dropped() int64 {
	return s.dropped.Load()
}
