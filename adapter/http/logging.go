package http

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"http-logging/application/capture"
	"http-logging/application/correlation"
	"http-logging/application/usecase"
	"http-logging/domain/entity"
	"http-logging/domain/port"
)

// LoggingMiddleware captures request and response bodies and emits one record
// per request once the handler has finished.
type LoggingMiddleware struct {
	exchanges *usecase.ExchangeLogger
	props     entity.LoggingProperties
	logger    port.Logger
}

func NewLoggingMiddleware(exchanges *usecase.ExchangeLogger, logger port.Logger) *LoggingMiddleware {
	if logger == nil {
		logger = &port.NopLogger{}
	}
	return &LoggingMiddleware{
		exchanges: exchanges,
		props:     exchanges.Properties(),
		logger:    logger,
	}
}

// Excluded reports whether path matches one of the excluded patterns.
func (lm *LoggingMiddleware) Excluded(path string) bool {
	for _, pattern := range lm.props.ExcludedPaths {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

func (lm *LoggingMiddleware) skip(r *http.Request) bool {
	return !lm.props.Enabled || !lm.props.HTTPFilterEnabled || lm.Excluded(r.URL.Path) || isStreaming(r)
}

func (lm *LoggingMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if lm.skip(r) {
			next.ServeHTTP(w, r)
			return
		}
		rw, owned := capture.Response(w)
		if !owned {
			// 外层已经在记录这个请求
			next.ServeHTTP(w, r)
			return
		}

		cycle := lm.exchanges.Begin()
		start := time.Now()
		scope := correlation.FromContext(r.Context())
		if scope != nil {
			start = scope.Started()
		}
		reqID := scope.ID()

		reqBody, err := capture.Request(r)
		if err != nil {
			lm.logger.Warn("读取请求体失败", port.RequestID(reqID), port.Error(err))
		}
		if scope != nil {
			scope.SetRequestBody(reqBody)
		}

		ex := &entity.Exchange{
			RequestID:     reqID,
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			RequestHeader: r.Header.Clone(),
			RequestBody:   reqBody,
		}
		_ = cycle.Advance(entity.PhaseHandlerRunning)

		defer func() {
			rec := recover()
			ex.Duration = time.Since(start)
			ex.Status = rw.Status()
			ex.ResponseHeader = rw.ResponseHeader()
			ex.ResponseBody = rw.Captured()
			if rec != nil {
				ex.Failure = rec
				ex.Stack = debug.Stack()
				lm.logger.Error("处理请求时发生 panic",
					port.RequestID(reqID),
					port.Method(ex.Method),
					port.Path(ex.Path),
				)
			}

			switch {
			case rec == nil && r.Context().Err() != nil:
				lm.logger.Debug("请求已取消，跳过日志", port.RequestID(reqID), port.Path(ex.Path))
			case rw.Hijacked():
			default:
				if err := lm.exchanges.Complete(r.Context(), cycle, ex); err != nil {
					lm.logger.Warn("输出请求日志失败", port.RequestID(reqID), port.Error(err))
				}
			}

			if rec == nil || rw.Written() {
				if err := rw.CopyBodyToResponse(); err != nil {
					lm.logger.Debug("写回响应失败", port.RequestID(reqID), port.Error(err))
				}
			}
			if rec != nil {
				panic(rec)
			}
		}()

		next.ServeHTTP(rw, r)
	})
}

// isStreaming reports connection upgrades and server-sent event streams, which
// must reach the client unbuffered.
func isStreaming(r *http.Request) bool {
	if r.Header.Get("Upgrade") != "" {
		return true
	}
	for _, v := range r.Header.Values("Connection") {
		if strings.Contains(strings.ToLower(v), "upgrade") {
			return true
		}
	}
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "text/event-stream")
}
