package http

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"http-logging/application/correlation"
	domainerror "http-logging/domain/error"
	"http-logging/domain/port"
)

type RecoveryMiddleware struct {
	logger     port.Logger
	headerName string
}

// NewRecoveryMiddleware creates the outermost panic guard. headerName is the
// correlation header used to label the log entry and the error response.
func NewRecoveryMiddleware(logger port.Logger, headerName string) *RecoveryMiddleware {
	if headerName == "" {
		headerName = "X-Request-Id"
	}
	return &RecoveryMiddleware{logger: logger, headerName: headerName}
}

func (rm *RecoveryMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := &trackingWriter{ResponseWriter: w}
		// 关联 ID 在内层生成，这里从响应头读取
		reqID := func() string {
			if id := correlation.IDFromContext(r.Context()); id != "" {
				return id
			}
			if id := w.Header().Get(rm.headerName); id != "" {
				return id
			}
			return "unknown"
		}
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				stack := debug.Stack()
				stackStr := string(stack)
				if len(stackStr) > 500 {
					stackStr = stackStr[:500] + "..."
				}

				rm.logger.Error("Panic recovered",
					port.RequestID(reqID()),
					port.String("error", fmt.Sprintf("%v", err)),
					port.String("stack", stackStr),
				)

				if !tw.written {
					domainerror.WriteError(w, domainerror.NewInternal("Internal Server Error", nil).WithRequestID(reqID()))
				}
			}
		}()
		next.ServeHTTP(tw, r)
	})
}

// trackingWriter records whether anything reached the client.
type trackingWriter struct {
	http.ResponseWriter
	written bool
}

func (tw *trackingWriter) WriteHeader(code int) {
	tw.written = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *trackingWriter) Write(p []byte) (int, error) {
	tw.written = true
	return tw.ResponseWriter.Write(p)
}

func (tw *trackingWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}

// Chain wraps h with middlewares; the first one is the outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
