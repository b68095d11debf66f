package http

import (
	"net/http"

	"http-logging/application/correlation"
)

// CorrelationMiddleware assigns every request a correlation id, echoes it on
// the response and ends the scope when the request finishes, panics included.
type CorrelationMiddleware struct {
	manager *correlation.Manager
}

func NewCorrelationMiddleware(manager *correlation.Manager) *CorrelationMiddleware {
	return &CorrelationMiddleware{manager: manager}
}

func (cm *CorrelationMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, scope := cm.manager.BeginRequest(w, r)
		defer scope.End()
		next.ServeHTTP(w, r)
	})
}
