// Package correlation assigns a correlation id to every inbound request and
// carries it, together with other request-scoped state, in a Scope stored on
// the request context.
package correlation

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"http-logging/domain/entity"
)

// AttributeRequestID is the scope attribute under which the id is also published.
const AttributeRequestID = "requestId"

type scopeKey struct{}

// Scope is the request-scoped ambient state. It is created by Begin, owned by a
// single request and cleared by End.
type Scope struct {
	id      string
	mdcKey  string
	started time.Time
	ended   atomic.Bool

	mu          sync.RWMutex
	attributes  map[string]any
	request     *http.Request
	requestBody *entity.CapturedBody
}

// ID returns the correlation id, or "" once the scope has ended.
func (s *Scope) ID() string {
	if s == nil || s.ended.Load() {
		return ""
	}
	return s.id
}

// MDCKey returns the name under which the id is exposed to log records.
func (s *Scope) MDCKey() string {
	if s == nil {
		return ""
	}
	return s.mdcKey
}

// Started returns when the scope began, or the zero time for a nil scope.
func (s *Scope) Started() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.started
}

// Ended reports whether End has been called.
func (s *Scope) Ended() bool {
	return s != nil && s.ended.Load()
}

// Attribute returns a request-scoped attribute.
func (s *Scope) Attribute(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.attributes[key]
	return v, ok
}

// Request returns the inbound request the scope belongs to, if any.
func (s *Scope) Request() *http.Request {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.request
}

// SetRequestBody records the captured request body so later stages (the
// method monitor) can render it without re-reading the stream.
func (s *Scope) SetRequestBody(body *entity.CapturedBody) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestBody = body
}

// RequestBody returns the captured request body, if any.
func (s *Scope) RequestBody() *entity.CapturedBody {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requestBody
}

// End clears the scope. It is safe to call more than once.
func (s *Scope) End() {
	if s == nil || !s.ended.CompareAndSwap(false, true) {
		return
	}
	s.mu.Lock()
	s.attributes = nil
	s.request = nil
	s.requestBody = nil
	s.mu.Unlock()
}

// Manager begins and ends correlation scopes.
type Manager struct {
	headerName string
	mdcKey     string
	generate   func() string
}

// NewManager creates a Manager that reads and echoes headerName and exposes the
// id to log records under mdcKey.
func NewManager(headerName, mdcKey string) *Manager {
	return &Manager{
		headerName: headerName,
		mdcKey:     mdcKey,
		generate:   NewID,
	}
}

// HeaderName returns the correlation header name.
func (m *Manager) HeaderName() string {
	return m.headerName
}

// Begin adopts inbound verbatim when it is non-blank, otherwise generates a
// fresh id, and returns a context carrying the new Scope.
func (m *Manager) Begin(ctx context.Context, inbound string) (context.Context, *Scope) {
	id := inbound
	if strings.TrimSpace(id) == "" {
		id = m.generate()
	}
	scope := &Scope{
		id:         id,
		mdcKey:     m.mdcKey,
		started:    time.Now(),
		attributes: map[string]any{AttributeRequestID: id, m.mdcKey: id},
	}
	return context.WithValue(ctx, scopeKey{}, scope), scope
}

// BeginRequest begins a scope for r, writes the id to the response header and
// returns r bound to the new context.
func (m *Manager) BeginRequest(w http.ResponseWriter, r *http.Request) (*http.Request, *Scope) {
	ctx, scope := m.Begin(r.Context(), r.Header.Get(m.headerName))
	w.Header().Set(m.headerName, scope.id)
	r = r.WithContext(ctx)
	scope.request = r
	return r, scope
}

// NewID returns a random 32 character hex token.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// FromContext returns the active scope, or nil.
func FromContext(ctx context.Context) *Scope {
	if ctx == nil {
		return nil
	}
	scope, _ := ctx.Value(scopeKey{}).(*Scope)
	return scope
}

// IDFromContext returns the correlation id of the active scope, or "".
func IDFromContext(ctx context.Context) string {
	return FromContext(ctx).ID()
}
