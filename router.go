package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	httpadapter "http-logging/adapter/http"
	"http-logging/application/correlation"
	"http-logging/application/usecase"
	"http-logging/domain/entity"
	domainerror "http-logging/domain/error"
	"http-logging/domain/port"
)

// newRouter 组装示例服务：Recovery -> Correlation -> Logging -> handler
func newRouter(props entity.LoggingProperties, sink port.Sink, logger port.Logger) http.Handler {
	exchanges := usecase.NewExchangeLogger(props, sink, logger)
	monitor := usecase.NewMonitor(props, sink, logger)
	manager := correlation.NewManager(props.CorrelationHeaderName, props.MDCKey)

	api := &demoAPI{
		users:     newUserStore(),
		monitor:   monitor,
		presenter: httpadapter.NewErrorPresenter(logger),
	}

	r := chi.NewRouter()
	r.Use(
		httpadapter.NewRecoveryMiddleware(logger, manager.HeaderName()).Middleware,
		httpadapter.NewCorrelationMiddleware(manager).Middleware,
		httpadapter.NewLoggingMiddleware(exchanges, logger).Middleware,
	)

	r.Method(http.MethodGet, "/health", httpadapter.NewHealthHandler(props, logger))
	r.Route("/api", func(r chi.Router) {
		r.Get("/users/{id}", api.getUser)
		r.Post("/users", api.createUser)
		r.Post("/login", api.login)
		r.Post("/upload", api.upload)
		r.Get("/panic", api.boom)
	})

	return r
}

type user struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

type userStore struct {
	mu    sync.RWMutex
	users map[string]user
}

func newUserStore() *userStore {
	return &userStore{users: map[string]user{
		"42": {ID: "42", Name: "Ada", Email: "ada@example.com"},
	}}
}

func (s *userStore) find(_ context.Context, id string) (user, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user{}, domainerror.NewNotFound("user %s not found", id)
	}
	return u, nil
}

func (s *userStore) create(_ context.Context, u user) (user, error) {
	if u.ID == "" || u.Name == "" {
		return user{}, domainerror.NewBadRequest("id and name are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.ID]; exists {
		return user{}, domainerror.New(domainerror.CodeConflict, "user "+u.ID+" already exists")
	}
	u.Password = ""
	s.users[u.ID] = u
	return u, nil
}

type demoAPI struct {
	users     *userStore
	monitor   *usecase.Monitor
	presenter *httpadapter.ErrorPresenter
}

func (a *demoAPI) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	call := usecase.Call{Class: "UserService", Method: "Find", Args: []any{id}, Flags: entity.DefaultMonitorFlags()}

	u, err := usecase.Observe(r.Context(), a.monitor, call, func(ctx context.Context) (user, error) {
		return a.users.find(ctx, id)
	})
	if err != nil {
		a.presenter.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *demoAPI) createUser(w http.ResponseWriter, r *http.Request) {
	var in user
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		a.presenter.WriteError(w, r, domainerror.Wrap(err, domainerror.CodeBadRequest, "invalid JSON body"))
		return
	}

	call := usecase.Call{Class: "UserController", Method: "Create", Args: []any{in}, Flags: entity.DefaultMonitorFlags()}
	env, err := usecase.Observe(r.Context(), a.monitor, call, func(ctx context.Context) (*entity.ResponseEnvelope, error) {
		created, err := a.users.create(ctx, in)
		if err != nil {
			return nil, err
		}
		env := entity.NewResponseEnvelope(http.StatusCreated, created)
		env.Header.Set("Location", "/api/users/"+created.ID)
		return env, nil
	})
	if err != nil {
		a.presenter.WriteError(w, r, err)
		return
	}
	writeEnvelope(w, env)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *demoAPI) login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		a.presenter.WriteError(w, r, domainerror.Wrap(err, domainerror.CodeBadRequest, "invalid JSON body"))
		return
	}

	call := usecase.Call{Class: "AuthService", Method: "Login", Args: []any{in}, Flags: entity.DefaultMonitorFlags()}
	token, err := usecase.Observe(r.Context(), a.monitor, call, func(ctx context.Context) (map[string]any, error) {
		if in.Username == "" || in.Password == "" {
			return nil, domainerror.NewUnauthorized("invalid credentials")
		}
		return map[string]any{"token": correlation.NewID(), "user": in.Username}, nil
	})
	if err != nil {
		a.presenter.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

func (a *demoAPI) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		a.presenter.WriteError(w, r, domainerror.Wrap(err, domainerror.CodeBadRequest, "invalid multipart body"))
		return
	}
	files := 0
	for _, fhs := range r.MultipartForm.File {
		files += len(fhs)
	}
	writeJSON(w, http.StatusOK, map[string]int{"files": files})
}

func (a *demoAPI) boom(w http.ResponseWriter, r *http.Request) {
	panic("demo panic")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeEnvelope(w http.ResponseWriter, env *entity.ResponseEnvelope) {
	for k, vs := range env.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	writeJSON(w, env.Status, env.Body)
}
