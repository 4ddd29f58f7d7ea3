// Package httpapi is the JSON-over-HTTP surface of the server: routing,
// request decoding, the authentication guards and error-to-status mapping.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/metrics"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	users      *services.UserService
	tasks      *services.TaskService
	storage    Pinger
	metrics    *metrics.Metrics
	limiter    *ipRateLimiter
	trustProxy bool
	log        logging.Logger

	handler http.Handler
}

func NewServer(
	users *services.UserService,
	tasks *services.TaskService,
	storage Pinger,
	m *metrics.Metrics,
	cfg *config.Config,
	log logging.Logger,
) *Server {
	s := &Server{
		users:      users,
		tasks:      tasks,
		storage:    storage,
		metrics:    m,
		limiter:    newIPRateLimiter(cfg.RateLimitPerMinute),
		trustProxy: cfg.TrustProxyHeaders,
		log:        log.With("module", "http"),
	}

	router := mux.NewRouter()
	s.routes(router)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	s.handler = c.Handler(router)
	return s
}

// ServeHTTP makes Server usable as the handler of an http.Server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes(r *mux.Router) {
	r.Use(s.instrument, s.accessLog)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	public := r.NewRoute().Subrouter()
	public.Use(s.rateLimit)
	public.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	public.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	public.HandleFunc("/forgot-password", s.handleForgotPassword).Methods(http.MethodPost)
	public.HandleFunc("/reset-password/{token}", s.handleResetPassword).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.requireAuthenticated)
	authed.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	authed.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods(http.MethodDelete)

	admin := r.NewRoute().Subrouter()
	admin.Use(s.requireAuthenticated, s.requireAdmin)
	admin.HandleFunc("/register-admin", s.handleRegisterAdmin).Methods(http.MethodPost)
	admin.HandleFunc("/admin/tasks", s.handleListAllTasks).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.Ping(r.Context()); err != nil {
		s.log.Warn(r.Context(), "storage ping failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
