// Package http implements the JSON API adapter over the query/command
// handlers. The adapter is deliberately thin: routing, decoding, and the
// error-to-status mapping live here; all semantics live in the application
// layer. Session issuance is external - the gateway injects the
// authenticated user ID per request, so the engine holds no session state.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kudos-hub/kudos-engine/internal/application/command"
	"github.com/kudos-hub/kudos-engine/internal/application/query"
	"github.com/kudos-hub/kudos-engine/internal/domain/shared"
	"github.com/kudos-hub/kudos-engine/pkg/logger"
)

// Config contains HTTP server configuration.
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server hosts the engine's JSON API.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// Handlers bundles the application-layer dependencies of the API.
type Handlers struct {
	GetStats       *query.GetStatsHandler
	GetLeaderboard *query.GetLeaderboardHandler
	GetFeed        *query.GetFeedHandler
	SubmitKudos    *command.SubmitKudosHandler
	ToggleLike     *command.ToggleLikeHandler
}

// NewServer builds the server with all routes and middleware attached.
func NewServer(cfg Config, h Handlers, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("http"))

	api := &api{handlers: h, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", api.health)
	mux.Handle("GET /api/kudos", requireUser(http.HandlerFunc(api.getFeed)))
	mux.Handle("POST /api/kudos", requireUser(http.HandlerFunc(api.submitKudos)))
	mux.Handle("GET /api/kudos/stats", requireUser(http.HandlerFunc(api.getStats)))
	mux.Handle("GET /api/kudos/leaderboard", requireUser(http.HandlerFunc(api.getLeaderboard)))
	mux.Handle("POST /api/kudos/{id}/like", requireUser(http.HandlerFunc(api.toggleLike)))

	handler := chain(mux, recoverPanics(log), logRequests(log), withRequestID)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log,
	}
}

// Start begins serving. Blocks until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.log.Info("http server listening", logger.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case shared.IsNotFound(err):
		status = http.StatusNotFound
	case shared.IsValidation(err), shared.IsDataIntegrity(err):
		status = http.StatusBadRequest
	case shared.IsConflict(err):
		status = http.StatusConflict
	case errors.Is(err, shared.ErrServiceUnavailable):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
