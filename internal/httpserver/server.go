package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mhutchins/feedboard/internal/config"
	"github.com/mhutchins/feedboard/internal/domain"
)

// TokenVerifier turns a bearer token into a user ID or fails.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Server is the HTTP server exposing the feed, auth, image, and event
// subscription endpoints.
type Server struct {
	cfg        *config.Config
	feed       *domain.FeedService
	auth       *domain.AuthService
	verifier   TokenVerifier
	images     domain.ImageStore
	logger     *slog.Logger
	httpServer *http.Server
}

// NewServer creates a new HTTP server with the given services. subscribe is
// the websocket subscription handler for the notification channel.
func NewServer(
	cfg *config.Config,
	feed *domain.FeedService,
	auth *domain.AuthService,
	verifier TokenVerifier,
	images domain.ImageStore,
	subscribe http.HandlerFunc,
	logger *slog.Logger,
) *Server {
	s := &Server{
		cfg:      cfg,
		feed:     feed,
		auth:     auth,
		verifier: verifier,
		images:   images,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /feed/posts", s.requireAuth(s.handleListPosts))
	mux.Handle("POST /feed/post", s.requireAuth(s.handleCreatePost))
	mux.Handle("GET /feed/post/{postId}", s.requireAuth(s.handleGetPost))
	mux.Handle("PUT /feed/post/{postId}", s.requireAuth(s.handleUpdatePost))
	mux.Handle("DELETE /feed/post/{postId}", s.requireAuth(s.handleDeletePost))
	mux.HandleFunc("PUT /auth/signup", s.handleSignup)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.Handle("GET /"+cfg.ImageDir+"/", http.StripPrefix("/"+cfg.ImageDir+"/",
		http.FileServer(http.Dir(cfg.ImageDir))))
	mux.HandleFunc("GET /ws", subscribe)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      withLogging(logger, withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for HTTP requests. It blocks until the server is
// shut down or an error occurs.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorResponse is the failure body: a message plus, for validation
// failures, the offending fields.
type errorResponse struct {
	Message string              `json:"message"`
	Data    []domain.FieldError `json:"data,omitempty"`
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Faults are
// logged in full but answered with a generic message.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.Fault("internal server error", err)
	}

	var status int
	switch de.Kind {
	case domain.KindUnauthenticated:
		status = http.StatusUnauthorized
	case domain.KindForbidden:
		status = http.StatusForbidden
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindValidation:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
	}

	resp := errorResponse{Message: de.Message, Data: de.Fields}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		resp.Message = "internal server error"
		resp.Data = nil
	}

	writeJSON(w, status, resp)
}
