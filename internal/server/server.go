// Package server exposes the render pipeline over HTTP.
//
// Endpoints accept a small JSON body and return the rendered card as
// image/png:
//
//	POST /v1/render/profile  {"id": "...", "refresh": false}
//	POST /v1/render/roster   {"parent_id": "...", "refresh": false}
//	POST /v1/render/notice   {"id": "...", "parent_id": "..."}
//	GET  /healthz
//
// Every request carries an X-Request-ID (client-supplied or generated) that
// is echoed back and attached to all log lines for the request.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	apperrors "github.com/matzehuels/statuscard/pkg/errors"
	"github.com/matzehuels/statuscard/pkg/pipeline"
)

// Server wires the pipeline runner into an HTTP router.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around runner. A nil logger falls back to
// log.Default().
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/render", func(r chi.Router) {
		r.Post("/profile", s.handleProfile)
		r.Post("/roster", s.handleRoster)
		r.Post("/notice", s.handleNotice)
	})
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully with a 10 second drain window.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const requestIDKey ctxKey = 0

// requestID assigns each request a UUID unless the client supplied one.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.requestLogger(r).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// requestLogger returns the server logger tagged with the request ID.
func (s *Server) requestLogger(r *http.Request) *log.Logger {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return s.logger.With("request_id", id)
	}
	return s.logger
}

// =============================================================================
// Handlers
// =============================================================================

type profileRequest struct {
	ID      string `json:"id"`
	Refresh bool   `json:"refresh"`
}

type rosterRequest struct {
	ParentID string `json:"parent_id"`
	Refresh  bool   `json:"refresh"`
}

type noticeRequest struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}
	res, err := s.runner.RenderProfile(r.Context(), pipeline.ProfileOptions{
		ID:      req.ID,
		Refresh: req.Refresh,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePNG(w, res)
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	var req rosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}
	res, err := s.runner.RenderRoster(r.Context(), pipeline.RosterOptions{
		ParentID: req.ParentID,
		Refresh:  req.Refresh,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePNG(w, res)
}

func (s *Server) handleNotice(w http.ResponseWriter, r *http.Request) {
	var req noticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}
	res, err := s.runner.RenderNotice(r.Context(), pipeline.NoticeOptions{
		ID:       req.ID,
		ParentID: req.ParentID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePNG(w, res)
}

// =============================================================================
// Responses
// =============================================================================

func (s *Server) writePNG(w http.ResponseWriter, res *pipeline.Result) {
	w.Header().Set("Content-Type", "image/png")
	if res.CacheHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PNG)
}

// writeError maps the application error code to an HTTP status and returns
// a JSON body with the safe user message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidSteamID:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeNetwork, apperrors.ErrCodeTimeout:
		status = http.StatusBadGateway
	}
	if status >= 500 {
		s.requestLogger(r).Error("render failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": apperrors.UserMessage(err),
		"code":  string(apperrors.GetCode(err)),
	})
}
