// Package server provides the HTTP REST API of the job tracking dashboard.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/jobtrack/internal/db"
	"github.com/jonathan/jobtrack/internal/scoring"
	"github.com/jonathan/jobtrack/internal/server/middleware"
	"github.com/jonathan/jobtrack/internal/server/ratelimit"
	"github.com/jonathan/jobtrack/internal/tailoring"
	"github.com/jonathan/jobtrack/internal/types"
)

// DefaultRequestTimeout bounds one tailoring or scoring request.
const DefaultRequestTimeout = 90 * time.Second

// maxBodyBytes caps request bodies; job descriptions and resumes are text.
const maxBodyBytes = 1 << 20

// Tailorer rewrites a resume for a job description.
type Tailorer interface {
	Tailor(ctx context.Context, jobDescription string, facts types.CandidateFacts) (*tailoring.Response, error)
}

// Scorer rates how well a candidate fits a job description.
type Scorer interface {
	Score(ctx context.Context, jobDescription string, facts types.CandidateFacts) (scoring.Result, error)
}

// Config holds server configuration
type Config struct {
	Port            int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Deps are the collaborators behind the HTTP handlers.
type Deps struct {
	Tailor  Tailorer
	Scorer  Scorer
	Store   db.Store
	Auth    middleware.TokenValidator
	Limiter *ratelimit.Limiter
	Logger  *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	cfg        Config

	tailor  Tailorer
	scorer  Scorer
	store   db.Store
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

// New creates a server. A nil Limiter disables rate limiting.
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Tailor == nil || deps.Scorer == nil || deps.Store == nil || deps.Auth == nil {
		return nil, fmt.Errorf("server requires tailoring, scoring, storage and auth dependencies")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:     cfg,
		tailor:  deps.Tailor,
		scorer:  deps.Scorer,
		store:   deps.Store,
		limiter: deps.Limiter,
		logger:  logger,
	}

	auth := middleware.AuthMiddleware(deps.Auth)
	protect := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.Handle("POST /api/tailor-resume", protect(s.handleTailorResume))
	mux.Handle("POST /api/match-score", protect(s.handleMatchScore))
	mux.Handle("POST /api/keyword-match", protect(s.handleKeywordMatch))

	mux.Handle("GET /api/applications", protect(s.handleListApplications))
	mux.Handle("GET /api/applications/stats", protect(s.handleApplicationStats))
	mux.Handle("PUT /api/applications/{job_id}", protect(s.handleUpsertApplication))
	mux.Handle("DELETE /api/applications/{job_id}", protect(s.handleDeleteApplication))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if s.limiter != nil {
		s.limiter.Stop()
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers for the browser dashboard.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		allowed, info := s.limiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", s.extractClientID(r)),
		}
		if rec.status >= http.StatusInternalServerError {
			s.logger.Warn("request failed", fields...)
			return
		}
		s.logger.Info("request", fields...)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Debug("encoding JSON response", zap.Error(err))
	}
}

// resultResponse writes the {"result": ...} success envelope.
func (s *Server) resultResponse(w http.ResponseWriter, result any) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"result": result})
}

// errorResponse writes err with the status HTTPStatus assigns to it.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("request error", zap.Int("status", status), zap.Error(err))
	}
	s.jsonResponse(w, status, errorBody(err))
}

// decodeJSON reads a bounded JSON body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrValidation{Message: "request body too large"}
		}
		return &ErrValidation{Message: "invalid request body"}
	}
	return nil
}

// userID returns the authenticated caller.
func (s *Server) userID(r *http.Request) (uuid.UUID, error) {
	id, err := middleware.GetUserID(r)
	if err != nil {
		return uuid.Nil, &ErrUnauthorized{Reason: err.Error()}
	}
	return id, nil
}

// extractClientID identifies the caller for rate limiting by remote IP.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"details":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.UTC().Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int((info.RetryAfter + time.Second - 1) / time.Second)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Info("rate limit exceeded",
		zap.String("client", s.extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
