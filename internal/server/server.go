package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/medical-triage/server/internal/agent/model"
	errx "github.com/medical-triage/server/internal/core/error"
	"github.com/medical-triage/server/internal/metrics"
	logx "github.com/medical-triage/server/pkg/logger"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// Conversations is the chat core the transport drives.
type Conversations interface {
	StartSession(ctx context.Context) (sessionID string, welcome string, err error)
	ProcessMessage(ctx context.Context, sessionID, text string) (string, error)
	EndSession(ctx context.Context, sessionID string) error
}

type Server struct {
	conv    Conversations
	metrics *metrics.Metrics
	cfg     model.ServerConfig
}

type startResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type messageRequest struct {
	Message string `json:"message"`
}

type messageResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler wires the chat routes, health check and metrics endpoint.
func NewHandler(conv Conversations, m *metrics.Metrics, cfg model.ServerConfig) http.Handler {
	s := &Server{conv: conv, metrics: m, cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.startSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Post("/messages", s.postMessage)
			r.Get("/stream", s.streamMessage)
			r.Delete("/", s.endSession)
		})
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	id, welcome, err := s.conv.StartSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, startResponse{SessionID: id, Message: welcome})
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var req messageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logx.Warn().Err(err).Str("session_id", id).Msg("Invalid message body")
		writeError(w, errx.New(err, http.StatusBadRequest, "invalid request body"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, errx.New(errors.New("empty message"), http.StatusBadRequest, "message is required"))
		return
	}

	reply, err := s.conv.ProcessMessage(r.Context(), id, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{SessionID: id, Reply: reply})
}

// streamMessage runs the turn, then streams the reply as SSE chunks.
func (s *Server) streamMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	text := r.URL.Query().Get("text")
	if strings.TrimSpace(text) == "" {
		writeError(w, errx.New(errors.New("empty text"), http.StatusBadRequest, "text is required"))
		return
	}

	reply, err := s.conv.ProcessMessage(r.Context(), id, text)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := Stream(r.Context(), w, ChunkText(reply, s.cfg.ChunkSize), s.cfg.ChunkDelay); err != nil {
		logx.Warn().Err(err).Str("session_id", id).Msg("Stream interrupted")
	}
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if err := s.conv.EndSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("Response encode failed")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := errx.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Int("status", status).Msg("Request failed")
	}
	writeJSON(w, status, errorResponse{Error: errx.MessageOf(err)})
}

// requestLogger logs each request through zerolog once it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logx.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("HTTP request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", addr).Msg("HTTP server listening")
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
		logx.Info().Msg("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}
