// Package httpapi exposes planning sessions over HTTP. Each session is an
// engine instance kept warm in memory and persisted through the session
// manager after every exchange, so a restarted server resumes mid-wizard.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voyago/itinera"
	"github.com/voyago/itinera/internal/logging"
	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/flow"
	"github.com/voyago/itinera/pkg/observability"
	"github.com/voyago/itinera/pkg/ports"
	"github.com/voyago/itinera/pkg/session"
)

// Server serves the session API.
type Server struct {
	catalog  ports.CatalogSource
	sessions *session.Manager
	metrics  *observability.Metrics
	registry *prometheus.Registry
	logger   *slog.Logger

	mu   sync.Mutex
	live map[string]*itinera.Engine
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer assembles the API over a catalog and a snapshot-backed
// session manager.
func NewServer(catalog ports.CatalogSource, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		catalog:  catalog,
		sessions: sessions,
		registry: prometheus.NewRegistry(),
		logger:   logging.NewNop(),
		live:     make(map[string]*itinera.Engine),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = observability.NewMetrics(s.registry)
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/input", s.handleInput)
		})
	})
	return r
}

type inputRequest struct {
	Text string `json:"text"`
}

type sessionResponse struct {
	SessionID string            `json:"session_id"`
	Step      string            `json:"step"`
	Done      bool              `json:"done"`
	Trip      *domain.TripState `json:"trip"`
	Messages  []domain.Message  `json:"messages"`
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body inputRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	eng, err := s.engine(r, sessionID)
	if err != nil {
		s.fail(w, "session open failed", err)
		return
	}

	if err := eng.Input(r.Context(), body.Text); err != nil {
		s.fail(w, "dispatch failed", err)
		return
	}
	if err := s.sessions.Save(r.Context(), sessionID, eng.Snapshot()); err != nil {
		s.fail(w, "persist failed", err)
		return
	}

	s.respond(w, r, sessionID, eng)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	s.mu.Lock()
	eng, warm := s.live[sessionID]
	s.mu.Unlock()
	if warm {
		s.respond(w, r, sessionID, eng)
		return
	}

	snap, err := s.sessions.Load(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		s.fail(w, "load failed", err)
		return
	}

	writeJSON(w, sessionResponse{
		SessionID: sessionID,
		Step:      snap.Step,
		Done:      snap.Step == flow.StepFinalSummary,
		Trip:      snap.Trip,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	s.mu.Lock()
	if eng, ok := s.live[sessionID]; ok {
		eng.Close()
		delete(s.live, sessionID)
		s.metrics.SessionClosed()
	}
	s.mu.Unlock()

	if err := s.sessions.Delete(r.Context(), sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		s.fail(w, "delete failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		s.fail(w, "list failed", err)
		return
	}
	writeJSON(w, map[string][]string{"sessions": ids})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// engine returns the warm engine for a session, starting one from the
// persisted snapshot (or fresh) when needed.
func (s *Server) engine(r *http.Request, sessionID string) (*itinera.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if eng, ok := s.live[sessionID]; ok {
		return eng, nil
	}

	snap, err := s.sessions.LoadOrStart(r.Context(), sessionID, flow.StepWelcome)
	if err != nil {
		return nil, err
	}

	eng, err := itinera.New(sessionID, s.catalog,
		itinera.WithDirectDelivery(),
		itinera.WithLogger(s.logger),
		itinera.WithLifecycleHooks(s.metrics.Hooks()),
		itinera.WithSnapshot(snap),
	)
	if err != nil {
		return nil, err
	}
	if err := eng.Start(r.Context()); err != nil {
		eng.Close()
		return nil, err
	}

	s.live[sessionID] = eng
	s.metrics.SessionOpened()
	return eng, nil
}

// respond writes the session view. The optional ?after=<seq> query trims
// the message log to entries newer than the client's high-water mark.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, sessionID string, eng *itinera.Engine) {
	after := 0
	if raw := r.URL.Query().Get("after"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			after = n
		}
	}

	msgs := eng.Messages().Messages()
	if after > 0 {
		trimmed := msgs[:0:0]
		for _, m := range msgs {
			if m.Seq > after {
				trimmed = append(trimmed, m)
			}
		}
		msgs = trimmed
	}

	writeJSON(w, sessionResponse{
		SessionID: sessionID,
		Step:      eng.Current(),
		Done:      eng.Done(),
		Trip:      eng.Trip().State(),
		Messages:  msgs,
	})
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "err", err)
	http.Error(w, msg, http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "err", err)
	}
}
