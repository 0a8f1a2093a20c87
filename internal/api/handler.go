// Package api serves the shopping assistant over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/upl-merch/assistant/internal/agent"
	"github.com/upl-merch/assistant/internal/agent/graph"
	errx "github.com/upl-merch/assistant/internal/core/error"
	logx "github.com/upl-merch/assistant/pkg/logger"
)

const maxBodyBytes = 64 << 10

// AgentFactory builds a fresh agent for one request.
type AgentFactory interface {
	New(ctx context.Context, opts agent.Options) (graph.Runner, error)
}

// ConversationClearer drops a stored conversation by its owner-scoped key.
type ConversationClearer interface {
	Clear(ctx context.Context, conversationID string) error
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	agents        AgentFactory
	conversations ConversationClearer
	health        []Pinger
}

// NewHandler creates a Handler. Every pinger must succeed for /health to
// report ok.
func NewHandler(agents AgentFactory, conversations ConversationClearer, health ...Pinger) *Handler {
	return &Handler{agents: agents, conversations: conversations, health: health}
}

// NewRouter wires middleware and routes.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(identityMiddleware)

	r.Get("/health", h.Health)
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers the assistant routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/welcome", h.GetWelcome)
		r.Post("/welcome/click", h.ClickSuggestion)
		r.Post("/chat", h.Chat)
		r.Get("/filters", h.GetFilters)
		r.Delete("/conversations/{id}", h.ClearConversation)
	})
}

// Health checks every configured dependency.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	for _, p := range h.health {
		if err := p.Ping(r.Context()); err != nil {
			logx.Error().Err(err).Msg("Health check failed")
			Error(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("Failed to encode response")
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// writeErr maps err to a status and a message safe to show clients.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errx.StatusOf(err)
	ev := logx.Warn()
	if status >= http.StatusInternalServerError {
		ev = logx.Error()
	}
	ev.Err(err).
		Str("request_id", chiMiddleware.GetReqID(r.Context())).
		Int("status", status).
		Msg("Request failed")
	Error(w, status, message)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errx.BadRequest(err)
	}
	return nil
}
