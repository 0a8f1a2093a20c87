package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/upl-merch/assistant/internal/agent"
	"github.com/upl-merch/assistant/internal/agent/graph/conversations"
	"github.com/upl-merch/assistant/internal/agent/model"
	errx "github.com/upl-merch/assistant/internal/core/error"
)

// ChatRequest is one user turn. An empty ConversationID starts a new
// conversation.
type ChatRequest struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

func (req *ChatRequest) normalize() error {
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return errx.BadRequest(fmt.Errorf("text is required"))
	}
	req.ConversationID = strings.TrimSpace(req.ConversationID)
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}
	return nil
}

// Chat runs one agent turn.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	if err := req.normalize(); err != nil {
		writeErr(w, r, err)
		return
	}

	reply, err := h.ask(r.Context(), UserIDFromContext(r.Context()), req.ConversationID, req.Text)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	JSON(w, http.StatusOK, reply)
}

// ClearConversation drops a conversation's history.
func (h *Handler) ClearConversation(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		Error(w, http.StatusBadRequest, errx.BadRequestMessage)
		return
	}
	key := conversations.Key(UserIDFromContext(r.Context()), id)
	if err := h.conversations.Clear(r.Context(), key); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ask(ctx context.Context, userID, conversationID, text string) (*model.Reply, error) {
	runner, err := h.agents.New(ctx, agent.Options{UserID: userID})
	if err != nil {
		return nil, err
	}
	return runner.Invoke(ctx, model.QueryInput{ConversationID: conversationID, Query: text})
}
