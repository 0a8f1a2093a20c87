package api

import (
	"errors"
	"net/http"

	"github.com/upl-merch/assistant/internal/agent/model"
	errx "github.com/upl-merch/assistant/internal/core/error"
	"github.com/upl-merch/assistant/internal/welcome"
)

// GetWelcome renders the welcome screen for the caller.
func (h *Handler) GetWelcome(w http.ResponseWriter, r *http.Request) {
	signedIn := UserIDFromContext(r.Context()) != ""
	JSON(w, http.StatusOK, welcome.New(nil, signedIn).View())
}

// ClickSuggestion submits a chip's text as the user's chat message.
func (h *Handler) ClickSuggestion(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	text := req.Text
	if err := req.normalize(); err != nil {
		writeErr(w, r, err)
		return
	}

	ctx := r.Context()
	userID := UserIDFromContext(ctx)

	var (
		reply  *model.Reply
		askErr error
	)
	screen := welcome.New(func(m welcome.Message) {
		reply, askErr = h.ask(ctx, userID, req.ConversationID, m.Text)
	}, userID != "")

	if err := screen.Click(text); err != nil {
		if errors.Is(err, welcome.ErrUnknownSuggestion) {
			err = errx.New(err, http.StatusBadRequest, err.Error())
		}
		writeErr(w, r, err)
		return
	}
	if askErr != nil {
		writeErr(w, r, askErr)
		return
	}
	JSON(w, http.StatusOK, reply)
}
