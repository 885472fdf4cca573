package api

import (
	"encoding/json"
	"net/http"

	"github.com/memvault/memory-vault/internal/api/respond"
	"github.com/memvault/memory-vault/internal/api/validate"
	"github.com/memvault/memory-vault/internal/auth"
	"github.com/memvault/memory-vault/internal/services"
)

type ChatHandler struct {
	svc        *services.ChatService
	authorizer auth.Authorizer
}

func NewChatHandler(svc *services.ChatService, authorizer auth.Authorizer) *ChatHandler {
	return &ChatHandler{svc: svc, authorizer: authorizer}
}

// Chat POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.authorizer)
	if !ok {
		return
	}

	var req struct {
		Message   string `json:"message"`
		ProjectID string `json:"projectId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	// Rejected before any store or provider access.
	if err := validate.ChatMessage(req.Message); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.Chat(r.Context(), services.ChatRequest{
		UserID:    actor.UserID,
		Message:   req.Message,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
