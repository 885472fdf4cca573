package api

import (
	"encoding/json"
	"net/http"

	"github.com/memvault/memory-vault/internal/api/respond"
	"github.com/memvault/memory-vault/internal/api/validate"
	"github.com/memvault/memory-vault/internal/auth"
	"github.com/memvault/memory-vault/internal/services"
)

type SettingsHandler struct {
	svc        *services.SettingsService
	authorizer auth.Authorizer
}

func NewSettingsHandler(svc *services.SettingsService, authorizer auth.Authorizer) *SettingsHandler {
	return &SettingsHandler{svc: svc, authorizer: authorizer}
}

// SetProviderKey POST /api/settings/api-key
func (h *SettingsHandler) SetProviderKey(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.authorizer)
	if !ok {
		return
	}

	var req struct {
		Provider string `json:"provider"`
		APIKey   string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.ProviderKey(req.Provider, req.APIKey); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.svc.SetProviderKey(r.Context(), actor.UserID, req.Provider, req.APIKey); err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// GetSettings GET /api/settings
// Reports key presence only; stored keys are never echoed back.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.authorizer)
	if !ok {
		return
	}

	out, err := h.svc.GetProviderStatus(r.Context(), actor.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
