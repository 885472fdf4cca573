package api

import (
	"encoding/json"
	"net/http"

	"github.com/memvault/memory-vault/internal/api/respond"
	"github.com/memvault/memory-vault/internal/api/validate"
	"github.com/memvault/memory-vault/internal/auth"
	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/services"
)

type UserHandler struct {
	svc        *services.UserService
	authorizer auth.Authorizer
}

func NewUserHandler(svc *services.UserService, authorizer auth.Authorizer) *UserHandler {
	return &UserHandler{svc: svc, authorizer: authorizer}
}

// createUserResponse carries the generated API key alongside the user. This
// is the only place the key ever appears in a response body.
type createUserResponse struct {
	*model.User
	APIKey string `json:"apiKey"`
}

// CreateUser POST /api/users (unauthenticated)
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string  `json:"email"`
		DisplayName *string `json:"displayName,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateUser(req.Email); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.CreateUser(r.Context(), req.Email, req.DisplayName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, createUserResponse{User: out, APIKey: out.APIKey})
}

// GetUser GET /api/users/me
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.authorizer)
	if !ok {
		return
	}

	out, err := h.svc.GetUser(r.Context(), actor.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
