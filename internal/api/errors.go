package api

import (
	"errors"
	"net/http"

	"github.com/memvault/memory-vault/internal/api/respond"
	"github.com/memvault/memory-vault/internal/auth"
	"github.com/memvault/memory-vault/internal/chat"
	"github.com/memvault/memory-vault/internal/model"
)

// writeServiceError maps service-layer errors onto HTTP statuses. Provider
// failures keep the upstream status so clients can distinguish a bad key
// from an outage.
func writeServiceError(w http.ResponseWriter, err error) {
	var perr *chat.ProviderError
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, chat.ErrNoCredential):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrConflict):
		respond.WriteError(w, http.StatusConflict, err.Error())
	case errors.As(err, &perr):
		respond.WriteError(w, perr.Status, perr.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}

// requireActor authenticates the request's bearer key. On failure it writes
// the 401 response and returns ok=false.
func requireActor(w http.ResponseWriter, r *http.Request, authorizer auth.Authorizer) (*auth.Actor, bool) {
	apiKey, err := auth.ExtractAPIKey(r)
	if err != nil {
		respond.WriteUnauthorized(w, "Unauthorized: "+err.Error())
		return nil, false
	}
	actor, err := authorizer.Authorize(r.Context(), apiKey)
	if err != nil {
		respond.WriteUnauthorized(w, "Unauthorized: "+err.Error())
		return nil, false
	}
	return actor, true
}
