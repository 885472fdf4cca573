package auth

import (
	"context"
	"errors"

	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/store"
)

// Actor is the authenticated identity attached to a request.
type Actor struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Authorizer resolves a bearer API key to an actor.
type Authorizer interface {
	Authorize(ctx context.Context, apiKey string) (*Actor, error)
}

// StoreAuthorizer validates API keys against the user store.
type StoreAuthorizer struct {
	store store.Store
}

func NewStoreAuthorizer(s store.Store) *StoreAuthorizer {
	return &StoreAuthorizer{store: s}
}

func (a *StoreAuthorizer) Authorize(ctx context.Context, apiKey string) (*Actor, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	u, err := a.store.Users().GetByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, err
	}
	return &Actor{UserID: u.UserID, Email: u.Email}, nil
}
