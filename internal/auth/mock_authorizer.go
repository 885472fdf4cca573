package auth

import (
	"context"
	"errors"
)

const (
	// LocalDevAPIKey is the hardcoded API key for local development only
	LocalDevAPIKey = "mv_local_dev_key"
)

// MockAuthorizer provides a simple authorizer for local development and tests.
// It only recognizes the hardcoded LocalDevAPIKey and resolves it to a fixed actor.
type MockAuthorizer struct{}

// NewMockAuthorizer creates a new MockAuthorizer for local development
func NewMockAuthorizer() *MockAuthorizer {
	return &MockAuthorizer{}
}

// Authorize validates the hardcoded API key.
func (m *MockAuthorizer) Authorize(ctx context.Context, apiKey string) (*Actor, error) {
	if apiKey != LocalDevAPIKey {
		return nil, errors.New("invalid API key for local development")
	}
	return &Actor{UserID: "vault-dev", Email: "dev@localhost"}, nil
}
