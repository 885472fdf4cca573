package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/store"
)

// UserService provisions accounts and their bearer API keys.
type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService {
	return &UserService{store: s}
}

// CreateUser provisions an account with a freshly generated API key. The key
// is returned exactly once, in the creation response.
func (s *UserService) CreateUser(ctx context.Context, email string, displayName *string) (*model.User, error) {
	apiKey := "mv_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	return s.store.Users().Create(ctx, &model.User{
		Email:       email,
		DisplayName: displayName,
		APIKey:      apiKey,
	})
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.store.Users().Get(ctx, userID)
}
