package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/store"
)

// Provider key prefixes; keys are rejected before persisting otherwise.
const (
	claudeKeyPrefix     = "sk-ant-"
	openRouterKeyPrefix = "sk-or-"
)

// SettingsService manages provider credentials. Keys are write-only: reads
// only ever expose presence.
type SettingsService struct {
	store store.Store
}

func NewSettingsService(s store.Store) *SettingsService {
	return &SettingsService{store: s}
}

// SetProviderKey validates the key's fixed prefix for the given provider and
// persists it into the matching credential slot.
func (s *SettingsService) SetProviderKey(ctx context.Context, userID, provider, apiKey string) error {
	switch provider {
	case "claude":
		if !strings.HasPrefix(apiKey, claudeKeyPrefix) {
			return fmt.Errorf("%w: invalid Claude API key format", model.ErrValidation)
		}
	case "openrouter":
		if !strings.HasPrefix(apiKey, openRouterKeyPrefix) {
			return fmt.Errorf("%w: invalid OpenRouter API key format", model.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", model.ErrValidation, provider)
	}
	return s.store.Users().SetProviderKey(ctx, userID, provider, apiKey)
}

// ProviderStatus reports which credential slots are configured.
type ProviderStatus struct {
	ClaudeConfigured     bool `json:"claudeConfigured"`
	OpenRouterConfigured bool `json:"openrouterConfigured"`
}

func (s *SettingsService) GetProviderStatus(ctx context.Context, userID string) (*ProviderStatus, error) {
	creds, err := s.store.Users().Credentials(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProviderStatus{
		ClaudeConfigured:     creds.HasClaude(),
		OpenRouterConfigured: creds.HasOpenRouter(),
	}, nil
}
