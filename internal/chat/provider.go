// Package chat implements the per-request pipeline behind a chat exchange:
// context assembly, provider dispatch and conversation recording.
package chat

import (
	"context"
	"errors"
	"fmt"
)

// ProviderKind identifies a chat-completion backend.
type ProviderKind string

const (
	// ProviderOpenRouter is the aggregator backend.
	ProviderOpenRouter ProviderKind = "openrouter"
	// ProviderClaude is the direct Anthropic backend.
	ProviderClaude ProviderKind = "claude"
)

// ErrNoCredential is returned when neither provider key is configured. It is
// raised before any network call.
var ErrNoCredential = errors.New("no provider API key configured; add your API key in settings")

// NoResponseText is substituted when a backend returns an empty or malformed
// completion body, keeping the conversation log non-empty.
const NoResponseText = "No response from AI"

// SelectProvider maps credential presence to a backend. OpenRouter takes
// precedence whenever its key is present.
func SelectProvider(hasOpenRouter, hasClaude bool) (ProviderKind, error) {
	switch {
	case hasOpenRouter:
		return ProviderOpenRouter, nil
	case hasClaude:
		return ProviderClaude, nil
	default:
		return "", ErrNoCredential
	}
}

// Provider is a chat-completion backend. Each request is stateless: the two
// messages are the entire exchange.
type Provider interface {
	Name() ProviderKind
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// ProviderError carries a backend failure through to the caller, preferring
// the backend's own error message when one was returned.
type ProviderError struct {
	Provider ProviderKind
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s API call failed (status %d)", e.Provider, e.Status)
}
