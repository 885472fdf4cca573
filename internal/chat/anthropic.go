package chat

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeProvider calls the Anthropic Messages API directly.
type ClaudeProvider struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewClaudeProvider builds a provider bound to one user's key.
func NewClaudeProvider(apiKey, model string, maxTokens int64) *ClaudeProvider {
	return &ClaudeProvider{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (p *ClaudeProvider) Name() ProviderKind { return ProviderClaude }

// Complete sends the system prompt and user message as a single stateless
// exchange and concatenates the text blocks of the reply.
func (p *ClaudeProvider) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
		},
	})
	if err != nil {
		var apierr *anthropic.Error
		if errors.As(err, &apierr) {
			return "", &ProviderError{Provider: ProviderClaude, Status: apierr.StatusCode, Message: apierr.Error()}
		}
		return "", err
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return NoResponseText, nil
	}
	return text, nil
}
