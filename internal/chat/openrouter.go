package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
)

// OpenRouterProvider calls the OpenRouter chat completions API.
type OpenRouterProvider struct {
	client *resty.Client
	model  string
}

// NewOpenRouterProvider builds a provider bound to one user's key. appURL is
// sent as the HTTP-Referer attribution header.
func NewOpenRouterProvider(apiKey, baseURL, model, appURL string) *OpenRouterProvider {
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", appURL).
		SetHeader("X-Title", "AI Memory Vault").
		SetTimeout(5 * time.Minute)

	return &OpenRouterProvider{client: c, model: model}
}

func (p *OpenRouterProvider) Name() ProviderKind { return ProviderOpenRouter }

type orMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type orRequest struct {
	Model    string      `json:"model"`
	Messages []orMessage `json:"messages"`
}

type orResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the system prompt and user message as a single stateless
// exchange and returns the first completion's text.
func (p *OpenRouterProvider) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	reqBody := orRequest{
		Model: p.model,
		Messages: []orMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/v1/chat/completions")
	if err != nil {
		return "", err
	}

	var body orResponse
	decodeErr := json.Unmarshal(resp.Body(), &body)

	if resp.IsError() {
		perr := &ProviderError{Provider: ProviderOpenRouter, Status: resp.StatusCode()}
		if decodeErr == nil && body.Error != nil {
			perr.Message = body.Error.Message
		}
		return "", perr
	}

	if decodeErr != nil || len(body.Choices) == 0 || body.Choices[0].Message.Content == "" {
		return NoResponseText, nil
	}
	return body.Choices[0].Message.Content, nil
}
