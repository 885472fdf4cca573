package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/memvault/memory-vault/internal/chat"
	"github.com/memvault/memory-vault/internal/config"
	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/store"
)

// ProviderFactory builds a chat provider bound to a user's key. Injected so
// tests can substitute fakes for the real backends.
type ProviderFactory func(kind chat.ProviderKind, apiKey string) chat.Provider

// NewProviderFactory wires the two real backends from service configuration.
func NewProviderFactory(cfg *config.Config) ProviderFactory {
	return func(kind chat.ProviderKind, apiKey string) chat.Provider {
		switch kind {
		case chat.ProviderOpenRouter:
			return chat.NewOpenRouterProvider(apiKey, cfg.OpenRouterBaseURL, cfg.OpenRouterModel, cfg.AppURL)
		default:
			return chat.NewClaudeProvider(apiKey, cfg.ClaudeModel, int64(cfg.ClaudeMaxTokens))
		}
	}
}

// ChatRequest is one user turn against the assistant.
type ChatRequest struct {
	UserID    string
	Message   string
	ProjectID string
}

// ChatContext reports what informed the reply.
type ChatContext struct {
	MemoriesUsed    int    `json:"memories_used"`
	PRDSectionsUsed int    `json:"prd_sections_used"`
	Provider        string `json:"provider"`
}

// ChatResponse carries the assistant's reply and its context usage.
type ChatResponse struct {
	Message string      `json:"message"`
	Context ChatContext `json:"context"`
}

// ChatService runs the per-request pipeline: credential lookup, provider
// selection, context assembly, completion, conversation recording.
type ChatService struct {
	store     store.Store
	assembler *chat.Assembler
	recorder  *chat.Recorder
	providers ProviderFactory
	log       zerolog.Logger
}

func NewChatService(s store.Store, providers ProviderFactory, log zerolog.Logger) *ChatService {
	return &ChatService{
		store:     s,
		assembler: chat.NewAssembler(s, log),
		recorder:  chat.NewRecorder(s, log),
		providers: providers,
		log:       log,
	}
}

// Chat executes one exchange. Selection happens before any network call;
// context fetch failures degrade to empty context; a recording failure never
// loses the computed answer.
func (s *ChatService) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	creds, err := s.store.Users().Credentials(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user settings: %w", err)
	}

	kind, err := chat.SelectProvider(creds.HasOpenRouter(), creds.HasClaude())
	if err != nil {
		return nil, err
	}
	var apiKey string
	if kind == chat.ProviderOpenRouter {
		apiKey = *creds.OpenRouterKey
	} else {
		apiKey = *creds.ClaudeKey
	}

	frag := s.assembler.Assemble(ctx, req.UserID, req.ProjectID)

	provider := s.providers(kind, apiKey)
	reply, err := provider.Complete(ctx, frag.SystemPrompt(), req.Message)
	if err != nil {
		return nil, err
	}

	used := model.ContextUsage{MemoriesCount: frag.MemoriesUsed, PRDSectionsCount: frag.SectionsUsed}
	s.recorder.Record(ctx, req.UserID, req.ProjectID, req.Message, reply, used)

	return &ChatResponse{
		Message: reply,
		Context: ChatContext{
			MemoriesUsed:    frag.MemoriesUsed,
			PRDSectionsUsed: frag.SectionsUsed,
			Provider:        string(kind),
		},
	}, nil
}
