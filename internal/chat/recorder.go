package chat

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/store"
)

// Recorder persists the two turns of a chat exchange as one atomic batch.
type Recorder struct {
	store store.Store
	log   zerolog.Logger
}

func NewRecorder(s store.Store, log zerolog.Logger) *Recorder {
	return &Recorder{store: s, log: log}
}

// Record writes the user and assistant turns. A persistence failure is logged
// and swallowed: the answer has already been computed, and losing the log
// entry is preferable to losing the answer.
func (r *Recorder) Record(ctx context.Context, userID, projectID, userMessage, assistantMessage string, used model.ContextUsage) {
	var projectRef *string
	if projectID != "" {
		projectRef = &projectID
	}

	turns := []*model.ConversationTurn{
		{
			TurnID:      ulid.Make().String(),
			UserID:      userID,
			ProjectID:   projectRef,
			Role:        "user",
			Content:     userMessage,
			ContextUsed: used,
		},
		{
			TurnID:      ulid.Make().String(),
			UserID:      userID,
			ProjectID:   projectRef,
			Role:        "assistant",
			Content:     assistantMessage,
			ContextUsed: used,
		},
	}

	if err := r.store.Conversations().CreateBatch(ctx, turns); err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Msg("failed to save conversation")
	}
}
