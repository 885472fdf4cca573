package store

import (
	"context"

	"github.com/memvault/memory-vault/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Users() Users
	Projects() Projects
	Memories() Memories
	Sections() Sections
	Conversations() Conversations
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*model.User, error)
	Credentials(ctx context.Context, userID string) (*model.Credentials, error)
	SetProviderKey(ctx context.Context, userID, provider, key string) error
}

type Projects interface {
	Create(ctx context.Context, p *model.Project) (*model.Project, error)
	GetByID(ctx context.Context, userID, projectID string) (*model.Project, error)
	List(ctx context.Context, userID string) ([]*model.Project, error)
}

type Memories interface {
	Create(ctx context.Context, m *model.Memory) (*model.Memory, error)
	List(ctx context.Context, req model.ListMemoriesRequest) ([]*model.Memory, error)
	// ListRecent returns up to limit memories ordered by creation time
	// descending. With an empty projectID only global memories are candidates;
	// otherwise memories that are global or scoped to that project.
	ListRecent(ctx context.Context, userID, projectID string, limit int) ([]*model.Memory, error)
	Delete(ctx context.Context, userID, memoryID string) error
}

type Sections interface {
	CreateBatch(ctx context.Context, secs []*model.PRDSection) error
	// ListByProject returns up to limit sections ordered by section order ascending.
	ListByProject(ctx context.Context, userID, projectID string, limit int) ([]*model.PRDSection, error)
}

type Conversations interface {
	// CreateBatch persists the given turns as a single atomic batch.
	CreateBatch(ctx context.Context, turns []*model.ConversationTurn) error
	List(ctx context.Context, userID, projectID string, limit int) ([]*model.ConversationTurn, error)
}
