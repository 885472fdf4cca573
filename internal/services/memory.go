package services

import (
	"context"

	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/store"
)

// MemoryService orchestrates memory CRUD use cases.
type MemoryService struct {
	store store.Store
}

func NewMemoryService(s store.Store) *MemoryService {
	return &MemoryService{store: s}
}

// CreateMemoryRequest captures input for creating a memory. Tags default to
// an empty set, the project reference to none, the global flag to false.
type CreateMemoryRequest struct {
	UserID     string
	Content    string
	MemoryType string
	Tags       []string
	ProjectID  *string
	IsGlobal   bool
}

func (s *MemoryService) CreateMemory(ctx context.Context, req CreateMemoryRequest) (*model.Memory, error) {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	return s.store.Memories().Create(ctx, &model.Memory{
		UserID:     req.UserID,
		Content:    req.Content,
		MemoryType: req.MemoryType,
		Tags:       tags,
		ProjectID:  req.ProjectID,
		IsGlobal:   req.IsGlobal,
	})
}

func (s *MemoryService) ListMemories(ctx context.Context, req model.ListMemoriesRequest) ([]*model.Memory, error) {
	return s.store.Memories().List(ctx, req)
}

// DeleteMemory removes a memory permanently and unrecoverably.
func (s *MemoryService) DeleteMemory(ctx context.Context, userID, memoryID string) error {
	return s.store.Memories().Delete(ctx, userID, memoryID)
}
