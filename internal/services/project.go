package services

import (
	"context"

	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/store"
)

// ProjectService orchestrates project use cases.
type ProjectService struct {
	store store.Store
}

func NewProjectService(s store.Store) *ProjectService {
	return &ProjectService{store: s}
}

func (s *ProjectService) CreateProject(ctx context.Context, userID, name string, description *string) (*model.Project, error) {
	return s.store.Projects().Create(ctx, &model.Project{
		UserID:      userID,
		Name:        name,
		Description: description,
		Status:      "active",
	})
}

func (s *ProjectService) GetProject(ctx context.Context, userID, projectID string) (*model.Project, error) {
	return s.store.Projects().GetByID(ctx, userID, projectID)
}

func (s *ProjectService) ListProjects(ctx context.Context, userID string) ([]*model.Project, error) {
	return s.store.Projects().List(ctx, userID)
}

func (s *ProjectService) ListSections(ctx context.Context, userID, projectID string, limit int) ([]*model.PRDSection, error) {
	return s.store.Sections().ListByProject(ctx, userID, projectID, limit)
}

// ListConversations returns the chat log, oldest first.
func (s *ProjectService) ListConversations(ctx context.Context, userID, projectID string, limit int) ([]*model.ConversationTurn, error) {
	return s.store.Conversations().List(ctx, userID, projectID, limit)
}
