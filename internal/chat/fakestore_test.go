package chat

import (
	"context"
	"errors"

	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/store"
)

// fakeStore lets tests script store responses per sub-store.
type fakeStore struct {
	memories      []*model.Memory
	memoriesErr   error
	sections      []*model.PRDSection
	sectionsErr   error
	recorded      [][]*model.ConversationTurn
	recordErr     error
	lastProjectID string
}

func (f *fakeStore) Users() store.Users               { return nil }
func (f *fakeStore) Projects() store.Projects         { return nil }
func (f *fakeStore) Memories() store.Memories         { return &fakeMemories{f} }
func (f *fakeStore) Sections() store.Sections         { return &fakeSections{f} }
func (f *fakeStore) Conversations() store.Conversations { return &fakeConversations{f} }

type fakeMemories struct{ f *fakeStore }

func (m *fakeMemories) Create(ctx context.Context, mem *model.Memory) (*model.Memory, error) {
	return nil, errors.New("not implemented")
}
func (m *fakeMemories) List(ctx context.Context, req model.ListMemoriesRequest) ([]*model.Memory, error) {
	return nil, errors.New("not implemented")
}
func (m *fakeMemories) ListRecent(ctx context.Context, userID, projectID string, limit int) ([]*model.Memory, error) {
	m.f.lastProjectID = projectID
	if m.f.memoriesErr != nil {
		return nil, m.f.memoriesErr
	}
	if len(m.f.memories) > limit {
		return m.f.memories[:limit], nil
	}
	return m.f.memories, nil
}
func (m *fakeMemories) Delete(ctx context.Context, userID, memoryID string) error {
	return errors.New("not implemented")
}

type fakeSections struct{ f *fakeStore }

func (s *fakeSections) CreateBatch(ctx context.Context, secs []*model.PRDSection) error {
	return errors.New("not implemented")
}
func (s *fakeSections) ListByProject(ctx context.Context, userID, projectID string, limit int) ([]*model.PRDSection, error) {
	if s.f.sectionsErr != nil {
		return nil, s.f.sectionsErr
	}
	if len(s.f.sections) > limit {
		return s.f.sections[:limit], nil
	}
	return s.f.sections, nil
}

type fakeConversations struct{ f *fakeStore }

func (c *fakeConversations) CreateBatch(ctx context.Context, turns []*model.ConversationTurn) error {
	if c.f.recordErr != nil {
		return c.f.recordErr
	}
	c.f.recorded = append(c.f.recorded, turns)
	return nil
}
func (c *fakeConversations) List(ctx context.Context, userID, projectID string, limit int) ([]*model.ConversationTurn, error) {
	return nil, errors.New("not implemented")
}
