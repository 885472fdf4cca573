package storetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	// Users
	apiKey := "mv_" + uuid.New().String()
	u, err := s.Users().Create(ctx, &model.User{Email: uuid.New().String() + "@example.test", APIKey: apiKey})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.UserID == "" {
		t.Fatalf("CreateUser: empty user id")
	}
	if got, err := s.Users().Get(ctx, u.UserID); err != nil || got.UserID != u.UserID {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	if got, err := s.Users().GetByAPIKey(ctx, apiKey); err != nil || got.UserID != u.UserID {
		t.Fatalf("GetByAPIKey: got=%v err=%v", got, err)
	}
	if _, err := s.Users().GetByAPIKey(ctx, "mv_bogus"); err == nil {
		t.Fatalf("GetByAPIKey: expected error for unknown key")
	}

	// Credentials start empty; SetProviderKey fills one slot at a time.
	creds, err := s.Users().Credentials(ctx, u.UserID)
	if err != nil || creds.HasClaude() || creds.HasOpenRouter() {
		t.Fatalf("Credentials (fresh): %+v err=%v", creds, err)
	}
	if err := s.Users().SetProviderKey(ctx, u.UserID, "openrouter", "sk-or-test"); err != nil {
		t.Fatalf("SetProviderKey: %v", err)
	}
	if err := s.Users().SetProviderKey(ctx, u.UserID, "groq", "x"); err == nil {
		t.Fatalf("SetProviderKey: expected error for unknown provider")
	}
	creds, err = s.Users().Credentials(ctx, u.UserID)
	if err != nil || !creds.HasOpenRouter() || creds.HasClaude() {
		t.Fatalf("Credentials (after set): %+v err=%v", creds, err)
	}

	// Projects
	p, err := s.Projects().Create(ctx, &model.Project{UserID: u.UserID, Name: "acme"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if p.Status != "active" {
		t.Fatalf("CreateProject: default status = %q", p.Status)
	}
	if got, err := s.Projects().GetByID(ctx, u.UserID, p.ProjectID); err != nil || got.Name != "acme" {
		t.Fatalf("GetProject: got=%v err=%v", got, err)
	}
	if lst, err := s.Projects().List(ctx, u.UserID); err != nil || len(lst) != 1 {
		t.Fatalf("ListProjects: n=%d err=%v", len(lst), err)
	}

	// Memories: one global, one project-scoped, one unscoped non-global
	global, err := s.Memories().Create(ctx, &model.Memory{UserID: u.UserID, Content: "prefers tabs", MemoryType: "preference", IsGlobal: true})
	if err != nil {
		t.Fatalf("CreateMemory global: %v", err)
	}
	if global.Tags == nil || len(global.Tags) != 0 {
		t.Fatalf("CreateMemory: tags not defaulted: %v", global.Tags)
	}
	scoped, err := s.Memories().Create(ctx, &model.Memory{UserID: u.UserID, ProjectID: &p.ProjectID, Content: "acme uses Go", MemoryType: "fact", Tags: []string{"stack"}})
	if err != nil {
		t.Fatalf("CreateMemory scoped: %v", err)
	}
	if _, err := s.Memories().Create(ctx, &model.Memory{UserID: u.UserID, Content: "loose note", MemoryType: "note"}); err != nil {
		t.Fatalf("CreateMemory unscoped: %v", err)
	}

	// ListRecent without a project sees only global memories.
	recent, err := s.Memories().ListRecent(ctx, u.UserID, "", 10)
	if err != nil || len(recent) != 1 || recent[0].MemoryID != global.MemoryID {
		t.Fatalf("ListRecent unscoped: n=%d err=%v", len(recent), err)
	}
	// With a project: global OR matching project.
	recent, err = s.Memories().ListRecent(ctx, u.UserID, p.ProjectID, 10)
	if err != nil || len(recent) != 2 {
		t.Fatalf("ListRecent scoped: n=%d err=%v", len(recent), err)
	}

	// List filters
	if lst, err := s.Memories().List(ctx, model.ListMemoriesRequest{UserID: u.UserID}); err != nil || len(lst) != 3 {
		t.Fatalf("ListMemories all: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Memories().List(ctx, model.ListMemoriesRequest{UserID: u.UserID, MemoryType: "fact"}); err != nil || len(lst) != 1 {
		t.Fatalf("ListMemories by type: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Memories().List(ctx, model.ListMemoriesRequest{UserID: u.UserID, Search: "ACME"}); err != nil || len(lst) != 1 {
		t.Fatalf("ListMemories search (case-insensitive): n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Memories().List(ctx, model.ListMemoriesRequest{UserID: u.UserID, ProjectID: p.ProjectID}); err != nil || len(lst) != 1 || lst[0].MemoryID != scoped.MemoryID {
		t.Fatalf("ListMemories by project: n=%d err=%v", len(lst), err)
	}

	// Delete is permanent; deleting again reports not found.
	if err := s.Memories().Delete(ctx, u.UserID, scoped.MemoryID); err != nil {
		t.Fatalf("DeleteMemory: %v", err)
	}
	if err := s.Memories().Delete(ctx, u.UserID, scoped.MemoryID); err == nil {
		t.Fatalf("DeleteMemory: expected not found on second delete")
	}

	// PRD sections
	secs := []*model.PRDSection{
		{ProjectID: p.ProjectID, UserID: u.UserID, Title: "Goals", Content: "ship it", SectionOrder: 1, SectionType: "other", FileName: "prd.md", FileRef: "ref/prd.md"},
		{ProjectID: p.ProjectID, UserID: u.UserID, Title: "Risks", Content: "time", SectionOrder: 2, SectionType: "other", FileName: "prd.md", FileRef: "ref/prd.md"},
	}
	if err := s.Sections().CreateBatch(ctx, secs); err != nil {
		t.Fatalf("CreateBatch sections: %v", err)
	}
	got, err := s.Sections().ListByProject(ctx, u.UserID, p.ProjectID, 5)
	if err != nil || len(got) != 2 {
		t.Fatalf("ListByProject: n=%d err=%v", len(got), err)
	}
	if got[0].Title != "Goals" || got[1].Title != "Risks" {
		t.Fatalf("ListByProject: order wrong: %q %q", got[0].Title, got[1].Title)
	}
	if lim, err := s.Sections().ListByProject(ctx, u.UserID, p.ProjectID, 1); err != nil || len(lim) != 1 {
		t.Fatalf("ListByProject limit: n=%d err=%v", len(lim), err)
	}

	// Conversations: pairs share project ref and usage counts.
	usage := model.ContextUsage{MemoriesCount: 2, PRDSectionsCount: 2}
	turns := []*model.ConversationTurn{
		{TurnID: ulid.Make().String(), UserID: u.UserID, ProjectID: &p.ProjectID, Role: "user", Content: "hi", ContextUsed: usage},
		{TurnID: ulid.Make().String(), UserID: u.UserID, ProjectID: &p.ProjectID, Role: "assistant", Content: "hello", ContextUsed: usage},
	}
	if err := s.Conversations().CreateBatch(ctx, turns); err != nil {
		t.Fatalf("CreateBatch turns: %v", err)
	}
	log, err := s.Conversations().List(ctx, u.UserID, p.ProjectID, 10)
	if err != nil || len(log) != 2 {
		t.Fatalf("ListConversations: n=%d err=%v", len(log), err)
	}
	if log[0].Role != "user" || log[1].Role != "assistant" {
		t.Fatalf("ListConversations: role order: %q %q", log[0].Role, log[1].Role)
	}
	if log[1].ContextUsed != usage {
		t.Fatalf("ListConversations: usage round-trip: %+v", log[1].ContextUsed)
	}
}
