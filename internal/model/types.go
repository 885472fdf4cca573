package model

import "time"

// User represents an account in the system. Provider keys are write-only
// from the API's perspective and are never serialized.
type User struct {
	UserID        string    `json:"userId"`
	Email         string    `json:"email"`
	DisplayName   *string   `json:"displayName,omitempty"`
	APIKey        string    `json:"-"`
	ClaudeKey     *string   `json:"-"`
	OpenRouterKey *string   `json:"-"`
	CreationTime  time.Time `json:"creationTime"`
}

// Credentials captures which provider keys a user has configured.
type Credentials struct {
	ClaudeKey     *string
	OpenRouterKey *string
}

// HasClaude reports whether a direct Anthropic key is configured.
func (c Credentials) HasClaude() bool { return c.ClaudeKey != nil && *c.ClaudeKey != "" }

// HasOpenRouter reports whether an OpenRouter key is configured.
func (c Credentials) HasOpenRouter() bool { return c.OpenRouterKey != nil && *c.OpenRouterKey != "" }

// Project groups memories, PRD sections and conversations.
type Project struct {
	ProjectID    string    `json:"projectId"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Status       string    `json:"status"`
	CreationTime time.Time `json:"creationTime"`
}

// Memory is an immutable free-text record owned by one user, optionally
// scoped to a project or marked global.
type Memory struct {
	MemoryID     string    `json:"memoryId"`
	UserID       string    `json:"userId"`
	ProjectID    *string   `json:"projectId,omitempty"`
	Content      string    `json:"content"`
	MemoryType   string    `json:"memoryType"`
	Tags         []string  `json:"tags"`
	IsGlobal     bool      `json:"isGlobal"`
	CreationTime time.Time `json:"creationTime"`
}

// PRDSection is one titled chunk of an uploaded requirements document,
// ordered within its project by SectionOrder.
type PRDSection struct {
	SectionID    string    `json:"sectionId"`
	ProjectID    string    `json:"projectId"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	SectionOrder int       `json:"sectionOrder"`
	SectionType  string    `json:"sectionType"`
	FileName     string    `json:"fileName"`
	FileRef      string    `json:"fileRef"`
	CreationTime time.Time `json:"creationTime"`
}

// ContextUsage records how much assembled context informed a chat turn.
type ContextUsage struct {
	MemoriesCount    int `json:"memories_count"`
	PRDSectionsCount int `json:"prd_sections_count"`
}

// ConversationTurn is one half of a chat exchange. Turns are written in
// user/assistant pairs and never updated.
type ConversationTurn struct {
	TurnID       string       `json:"turnId"`
	UserID       string       `json:"userId"`
	ProjectID    *string      `json:"projectId,omitempty"`
	Role         string       `json:"role"`
	Content      string       `json:"content"`
	ContextUsed  ContextUsage `json:"contextUsed"`
	CreationTime time.Time    `json:"creationTime"`
}

// ListMemoriesRequest captures filters used when listing memories.
type ListMemoriesRequest struct {
	UserID     string
	ProjectID  string
	MemoryType string
	Search     string
}
