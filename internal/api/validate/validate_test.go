package validate

import (
	"strings"
	"testing"
)

func TestChatMessage(t *testing.T) {
	if err := ChatMessage("hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ChatMessage(""); err == nil {
		t.Fatalf("expected error for empty message")
	}
	if err := ChatMessage("   \n\t "); err == nil {
		t.Fatalf("expected error for whitespace-only message")
	}
	if err := ChatMessage(strings.Repeat("a", 32001)); err == nil {
		t.Fatalf("expected error for oversized message")
	}
}

func TestCreateMemory(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		memoryType  string
		expectError bool
	}{
		{name: "valid", content: "remember this", memoryType: "note"},
		{name: "empty content", content: "", memoryType: "note", expectError: true},
		{name: "missing type", content: "remember this", memoryType: "", expectError: true},
		{name: "unknown type", content: "remember this", memoryType: "gossip", expectError: true},
		{name: "oversized content", content: strings.Repeat("a", 10001), memoryType: "note", expectError: true},
		{name: "decision type", content: "we chose sqlite", memoryType: "decision"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CreateMemory(tt.content, tt.memoryType)
			if tt.expectError && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.expectError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestProviderKey(t *testing.T) {
	if err := ProviderKey("claude", "sk-ant-x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ProviderKey("openrouter", "sk-or-x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ProviderKey("gemini", "key"); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	if err := ProviderKey("claude", ""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestCreateUser_InvalidEmail(t *testing.T) {
	if err := CreateUser("bad email"); err == nil {
		t.Fatalf("expected error for invalid email")
	}
	if err := CreateUser("alice@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
