package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memvault/memory-vault/internal/auth"
	"github.com/memvault/memory-vault/internal/blob"
	"github.com/memvault/memory-vault/internal/chat"
	"github.com/memvault/memory-vault/internal/store/sqlite"
)

// scriptedProvider is installed through the provider factory so chat tests
// never reach the network.
type scriptedProvider struct {
	kind  chat.ProviderKind
	reply string
	err   error
	calls int
}

func (p *scriptedProvider) Name() chat.ProviderKind { return p.kind }
func (p *scriptedProvider) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

type fixture struct {
	server   *httptest.Server
	provider *scriptedProvider
	apiKey   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := sqlite.New(filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	files, err := blob.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	provider := &scriptedProvider{reply: "scripted answer"}
	router := NewRouter(Deps{
		Store:      st,
		Files:      files,
		Authorizer: auth.NewStoreAuthorizer(st),
		Providers: func(kind chat.ProviderKind, apiKey string) chat.Provider {
			provider.kind = kind
			return provider
		},
		Log: zerolog.Nop(),
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	f := &fixture{server: server, provider: provider}
	f.apiKey = f.createUser(t, "owner@example.com")
	return f
}

// createUser provisions an account and returns its one-time API key.
func (f *fixture) createUser(t *testing.T, email string) string {
	t.Helper()
	resp := f.do(t, "POST", "/api/users", "", map[string]interface{}{"email": email})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		UserID string `json:"userId"`
		APIKey string `json:"apiKey"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.UserID)
	require.True(t, strings.HasPrefix(body.APIKey, "mv_"))
	return body.APIKey
}

func (f *fixture) do(t *testing.T, method, path, apiKey string, body interface{}) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.server.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func (f *fixture) setKey(t *testing.T, provider, key string) {
	t.Helper()
	resp := f.do(t, "POST", "/api/settings/api-key", f.apiKey,
		map[string]string{"provider": provider, "apiKey": key})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.server.URL + "/api/health")
	require.NoError(t, err)
	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])

	resp, err = http.Get(f.server.URL + "/api/health/db")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t)

	for _, tc := range []struct{ method, path string }{
		{"POST", "/api/chat"},
		{"GET", "/api/memories"},
		{"POST", "/api/memories"},
		{"GET", "/api/projects"},
		{"GET", "/api/settings"},
		{"GET", "/api/conversations"},
	} {
		resp := f.do(t, tc.method, tc.path, "", nil)
		_ = resp.Body.Close()
		assert.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", tc.method, tc.path)
	}

	// garbage key is rejected too
	resp := f.do(t, "GET", "/api/memories", "mv_not_a_real_key", nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMemoryLifecycle(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, "POST", "/api/memories", f.apiKey, map[string]interface{}{
		"content":     "prefers dark roast coffee",
		"memory_type": "preference",
		"tags":        []string{"coffee"},
		"is_global":   true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		MemoryID string   `json:"memoryId"`
		Tags     []string `json:"tags"`
		IsGlobal bool     `json:"isGlobal"`
	}
	decode(t, resp, &created)
	require.NotEmpty(t, created.MemoryID)
	assert.True(t, created.IsGlobal)

	// second memory with a different type, findable by filter
	resp = f.do(t, "POST", "/api/memories", f.apiKey, map[string]interface{}{
		"content":     "we decided on SQLite for local mode",
		"memory_type": "decision",
	})
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var list struct {
		Memories []struct {
			MemoryID string `json:"memoryId"`
			Content  string `json:"content"`
		} `json:"memories"`
		Count int `json:"count"`
	}
	decode(t, f.do(t, "GET", "/api/memories", f.apiKey, nil), &list)
	assert.Equal(t, 2, list.Count)

	decode(t, f.do(t, "GET", "/api/memories?type=decision", f.apiKey, nil), &list)
	require.Equal(t, 1, list.Count)
	assert.Contains(t, list.Memories[0].Content, "SQLite")

	decode(t, f.do(t, "GET", "/api/memories?search=DARK+ROAST", f.apiKey, nil), &list)
	require.Equal(t, 1, list.Count)

	resp = f.do(t, "DELETE", "/api/memories/"+created.MemoryID, f.apiKey, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.do(t, "DELETE", "/api/memories/"+created.MemoryID, f.apiKey, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateMemoryValidation(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, "POST", "/api/memories", f.apiKey, map[string]interface{}{
		"content": "", "memory_type": "note",
	})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, "POST", "/api/memories", f.apiKey, map[string]interface{}{
		"content": "x", "memory_type": "gossip",
	})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettings(t *testing.T) {
	f := newFixture(t)

	var status struct {
		ClaudeConfigured     bool `json:"claudeConfigured"`
		OpenRouterConfigured bool `json:"openrouterConfigured"`
	}
	decode(t, f.do(t, "GET", "/api/settings", f.apiKey, nil), &status)
	assert.False(t, status.ClaudeConfigured)
	assert.False(t, status.OpenRouterConfigured)

	// wrong prefix rejected
	resp := f.do(t, "POST", "/api/settings/api-key", f.apiKey,
		map[string]string{"provider": "claude", "apiKey": "sk-or-wrong"})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	f.setKey(t, "claude", "sk-ant-abc123")
	decode(t, f.do(t, "GET", "/api/settings", f.apiKey, nil), &status)
	assert.True(t, status.ClaudeConfigured)
	assert.False(t, status.OpenRouterConfigured)
}

func TestChatEndpoint(t *testing.T) {
	f := newFixture(t)

	// empty message rejected before anything else
	resp := f.do(t, "POST", "/api/chat", f.apiKey, map[string]string{"message": "   "})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// no provider key configured
	resp = f.do(t, "POST", "/api/chat", f.apiKey, map[string]string{"message": "hello"})
	var errBody struct {
		Message string `json:"message"`
	}
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decode(t, resp, &errBody)
	assert.Contains(t, errBody.Message, "settings")
	assert.Zero(t, f.provider.calls)

	f.setKey(t, "openrouter", "sk-or-abc123")

	// seed a memory so context assembly has something to count
	resp = f.do(t, "POST", "/api/memories", f.apiKey, map[string]interface{}{
		"content": "speaks French", "memory_type": "note", "is_global": true,
	})
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Message string `json:"message"`
		Context struct {
			MemoriesUsed    int    `json:"memories_used"`
			PRDSectionsUsed int    `json:"prd_sections_used"`
			Provider        string `json:"provider"`
		} `json:"context"`
	}
	decode(t, f.do(t, "POST", "/api/chat", f.apiKey, map[string]string{"message": "hello"}), &out)
	assert.Equal(t, "scripted answer", out.Message)
	assert.Equal(t, "openrouter", out.Context.Provider)
	assert.Equal(t, 1, out.Context.MemoriesUsed)

	// both turns landed in the conversation log
	var conv struct {
		Conversations []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"conversations"`
		Count int `json:"count"`
	}
	decode(t, f.do(t, "GET", "/api/conversations", f.apiKey, nil), &conv)
	require.Equal(t, 2, conv.Count)
	assert.Equal(t, "user", conv.Conversations[0].Role)
	assert.Equal(t, "assistant", conv.Conversations[1].Role)
	assert.Equal(t, "scripted answer", conv.Conversations[1].Content)
}

func TestChatProviderFailurePassthrough(t *testing.T) {
	f := newFixture(t)
	f.setKey(t, "openrouter", "sk-or-abc123")
	f.provider.err = &chat.ProviderError{Provider: chat.ProviderOpenRouter, Status: 402, Message: "insufficient credits"}

	resp := f.do(t, "POST", "/api/chat", f.apiKey, map[string]string{"message": "hello"})
	var errBody struct {
		Message string `json:"message"`
	}
	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	decode(t, resp, &errBody)
	assert.Equal(t, "insufficient credits", errBody.Message)
}

func TestPRDUploadEndpoint(t *testing.T) {
	f := newFixture(t)

	doc := "# Overview\n\n" + strings.Repeat("The system keeps project context close at hand. ", 5) +
		"\n\n## Rollout\n\n" + strings.Repeat("Ship the local mode first, hosted mode later. ", 5)

	upload := func(fileName string, content []byte) *http.Response {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("projectName", "Rollout Plan"))
		require.NoError(t, mw.Close())

		req, err := http.NewRequest("POST", f.server.URL+"/api/prd/upload", &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := upload("plan.md", []byte(doc))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var res struct {
		Project struct {
			ProjectID string `json:"projectId"`
			Name      string `json:"name"`
		} `json:"project"`
		SectionsCount int `json:"sectionsCount"`
	}
	decode(t, resp, &res)
	assert.Equal(t, "Rollout Plan", res.Project.Name)
	assert.Equal(t, 2, res.SectionsCount)

	var secs struct {
		Sections []struct {
			Title        string `json:"title"`
			SectionOrder int    `json:"sectionOrder"`
		} `json:"sections"`
		Count int `json:"count"`
	}
	decode(t, f.do(t, "GET", fmt.Sprintf("/api/projects/%s/sections", res.Project.ProjectID), f.apiKey, nil), &secs)
	require.Equal(t, 2, secs.Count)
	assert.Equal(t, "Overview", secs.Sections[0].Title)
	assert.Equal(t, "Rollout", secs.Sections[1].Title)

	// project is listed and fetchable
	var projects struct {
		Count int `json:"count"`
	}
	decode(t, f.do(t, "GET", "/api/projects", f.apiKey, nil), &projects)
	assert.Equal(t, 1, projects.Count)

	resp = f.do(t, "GET", "/api/projects/"+res.Project.ProjectID, f.apiKey, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// unsupported extension
	resp = upload("slides.pptx", []byte(doc))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// too-short document
	resp = upload("tiny.txt", []byte("short"))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsersEndpoint(t *testing.T) {
	f := newFixture(t)

	// invalid email rejected
	resp := f.do(t, "POST", "/api/users", "", map[string]string{"email": "not-an-email"})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// duplicate email conflicts at the store level
	resp = f.do(t, "POST", "/api/users", "", map[string]string{"email": "owner@example.com"})
	_ = resp.Body.Close()
	assert.NotEqual(t, http.StatusCreated, resp.StatusCode)

	// GET /api/users/me returns the profile without the key
	resp = f.do(t, "GET", "/api/users/me", f.apiKey, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]interface{}
	decode(t, resp, &me)
	assert.Equal(t, "owner@example.com", me["email"])
	_, hasKey := me["apiKey"]
	assert.False(t, hasKey)
}
