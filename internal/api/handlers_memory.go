package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/memvault/memory-vault/internal/api/respond"
	"github.com/memvault/memory-vault/internal/api/validate"
	"github.com/memvault/memory-vault/internal/auth"
	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/services"
)

type MemoryHandler struct {
	svc        *services.MemoryService
	authorizer auth.Authorizer
}

func NewMemoryHandler(svc *services.MemoryService, authorizer auth.Authorizer) *MemoryHandler {
	return &MemoryHandler{svc: svc, authorizer: authorizer}
}

// CreateMemory POST /api/memories
func (h *MemoryHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.authorizer)
	if !ok {
		return
	}

	var req struct {
		Content    string   `json:"content"`
		MemoryType string   `json:"memory_type"`
		Tags       []string `json:"tags"`
		ProjectID  *string  `json:"project_id"`
		IsGlobal   bool     `json:"is_global"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateMemory(req.Content, req.MemoryType); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.CreateMemory(r.Context(), services.CreateMemoryRequest{
		UserID:     actor.UserID,
		Content:    req.Content,
		MemoryType: req.MemoryType,
		Tags:       req.Tags,
		ProjectID:  req.ProjectID,
		IsGlobal:   req.IsGlobal,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListMemories GET /api/memories
func (h *MemoryHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.authorizer)
	if !ok {
		return
	}

	q := r.URL.Query()
	out, err := h.svc.ListMemories(r.Context(), model.ListMemoriesRequest{
		UserID:     actor.UserID,
		ProjectID:  q.Get("project_id"),
		MemoryType: q.Get("type"),
		Search:     q.Get("search"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if out == nil {
		out = []*model.Memory{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"memories": out, "count": len(out)})
}

// DeleteMemory DELETE /api/memories/{memoryId}
func (h *MemoryHandler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.authorizer)
	if !ok {
		return
	}

	memoryID := mux.Vars(r)["memoryId"]
	if err := h.svc.DeleteMemory(r.Context(), actor.UserID, memoryID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
