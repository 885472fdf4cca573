package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/memvault/memory-vault/internal/api/respond"
	"github.com/memvault/memory-vault/internal/auth"
	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/services"
)

const defaultListLimit = 50

type ProjectHandler struct {
	svc        *services.ProjectService
	authorizer auth.Authorizer
}

func NewProjectHandler(svc *services.ProjectService, authorizer auth.Authorizer) *ProjectHandler {
	return &ProjectHandler{svc: svc, authorizer: authorizer}
}

// ListProjects GET /api/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.authorizer)
	if !ok {
		return
	}

	out, err := h.svc.ListProjects(r.Context(), actor.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if out == nil {
		out = []*model.Project{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"projects": out, "count": len(out)})
}

// GetProject GET /api/projects/{projectId}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.authorizer)
	if !ok {
		return
	}

	out, err := h.svc.GetProject(r.Context(), actor.UserID, mux.Vars(r)["projectId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ListSections GET /api/projects/{projectId}/sections
func (h *ProjectHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.authorizer)
	if !ok {
		return
	}

	out, err := h.svc.ListSections(r.Context(), actor.UserID, mux.Vars(r)["projectId"], queryLimit(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if out == nil {
		out = []*model.PRDSection{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"sections": out, "count": len(out)})
}

// ListConversations GET /api/conversations
func (h *ProjectHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.authorizer)
	if !ok {
		return
	}

	out, err := h.svc.ListConversations(r.Context(), actor.UserID, r.URL.Query().Get("project_id"), queryLimit(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if out == nil {
		out = []*model.ConversationTurn{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"conversations": out, "count": len(out)})
}

func queryLimit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultListLimit
}
