package api

import (
	"io"
	"net/http"

	"github.com/memvault/memory-vault/internal/api/respond"
	"github.com/memvault/memory-vault/internal/auth"
	"github.com/memvault/memory-vault/internal/services"
)

// maxUploadBytes bounds an uploaded PRD document.
const maxUploadBytes = 16 << 20

type PRDHandler struct {
	svc        *services.PRDService
	authorizer auth.Authorizer
}

func NewPRDHandler(svc *services.PRDService, authorizer auth.Authorizer) *PRDHandler {
	return &PRDHandler{svc: svc, authorizer: authorizer}
}

// Upload POST /api/prd/upload
func (h *PRDHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.authorizer)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.WriteBadRequest(w, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.WriteBadRequest(w, "file is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.WriteBadRequest(w, "failed to read uploaded file")
		return
	}

	out, err := h.svc.Upload(r.Context(), services.UploadRequest{
		UserID:             actor.UserID,
		FileName:           header.Filename,
		Data:               data,
		ProjectName:        r.FormValue("projectName"),
		ProjectDescription: r.FormValue("projectDescription"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}
