package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/memvault/memory-vault/internal/blob"
	"github.com/memvault/memory-vault/internal/model"
	"github.com/memvault/memory-vault/internal/prd"
	"github.com/memvault/memory-vault/internal/store"
)

// DefaultProjectDescription is used when the upload form omits one.
const DefaultProjectDescription = "Project created from PRD upload"

// PRDService handles document upload: extraction, file storage, project
// creation and section segmentation.
type PRDService struct {
	store store.Store
	files blob.FileStore
	log   zerolog.Logger
}

func NewPRDService(s store.Store, files blob.FileStore, log zerolog.Logger) *PRDService {
	return &PRDService{store: s, files: files, log: log}
}

// UploadRequest carries one uploaded document plus optional project metadata.
type UploadRequest struct {
	UserID             string
	FileName           string
	Data               []byte
	ProjectName        string
	ProjectDescription string
}

// UploadResult reports the created project and how many sections were extracted.
type UploadResult struct {
	Project       *model.Project `json:"project"`
	SectionsCount int            `json:"sectionsCount"`
}

// Upload extracts text, stores the original file, creates a project and
// bulk-inserts the segmented sections. Extraction and storage failures are
// fatal; there is no partial success beyond the stored original file.
func (s *PRDService) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	text, err := prd.ExtractText(req.FileName, req.Data)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(text)) < prd.MinDocumentChars {
		return nil, fmt.Errorf("%w: file appears to be empty or too short", model.ErrValidation)
	}

	fileRef, err := s.files.Save(req.UserID, req.FileName, req.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to store uploaded file: %w", err)
	}

	name := req.ProjectName
	if name == "" {
		name = strings.TrimSuffix(req.FileName, filepath.Ext(req.FileName))
	}
	description := req.ProjectDescription
	if description == "" {
		description = DefaultProjectDescription
	}
	project, err := s.store.Projects().Create(ctx, &model.Project{
		UserID:      req.UserID,
		Name:        name,
		Description: &description,
		Status:      "active",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	segments := prd.Segment(text)
	sections := make([]*model.PRDSection, 0, len(segments))
	for _, seg := range segments {
		sections = append(sections, &model.PRDSection{
			ProjectID:    project.ProjectID,
			UserID:       req.UserID,
			Title:        seg.Title,
			Content:      seg.Content,
			SectionOrder: seg.Order,
			SectionType:  "other",
			FileName:     req.FileName,
			FileRef:      fileRef,
		})
	}
	if err := s.store.Sections().CreateBatch(ctx, sections); err != nil {
		return nil, fmt.Errorf("failed to save PRD sections: %w", err)
	}

	s.log.Info().
		Str("user_id", req.UserID).
		Str("project_id", project.ProjectID).
		Int("sections", len(sections)).
		Msg("PRD uploaded")

	return &UploadResult{Project: project, SectionsCount: len(sections)}, nil
}
