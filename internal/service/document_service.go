package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buildtrack/backend/internal/model"
	"buildtrack/backend/internal/repository"
	"buildtrack/backend/internal/websocket"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateDocumentRequest struct {
	ProjectID  string `json:"project_id"`
	Name       string `json:"name" binding:"required"`
	StorageURL string `json:"storage_url" binding:"required"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

type DocumentResponse struct {
	ID         string `json:"id"`
	ProjectID  string `json:"project_id,omitempty"`
	Name       string `json:"name"`
	StorageURL string `json:"storage_url"`
	MimeType   string `json:"mime_type,omitempty"`
	SizeBytes  int64  `json:"size_bytes"`
	UploadedBy string `json:"uploaded_by"`
	CreatedAt  string `json:"created_at"`
}

// --- Interface ---

type DocumentService interface {
	AddDocument(ctx context.Context, uploaderID string, req CreateDocumentRequest) (*DocumentResponse, error)
	ListDocuments(ctx context.Context, projectID string, page, limit int) ([]DocumentResponse, int64, error)
	DeleteDocument(ctx context.Context, id string) error
}

type documentService struct {
	documentRepo repository.DocumentRepository
	projectRepo  repository.ProjectRepository
	hub          *websocket.Hub
}

func NewDocumentService(
	documentRepo repository.DocumentRepository,
	projectRepo repository.ProjectRepository,
	hub *websocket.Hub,
) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		projectRepo:  projectRepo,
		hub:          hub,
	}
}

// --- Implementation ---

func (s *documentService) AddDocument(ctx context.Context, uploaderID string, req CreateDocumentRequest) (*DocumentResponse, error) {
	uploader, err := uuid.Parse(uploaderID)
	if err != nil {
		return nil, fmt.Errorf("invalid uploader id: %w", err)
	}

	var projectID *uuid.UUID
	if req.ProjectID != "" {
		parsed, err := uuid.Parse(req.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("invalid project id: %w", err)
		}
		if _, err := s.projectRepo.FindByID(ctx, parsed); err != nil {
			return nil, errors.New("project not found")
		}
		projectID = &parsed
	}

	doc := &model.Document{
		ProjectID:  projectID,
		Name:       req.Name,
		StorageURL: req.StorageURL,
		MimeType:   req.MimeType,
		SizeBytes:  req.SizeBytes,
		UploadedBy: uploader,
	}

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	if s.hub != nil && projectID != nil {
		s.hub.BroadcastEvent(websocket.Event{
			Type:      websocket.EventDocumentAdded,
			ProjectID: projectID.String(),
			Payload:   map[string]interface{}{"document_id": doc.ID.String(), "name": doc.Name},
		})
	}

	resp := toDocumentResponse(doc)
	return &resp, nil
}

func (s *documentService) ListDocuments(ctx context.Context, projectID string, page, limit int) ([]DocumentResponse, int64, error) {
	var filter *uuid.UUID
	if projectID != "" {
		parsed, err := uuid.Parse(projectID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid project id: %w", err)
		}
		filter = &parsed
	}

	docs, total, err := s.documentRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		res = append(res, toDocumentResponse(&docs[i]))
	}
	return res, total, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	docID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid document id: %w", err)
	}

	if _, err := s.documentRepo.FindByID(ctx, docID); err != nil {
		return errors.New("document not found")
	}

	return s.documentRepo.Delete(ctx, docID)
}

func toDocumentResponse(d *model.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:         d.ID.String(),
		Name:       d.Name,
		StorageURL: d.StorageURL,
		MimeType:   d.MimeType,
		SizeBytes:  d.SizeBytes,
		UploadedBy: d.UploadedBy.String(),
		CreatedAt:  d.CreatedAt.Format(time.RFC3339),
	}
	if d.ProjectID != nil {
		resp.ProjectID = d.ProjectID.String()
	}
	return resp
}
