package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"buildtrack/backend/internal/model"
	"buildtrack/backend/internal/repository"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id,omitempty"`
	UserName   string `json:"user_name,omitempty"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id,omitempty"`
	EntityName string `json:"entity_name,omitempty"`
	Details    string `json:"details,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	ListLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) ListLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error) {
	entries, total, err := s.auditRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		item := AuditLogResponse{
			ID:         e.ID.String(),
			Action:     e.Action,
			EntityID:   e.EntityID,
			EntityName: e.EntityName,
			Details:    e.Details,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		}
		if e.UserID != nil {
			item.UserID = e.UserID.String()
		}
		if e.User != nil {
			item.UserName = e.User.Username
		}
		res = append(res, item)
	}
	return res, total, nil
}

// logAuditEntry writes a best-effort audit record. Audit failures never
// fail the operation that produced them.
func logAuditEntry(ctx context.Context, repo repository.AuditRepository, userID uuid.UUID, action, entityID, entityName string, details map[string]interface{}) {
	if repo == nil {
		return
	}

	payload := ""
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			payload = string(data)
		}
	}

	entry := &model.AuditLog{
		UserID:     &userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    payload,
	}
	if err := repo.Log(ctx, entry); err != nil {
		log.Printf("failed to write audit log for %s: %v", action, err)
	}
}
