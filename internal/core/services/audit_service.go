package services

import (
	"context"
	"log"

	"lexora-lms/internal/adapters/persistence/models"
	"lexora-lms/internal/adapters/persistence/repositories"
)

// AuditService records who did what to which entity.
type AuditService struct {
	auditRepo repositories.AuditLogRepository
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo repositories.AuditLogRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// Log appends an audit entry. Fire-and-forget: a failed write is logged and
// swallowed so an audit outage never rolls back the operation being audited.
// performedBy is passed in explicitly by the caller.
func (s *AuditService) Log(ctx context.Context, action, entityType string, entityID uint, details, performedBy string) {
	if performedBy == "" {
		performedBy = "SYSTEM"
	}

	entry := &models.AuditLog{
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Details:     details,
		PerformedBy: performedBy,
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("⚠️ Audit write failed [%s %s %d]: %v", action, entityType, entityID, err)
	}
}

// List lists audit entries with filters and pagination
func (s *AuditService) List(ctx context.Context, filter *repositories.AuditFilter, offset, limit int) ([]*models.AuditLog, int64, error) {
	return s.auditRepo.List(ctx, filter, offset, limit)
}
