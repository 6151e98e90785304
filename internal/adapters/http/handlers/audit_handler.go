package handlers

import (
	"lexora-lms/internal/adapters/persistence/repositories"
	"lexora-lms/internal/core/services"
	"lexora-lms/internal/pkg/pagination"
	"lexora-lms/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuditHandler handles audit trail endpoints
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List handles audit log listing
// @Summary List audit entries
// @Description List audit trail entries, newest first
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param action query string false "Filter by action (CREATE, UPDATE, DELETE)"
// @Param entity_type query string false "Filter by entity type (BOOK, MEMBER, LOAN, LATE_FEE)"
// @Param performed_by query string false "Filter by actor"
// @Success 200 {object} response.Response
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := &repositories.AuditFilter{
		Action:      c.Query("action"),
		EntityType:  c.Query("entity_type"),
		PerformedBy: c.Query("performed_by"),
	}
	if entityID := c.QueryInt("entity_id"); entityID > 0 {
		id := uint(entityID)
		filter.EntityID = &id
	}

	entries, total, err := h.auditService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list audit entries")
	}

	return response.Success(c, "Audit entries retrieved successfully",
		pagination.NewResponse(entries, params, total))
}
