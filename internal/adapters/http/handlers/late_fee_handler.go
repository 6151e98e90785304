package handlers

import (
	"lexora-lms/internal/adapters/http/middleware"
	"lexora-lms/internal/adapters/persistence/models"
	"lexora-lms/internal/core/services"
	"lexora-lms/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LateFeeHandler handles late fee endpoints
type LateFeeHandler struct {
	lateFeeService *services.LateFeeService
}

// NewLateFeeHandler creates a new late fee handler
func NewLateFeeHandler(lateFeeService *services.LateFeeService) *LateFeeHandler {
	return &LateFeeHandler{lateFeeService: lateFeeService}
}

func toLateFeeResponses(fees []*models.LateFee) []*models.LateFeeResponse {
	out := make([]*models.LateFeeResponse, 0, len(fees))
	for _, fee := range fees {
		out = append(out, fee.ToResponse())
	}
	return out
}

// Calculate assesses the late fee for an overdue loan
// @Summary Assess late fee
// @Description Create the late fee record for an OVERDUE loan; idempotent per loan
// @Tags LateFees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/late-fee [post]
func (h *LateFeeHandler) Calculate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	fee, err := h.lateFeeService.Calculate(c.Context(), uint(id), middleware.Username(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Late fee assessed successfully", fee.ToResponse())
}

// Preview returns the accrued fee amount without creating a record
// @Summary Preview late fee
// @Description Compute the fee a loan has accrued so far, without persisting anything
// @Tags LateFees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/late-fee/preview [get]
func (h *LateFeeHandler) Preview(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	amount, err := h.lateFeeService.CalculateAmount(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Late fee previewed", fiber.Map{
		"loan_id": uint(id),
		"amount":  amount,
	})
}

// Pay settles a pending late fee
// @Summary Pay late fee
// @Description Transition a PENDING fee to PAID
// @Tags LateFees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Late fee ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /late-fees/{id}/pay [post]
func (h *LateFeeHandler) Pay(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid late fee ID")
	}

	fee, err := h.lateFeeService.Pay(c.Context(), uint(id), middleware.Username(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Late fee paid successfully", fee.ToResponse())
}

// GetByID handles fetching a single late fee
// @Summary Get late fee
// @Tags LateFees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Late fee ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /late-fees/{id} [get]
func (h *LateFeeHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid late fee ID")
	}

	fee, err := h.lateFeeService.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Late fee retrieved successfully", fee.ToResponse())
}

// ListByLoan lists the fees attached to a loan
// @Summary List a loan's late fees
// @Tags LateFees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Router /loans/{id}/late-fees [get]
func (h *LateFeeHandler) ListByLoan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	fees, err := h.lateFeeService.ListByLoan(c.Context(), uint(id))
	if err != nil {
		return response.InternalServerError(c, "Failed to list late fees")
	}

	return response.Success(c, "Late fees retrieved successfully", toLateFeeResponses(fees))
}

// HasUnpaid reports whether a member owes anything
// @Summary Check for unpaid late fees
// @Tags LateFees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Router /members/{id}/has-unpaid [get]
func (h *LateFeeHandler) HasUnpaid(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid member ID")
	}

	hasUnpaid, err := h.lateFeeService.HasUnpaidFees(c.Context(), uint(id))
	if err != nil {
		return response.InternalServerError(c, "Failed to check late fees")
	}

	return response.Success(c, "Late fee status checked", fiber.Map{
		"member_id":  uint(id),
		"has_unpaid": hasUnpaid,
	})
}

// UnpaidByMember lists a member's outstanding fees
// @Summary List a member's unpaid late fees
// @Tags LateFees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Router /members/{id}/late-fees [get]
func (h *LateFeeHandler) UnpaidByMember(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid member ID")
	}

	fees, err := h.lateFeeService.UnpaidByMember(c.Context(), uint(id))
	if err != nil {
		return response.InternalServerError(c, "Failed to list late fees")
	}

	return response.Success(c, "Unpaid late fees retrieved successfully", toLateFeeResponses(fees))
}
