package handlers

import (
	"lexora-lms/internal/adapters/http/middleware"
	"lexora-lms/internal/adapters/persistence/repositories"
	"lexora-lms/internal/core/services"
	"lexora-lms/internal/pkg/pagination"
	"lexora-lms/internal/pkg/response"
	"lexora-lms/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles membership endpoints
type MemberHandler struct {
	memberService *services.MemberService
	loanService   *services.LoanService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService, loanService *services.LoanService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		loanService:   loanService,
	}
}

// ListMembersRequest is the body for the filtered list endpoint
type ListMembersRequest struct {
	Page   int                        `json:"page"`
	Limit  int                        `json:"limit"`
	Filter *repositories.MemberFilter `json:"filter"`
}

// Create handles member registration
// @Summary Register member
// @Description Register a new library member; membership ID is generated server-side
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateMemberInput true "Member data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members [post]
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var input services.CreateMemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validator.Validate(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	member, err := h.memberService.Create(c.Context(), &input, middleware.Username(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Member registered successfully", member)
}

// GetByID handles fetching a single member
// @Summary Get member
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *MemberHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Member retrieved successfully", member)
}

// GetByEmail handles email lookup
// @Summary Get member by email
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/email/{email} [get]
func (h *MemberHandler) GetByEmail(c *fiber.Ctx) error {
	email := c.Params("email")
	if email == "" {
		return response.BadRequest(c, "Email is required")
	}

	member, err := h.memberService.GetByEmail(c.Context(), email)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Member retrieved successfully", member)
}

// GetByMembershipID handles membership ID lookup
// @Summary Get member by membership ID
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param membershipId path string true "Membership ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/membership/{membershipId} [get]
func (h *MemberHandler) GetByMembershipID(c *fiber.Ctx) error {
	membershipID := c.Params("membershipId")
	if membershipID == "" {
		return response.BadRequest(c, "Membership ID is required")
	}

	member, err := h.memberService.GetByMembershipID(c.Context(), membershipID)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Member retrieved successfully", member)
}

// List handles simple listing with query-string filters
// @Summary List members
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param name query string false "Filter by name"
// @Param email query string false "Filter by email"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := &repositories.MemberFilter{
		Name:         c.Query("name"),
		Email:        c.Query("email"),
		MembershipID: c.Query("membership_id"),
	}
	if c.Query("active") != "" {
		active := c.QueryBool("active")
		filter.Active = &active
	}

	members, total, err := h.memberService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	return response.Success(c, "Members retrieved successfully",
		pagination.NewResponse(members, params, total))
}

// Search handles filtered listing with the filter in the request body
// @Summary Search members
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ListMembersRequest true "Filter and pagination"
// @Success 200 {object} response.Response
// @Router /members/list [post]
func (h *MemberHandler) Search(c *fiber.Ctx) error {
	var req ListMembersRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	params := pagination.Normalize(req.Page, req.Limit)
	if req.Filter == nil {
		req.Filter = &repositories.MemberFilter{}
	}

	members, total, err := h.memberService.List(c.Context(), req.Filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	return response.Success(c, "Members retrieved successfully",
		pagination.NewResponse(members, params, total))
}

// Update handles member updates
// @Summary Update member
// @Description Update contact details; membership ID and active flag are immutable here
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param body body services.UpdateMemberInput true "Member data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members/{id} [put]
func (h *MemberHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid member ID")
	}

	var input services.UpdateMemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validator.Validate(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	member, err := h.memberService.Update(c.Context(), uint(id), &input, middleware.Username(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Member updated successfully", member)
}

// Deactivate handles member deactivation
// @Summary Deactivate member
// @Description Flip the member inactive; existing loans stay open
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/deactivate [post]
func (h *MemberHandler) Deactivate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.Deactivate(c.Context(), uint(id), middleware.Username(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Member deactivated successfully", member)
}

// CanBorrow reports whether the member may take out another loan
// @Summary Check borrow eligibility
// @Description Report whether the member is active and under the loan cap
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/can-borrow [get]
func (h *MemberHandler) CanBorrow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	activeLoans, err := h.loanService.CountActiveLoans(c.Context(), member.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to count active loans")
	}

	canBorrow := member.Active && activeLoans < services.MaxActiveLoans

	return response.Success(c, "Eligibility checked", fiber.Map{
		"member_id":    member.ID,
		"active":       member.Active,
		"active_loans": activeLoans,
		"max_loans":    services.MaxActiveLoans,
		"can_borrow":   canBorrow,
	})
}
