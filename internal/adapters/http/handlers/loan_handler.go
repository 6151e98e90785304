package handlers

import (
	"time"

	"lexora-lms/internal/adapters/http/middleware"
	"lexora-lms/internal/adapters/persistence/models"
	"lexora-lms/internal/adapters/persistence/repositories"
	"lexora-lms/internal/core/services"
	"lexora-lms/internal/pkg/pagination"
	"lexora-lms/internal/pkg/response"
	"lexora-lms/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan lifecycle endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// BorrowRequest is the body for checking out a book
type BorrowRequest struct {
	BookID   uint `json:"book_id" validate:"required"`
	MemberID uint `json:"member_id" validate:"required"`
}

// ListLoansRequest is the body for the filtered list endpoint
type ListLoansRequest struct {
	Page   int                      `json:"page"`
	Limit  int                      `json:"limit"`
	Filter *repositories.LoanFilter `json:"filter"`
}

func toLoanResponses(loans []*models.Loan) []*models.LoanResponse {
	out := make([]*models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		out = append(out, loan.ToResponse())
	}
	return out
}

// Borrow handles book checkout
// @Summary Borrow a book
// @Description Check out a book for a member; decrements available copies
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BorrowRequest true "Borrow data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/borrow [post]
func (h *LoanHandler) Borrow(c *fiber.Ctx) error {
	var req BorrowRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validator.Validate(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	loan, err := h.loanService.Borrow(c.Context(), req.BookID, req.MemberID, middleware.Username(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Book borrowed successfully", loan.ToResponse())
}

// Return handles book return
// @Summary Return a book
// @Description Close a loan; increments available copies
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/return [post]
func (h *LoanHandler) Return(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.Return(c.Context(), uint(id), middleware.Username(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Book returned successfully", loan.ToResponse())
}

// GetByID handles fetching a single loan
// @Summary Get loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Loan retrieved successfully", loan.ToResponse())
}

// List handles loan listing with query-string filters
// @Summary List loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Filter by status (ACTIVE, OVERDUE, RETURNED)"
// @Param overdue query bool false "Only overdue loans"
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := &repositories.LoanFilter{
		Status:  c.Query("status"),
		Overdue: c.QueryBool("overdue"),
	}
	if memberID := c.QueryInt("member_id"); memberID > 0 {
		id := uint(memberID)
		filter.MemberID = &id
	}
	if bookID := c.QueryInt("book_id"); bookID > 0 {
		id := uint(bookID)
		filter.BookID = &id
	}

	loans, total, err := h.loanService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully",
		pagination.NewResponse(toLoanResponses(loans), params, total))
}

// Search handles filtered listing with the filter in the request body
// @Summary Search loans
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ListLoansRequest true "Filter and pagination"
// @Success 200 {object} response.Response
// @Router /loans/list [post]
func (h *LoanHandler) Search(c *fiber.Ctx) error {
	var req ListLoansRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	params := pagination.Normalize(req.Page, req.Limit)
	if req.Filter == nil {
		req.Filter = &repositories.LoanFilter{}
	}

	loans, total, err := h.loanService.List(c.Context(), req.Filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully",
		pagination.NewResponse(toLoanResponses(loans), params, total))
}

// ListByMember handles a member's loan history
// @Summary List a member's loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/loans [get]
func (h *LoanHandler) ListByMember(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid member ID")
	}

	params := pagination.GetParams(c)

	loans, total, err := h.loanService.ListByMember(c.Context(), uint(id), params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Loans retrieved successfully",
		pagination.NewResponse(toLoanResponses(loans), params, total))
}

// ListByBook handles a book's loan history
// @Summary List a book's loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id}/loans [get]
func (h *LoanHandler) ListByBook(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid book ID")
	}

	params := pagination.GetParams(c)

	loans, total, err := h.loanService.ListByBook(c.Context(), uint(id), params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Loans retrieved successfully",
		pagination.NewResponse(toLoanResponses(loans), params, total))
}

// SweepOverdue triggers the overdue sweep on demand
// @Summary Run overdue sweep
// @Description Mark ACTIVE loans past their expected return date as OVERDUE
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/sweep-overdue [post]
func (h *LoanHandler) SweepOverdue(c *fiber.Ctx) error {
	count, err := h.loanService.SweepOverdue(c.Context(), time.Now())
	if err != nil {
		return response.InternalServerError(c, "Failed to run overdue sweep")
	}

	return response.Success(c, "Overdue sweep completed", fiber.Map{
		"marked_overdue": count,
	})
}
