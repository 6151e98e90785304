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

// BookHandler handles catalog endpoints
type BookHandler struct {
	bookService *services.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// ListBooksRequest is the body for the filtered list endpoint
type ListBooksRequest struct {
	Page   int                      `json:"page"`
	Limit  int                      `json:"limit"`
	Filter *repositories.BookFilter `json:"filter"`
}

// Create handles book creation
// @Summary Create book
// @Description Add a new title to the catalog
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateBookInput true "Book data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var input services.CreateBookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validator.Validate(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	book, err := h.bookService.Create(c.Context(), &input, middleware.Username(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Book created successfully", book)
}

// GetByID handles fetching a single book
// @Summary Get book
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [get]
func (h *BookHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.bookService.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Book retrieved successfully", book)
}

// GetByISBN handles ISBN lookup
// @Summary Get book by ISBN
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param isbn path string true "ISBN"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/isbn/{isbn} [get]
func (h *BookHandler) GetByISBN(c *fiber.Ctx) error {
	isbn := c.Params("isbn")
	if isbn == "" {
		return response.BadRequest(c, "ISBN is required")
	}

	book, err := h.bookService.GetByISBN(c.Context(), isbn)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Book retrieved successfully", book)
}

// List handles simple listing with query-string filters
// @Summary List books
// @Description List books, optionally filtered by title, author, category or availability
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param title query string false "Filter by title"
// @Param author query string false "Filter by author"
// @Param category query string false "Filter by category"
// @Param available query bool false "Only books with available copies"
// @Success 200 {object} response.Response
// @Router /books [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := &repositories.BookFilter{
		Title:         c.Query("title"),
		Author:        c.Query("author"),
		ISBN:          c.Query("isbn"),
		Category:      c.Query("category"),
		AvailableOnly: c.QueryBool("available"),
	}

	books, total, err := h.bookService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list books")
	}

	return response.Success(c, "Books retrieved successfully",
		pagination.NewResponse(books, params, total))
}

// Search handles filtered listing with the filter in the request body
// @Summary Search books
// @Description List books with a structured filter
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ListBooksRequest true "Filter and pagination"
// @Success 200 {object} response.Response
// @Router /books/list [post]
func (h *BookHandler) Search(c *fiber.Ctx) error {
	var req ListBooksRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	params := pagination.Normalize(req.Page, req.Limit)
	if req.Filter == nil {
		req.Filter = &repositories.BookFilter{}
	}

	books, total, err := h.bookService.List(c.Context(), req.Filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list books")
	}

	return response.Success(c, "Books retrieved successfully",
		pagination.NewResponse(books, params, total))
}

// Update handles book updates
// @Summary Update book
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param body body services.UpdateBookInput true "Book data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books/{id} [put]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid book ID")
	}

	var input services.UpdateBookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validator.Validate(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	book, err := h.bookService.Update(c.Context(), uint(id), &input, middleware.Username(c))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Book updated successfully", book)
}

// Delete handles book removal
// @Summary Delete book
// @Description Remove a book; blocked while active loans reference it
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid book ID")
	}

	if err := h.bookService.Delete(c.Context(), uint(id), middleware.Username(c)); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Book deleted successfully", nil)
}
