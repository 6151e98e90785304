package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"lexora-lms/internal/adapters/persistence/models"
	"lexora-lms/internal/adapters/persistence/repositories"
	"lexora-lms/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookService handles catalog business logic
type BookService struct {
	db       *gorm.DB
	bookRepo repositories.BookRepository
	loanRepo repositories.LoanRepository
	audit    *AuditService
}

// NewBookService creates a new book service
func NewBookService(
	db *gorm.DB,
	bookRepo repositories.BookRepository,
	loanRepo repositories.LoanRepository,
	audit *AuditService,
) *BookService {
	return &BookService{
		db:       db,
		bookRepo: bookRepo,
		loanRepo: loanRepo,
		audit:    audit,
	}
}

// CreateBookInput represents create book input
type CreateBookInput struct {
	Title           string `json:"title" validate:"required,max=200"`
	Author          string `json:"author" validate:"required,max=150"`
	ISBN            string `json:"isbn" validate:"required,max=20"`
	Category        string `json:"category,omitempty" validate:"max=100"`
	PublicationYear int    `json:"publication_year,omitempty"`
	TotalCopies     int    `json:"total_copies" validate:"required,gt=0"`
}

// Create creates a new book. New books start with all copies available.
func (s *BookService) Create(ctx context.Context, input *CreateBookInput, performedBy string) (*models.Book, error) {
	log.Printf("📖 Creating book with ISBN %s", input.ISBN)

	exists, err := s.bookRepo.ExistsByISBN(ctx, input.ISBN)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateISBN
	}

	book := &models.Book{
		Title:           input.Title,
		Author:          input.Author,
		ISBN:            input.ISBN,
		Category:        input.Category,
		PublicationYear: input.PublicationYear,
		TotalCopies:     input.TotalCopies,
		AvailableCopies: input.TotalCopies,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateISBN
		}
		return nil, err
	}

	s.audit.Log(ctx, models.AuditActionCreate, models.AuditEntityBook, book.ID,
		"Created book: "+bookDetails(book), performedBy)

	log.Printf("✅ Book created, ID: %d", book.ID)
	return book, nil
}

// GetByID gets a book by ID
func (s *BookService) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// GetByISBN gets a book by ISBN
func (s *BookService) GetByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	book, err := s.bookRepo.GetByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// UpdateBookInput represents update book input
type UpdateBookInput struct {
	Title           string `json:"title" validate:"required,max=200"`
	Author          string `json:"author" validate:"required,max=150"`
	ISBN            string `json:"isbn" validate:"required,max=20"`
	Category        string `json:"category,omitempty" validate:"max=100"`
	PublicationYear int    `json:"publication_year,omitempty"`
	TotalCopies     int    `json:"total_copies" validate:"required,gt=0"`
}

// Update updates a book. A change to totalCopies moves availableCopies by the
// same delta, clamped so 0 <= available <= total still holds; the book row is
// locked so the adjustment cannot race a borrow or return.
func (s *BookService) Update(ctx context.Context, id uint, input *UpdateBookInput, performedBy string) (*models.Book, error) {
	log.Printf("📖 Updating book %d", id)

	var updated *models.Book
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&book, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}

		if book.ISBN != input.ISBN {
			var count int64
			if err := tx.Model(&models.Book{}).Where("isbn = ?", input.ISBN).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return domain.ErrDuplicateISBN
			}
		}

		delta := input.TotalCopies - book.TotalCopies
		available := book.AvailableCopies + delta
		if available < 0 {
			available = 0
		}
		if available > input.TotalCopies {
			available = input.TotalCopies
		}

		book.Title = input.Title
		book.Author = input.Author
		book.ISBN = input.ISBN
		book.Category = input.Category
		book.PublicationYear = input.PublicationYear
		book.TotalCopies = input.TotalCopies
		book.AvailableCopies = available

		if err := tx.Save(&book).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateISBN
			}
			return err
		}

		updated = &book
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, models.AuditActionUpdate, models.AuditEntityBook, updated.ID,
		"Updated book: "+updated.Title, performedBy)

	log.Printf("✅ Book updated, ID: %d", id)
	return updated, nil
}

// Delete removes a book from the catalog. Blocked while any not-yet-returned
// loan references it.
func (s *BookService) Delete(ctx context.Context, id uint, performedBy string) error {
	log.Printf("📖 Deleting book %d", id)

	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBookNotFound
		}
		return err
	}

	hasActive, err := s.loanRepo.HasActiveLoansForBook(ctx, id)
	if err != nil {
		return err
	}
	if hasActive {
		return domain.ErrBookHasActiveLoans
	}

	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Log(ctx, models.AuditActionDelete, models.AuditEntityBook, id,
		"Deleted book: "+book.Title, performedBy)

	log.Printf("✅ Book deleted, ID: %d", id)
	return nil
}

// List lists books with filters and pagination
func (s *BookService) List(ctx context.Context, filter *repositories.BookFilter, offset, limit int) ([]*models.Book, int64, error) {
	return s.bookRepo.List(ctx, filter, offset, limit)
}

// IsISBNUnique reports whether no book carries the given ISBN
func (s *BookService) IsISBNUnique(ctx context.Context, isbn string) (bool, error) {
	exists, err := s.bookRepo.ExistsByISBN(ctx, isbn)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func bookDetails(book *models.Book) string {
	return fmt.Sprintf("%s by %s (%s)", book.Title, book.Author, book.ISBN)
}
