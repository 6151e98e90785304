package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lexora-lms/internal/adapters/persistence/models"
	"lexora-lms/internal/adapters/persistence/repositories"
	"lexora-lms/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Lending rules
const (
	// LoanPeriodDays is the fixed window from borrow to expected return.
	LoanPeriodDays = 14
	// MaxActiveLoans caps a member's concurrent not-yet-returned loans.
	MaxActiveLoans = 5
)

// LoanService is the loan ledger: it creates loans, returns them, and keeps
// book copy counts consistent with loan state.
type LoanService struct {
	db         *gorm.DB
	loanRepo   repositories.LoanRepository
	bookRepo   repositories.BookRepository
	memberRepo repositories.MemberRepository
	audit      *AuditService
}

// NewLoanService creates a new loan service
func NewLoanService(
	db *gorm.DB,
	loanRepo repositories.LoanRepository,
	bookRepo repositories.BookRepository,
	memberRepo repositories.MemberRepository,
	audit *AuditService,
) *LoanService {
	return &LoanService{
		db:         db,
		loanRepo:   loanRepo,
		bookRepo:   bookRepo,
		memberRepo: memberRepo,
		audit:      audit,
	}
}

// Borrow creates a loan and decrements the book's available copies in one
// transaction. The book row is locked so two concurrent borrows of the last
// copy cannot both succeed. Preconditions are checked in a fixed order:
// member exists, member active, book exists, copies available, loan cap.
func (s *LoanService) Borrow(ctx context.Context, bookID, memberID uint, performedBy string) (*models.Loan, error) {
	log.Printf("📚 Borrow request: book %d, member %d", bookID, memberID)

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	if !member.Active {
		return nil, domain.ErrMemberNotActive
	}

	var loanID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}

		if book.AvailableCopies <= 0 {
			return domain.ErrNoAvailableCopies
		}

		var active int64
		if err := tx.Model(&models.Loan{}).
			Where("member_id = ?", memberID).
			Where("status IN ?", []string{models.LoanStatusActive, models.LoanStatusOverdue}).
			Count(&active).Error; err != nil {
			return err
		}
		if active >= MaxActiveLoans {
			return domain.ErrLoanLimitReached
		}

		now := time.Now()
		loan := &models.Loan{
			BookID:             bookID,
			MemberID:           memberID,
			BorrowDate:         now,
			ExpectedReturnDate: now.AddDate(0, 0, LoanPeriodDays),
			Status:             models.LoanStatusActive,
		}
		if err := tx.Create(loan).Error; err != nil {
			return err
		}
		loanID = loan.ID

		return tx.Model(&book).
			Update("available_copies", gorm.Expr("available_copies - 1")).Error
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, models.AuditActionCreate, models.AuditEntityLoan, loanID,
		fmt.Sprintf("Borrowed book %d for member %d", bookID, memberID), performedBy)

	log.Printf("✅ Book borrowed, loan ID: %d", loanID)
	return s.loanRepo.GetByID(ctx, loanID)
}

// Return marks a loan RETURNED and restores one available copy. Valid from
// both ACTIVE and OVERDUE; RETURNED is terminal.
func (s *LoanService) Return(ctx context.Context, loanID uint, performedBy string) (*models.Loan, error) {
	log.Printf("📚 Return request: loan %d", loanID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := tx.First(&loan, loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return err
		}

		if loan.IsReturned() {
			return domain.ErrLoanAlreadyReturned
		}

		var book models.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&book, loan.BookID).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&loan).Updates(map[string]interface{}{
			"status":             models.LoanStatusReturned,
			"actual_return_date": now,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&book).
			Update("available_copies", gorm.Expr("available_copies + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, models.AuditActionUpdate, models.AuditEntityLoan, loanID,
		"Returned book", performedBy)

	log.Printf("✅ Book returned, loan ID: %d", loanID)
	return s.loanRepo.GetByID(ctx, loanID)
}

// GetByID gets a loan by ID
func (s *LoanService) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// CanBorrow reports whether the member is under the concurrent loan cap.
func (s *LoanService) CanBorrow(ctx context.Context, memberID uint) (bool, error) {
	count, err := s.loanRepo.CountActiveByMember(ctx, memberID)
	if err != nil {
		return false, err
	}
	return count < MaxActiveLoans, nil
}

// CountActiveLoans counts a member's ACTIVE and OVERDUE loans
func (s *LoanService) CountActiveLoans(ctx context.Context, memberID uint) (int64, error) {
	return s.loanRepo.CountActiveByMember(ctx, memberID)
}

// ListByMember lists loans for a member
func (s *LoanService) ListByMember(ctx context.Context, memberID uint, offset, limit int) ([]*models.Loan, int64, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domain.ErrMemberNotFound
		}
		return nil, 0, err
	}
	return s.loanRepo.List(ctx, &repositories.LoanFilter{MemberID: &memberID}, offset, limit)
}

// ListByBook lists loans for a book
func (s *LoanService) ListByBook(ctx context.Context, bookID uint, offset, limit int) ([]*models.Loan, int64, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domain.ErrBookNotFound
		}
		return nil, 0, err
	}
	return s.loanRepo.List(ctx, &repositories.LoanFilter{BookID: &bookID}, offset, limit)
}

// List lists loans with filters and pagination
func (s *LoanService) List(ctx context.Context, filter *repositories.LoanFilter, offset, limit int) ([]*models.Loan, int64, error) {
	return s.loanRepo.List(ctx, filter, offset, limit)
}

// SweepOverdue promotes expired ACTIVE loans to OVERDUE and returns the
// number of loans transitioned. Running it again with no intervening change
// transitions nothing.
func (s *LoanService) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.loanRepo.MarkOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Printf("⏰ Overdue sweep: %d loan(s) marked OVERDUE", count)
	}
	return count, nil
}
