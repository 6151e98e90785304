package repositories

import (
	"context"
	"time"

	"lexora-lms/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID with its book and member preloaded
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("Member").
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// List lists loans with optional filters and pagination
func (r *loanRepository) List(ctx context.Context, filter *LoanFilter, offset, limit int) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Loan{})
	query = applyLoanFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Book").
		Preload("Member").
		Order("borrow_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error

	return loans, total, err
}

// CountActiveByMember counts a member's non-terminal loans (ACTIVE or OVERDUE)
func (r *loanRepository) CountActiveByMember(ctx context.Context, memberID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("member_id = ?", memberID).
		Where("status IN ?", []string{models.LoanStatusActive, models.LoanStatusOverdue}).
		Count(&count).Error
	return count, err
}

// HasActiveLoansForBook checks whether any non-terminal loan references the book
func (r *loanRepository) HasActiveLoansForBook(ctx context.Context, bookID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("book_id = ?", bookID).
		Where("status IN ?", []string{models.LoanStatusActive, models.LoanStatusOverdue}).
		Count(&count).Error
	return count > 0, err
}

// MarkOverdue promotes expired ACTIVE loans to OVERDUE.
// A single UPDATE keeps the sweep row-scoped and idempotent.
func (r *loanRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("status = ?", models.LoanStatusActive).
		Where("expected_return_date < ?", now).
		Update("status", models.LoanStatusOverdue)
	return result.RowsAffected, result.Error
}

func applyLoanFilter(query *gorm.DB, filter *LoanFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.MemberID != nil {
		query = query.Where("member_id = ?", *filter.MemberID)
	}
	if filter.BookID != nil {
		query = query.Where("book_id = ?", *filter.BookID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.BorrowDateFrom != nil {
		query = query.Where("borrow_date >= ?", *filter.BorrowDateFrom)
	}
	if filter.BorrowDateTo != nil {
		query = query.Where("borrow_date <= ?", *filter.BorrowDateTo)
	}
	if filter.ReturnDateFrom != nil {
		query = query.Where("actual_return_date >= ?", *filter.ReturnDateFrom)
	}
	if filter.ReturnDateTo != nil {
		query = query.Where("actual_return_date <= ?", *filter.ReturnDateTo)
	}
	if filter.Overdue {
		query = query.
			Where("status = ?", models.LoanStatusActive).
			Where("expected_return_date < ?", time.Now())
	}
	return query
}
