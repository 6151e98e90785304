package repositories

import (
	"context"
	"time"

	"lexora-lms/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// lateFeeRepository implements LateFeeRepository interface
type lateFeeRepository struct {
	db *gorm.DB
}

// NewLateFeeRepository creates a new late fee repository
func NewLateFeeRepository(db *gorm.DB) LateFeeRepository {
	return &lateFeeRepository{db: db}
}

// Create creates a new late fee
func (r *lateFeeRepository) Create(ctx context.Context, fee *models.LateFee) error {
	return r.db.WithContext(ctx).Create(fee).Error
}

// GetByID gets a late fee by ID with loan, book and member preloaded
func (r *lateFeeRepository) GetByID(ctx context.Context, id uint) (*models.LateFee, error) {
	var fee models.LateFee
	err := r.db.WithContext(ctx).
		Preload("Loan").
		Preload("Loan.Book").
		Preload("Loan.Member").
		First(&fee, id).Error
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

// GetByLoanID gets the late fee for a loan, if one exists
func (r *lateFeeRepository) GetByLoanID(ctx context.Context, loanID uint) (*models.LateFee, error) {
	var fee models.LateFee
	err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&fee).Error
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

// MarkPaid transitions a fee to PAID with the payment timestamp
func (r *lateFeeRepository) MarkPaid(ctx context.Context, id uint, paidAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.LateFee{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":    models.FeeStatusPaid,
			"paid_date": paidAt,
		}).Error
}

// ListByLoan lists late fees for a loan
func (r *lateFeeRepository) ListByLoan(ctx context.Context, loanID uint) ([]*models.LateFee, error) {
	var fees []*models.LateFee
	err := r.db.WithContext(ctx).
		Preload("Loan").
		Preload("Loan.Book").
		Preload("Loan.Member").
		Where("loan_id = ?", loanID).
		Order("created_at DESC").
		Find(&fees).Error
	return fees, err
}

// ListUnpaidByMember lists PENDING fees linked to a member through their loans
func (r *lateFeeRepository) ListUnpaidByMember(ctx context.Context, memberID uint) ([]*models.LateFee, error) {
	var fees []*models.LateFee
	err := r.db.WithContext(ctx).
		Preload("Loan").
		Preload("Loan.Book").
		Preload("Loan.Member").
		Joins("JOIN loans ON loans.id = late_fees.loan_id").
		Where("loans.member_id = ?", memberID).
		Where("late_fees.status = ?", models.FeeStatusPending).
		Order("late_fees.created_at DESC").
		Find(&fees).Error
	return fees, err
}

// HasUnpaidByMember checks whether a member has any PENDING fee
func (r *lateFeeRepository) HasUnpaidByMember(ctx context.Context, memberID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LateFee{}).
		Joins("JOIN loans ON loans.id = late_fees.loan_id").
		Where("loans.member_id = ?", memberID).
		Where("late_fees.status = ?", models.FeeStatusPending).
		Count(&count).Error
	return count > 0, err
}
