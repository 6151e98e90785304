package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"lexora-lms/internal/adapters/persistence/models"
	"lexora-lms/internal/adapters/persistence/repositories"
	"lexora-lms/internal/core/domain"

	"gorm.io/gorm"
)

// DailyLateFeeRate is the fee accrued per full day overdue, in currency units.
const DailyLateFeeRate = 1.00

// LateFeeService derives late fees from loan timestamps and tracks payment.
type LateFeeService struct {
	feeRepo  repositories.LateFeeRepository
	loanRepo repositories.LoanRepository
	audit    *AuditService
}

// NewLateFeeService creates a new late fee service
func NewLateFeeService(
	feeRepo repositories.LateFeeRepository,
	loanRepo repositories.LoanRepository,
	audit *AuditService,
) *LateFeeService {
	return &LateFeeService{
		feeRepo:  feeRepo,
		loanRepo: loanRepo,
		audit:    audit,
	}
}

// Calculate creates the persisted fee for an OVERDUE loan. At most one fee
// per loan: the pre-check catches the common case and the unique index on
// loan_id closes the concurrent window.
func (s *LateFeeService) Calculate(ctx context.Context, loanID uint, performedBy string) (*models.LateFee, error) {
	log.Printf("💰 Calculating late fee for loan %d", loanID)

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	if loan.Status != models.LoanStatusOverdue {
		return nil, domain.ErrLoanNotOverdue
	}

	if _, err := s.feeRepo.GetByLoanID(ctx, loanID); err == nil {
		return nil, domain.ErrLateFeeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	daysOverdue := wholeDaysBetween(loan.ExpectedReturnDate, now)
	if daysOverdue < 0 {
		daysOverdue = 0
	}

	fee := &models.LateFee{
		LoanID:      loanID,
		Amount:      roundToCents(DailyLateFeeRate * float64(daysOverdue)),
		DaysOverdue: daysOverdue,
		Status:      models.FeeStatusPending,
	}

	if err := s.feeRepo.Create(ctx, fee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrLateFeeExists
		}
		return nil, err
	}

	s.audit.Log(ctx, models.AuditActionCreate, models.AuditEntityLateFee, fee.ID,
		fmt.Sprintf("Late fee %.2f for loan %d (%d days overdue)", fee.Amount, loanID, daysOverdue), performedBy)

	log.Printf("✅ Late fee created for loan %d: %.2f", loanID, fee.Amount)
	return s.feeRepo.GetByID(ctx, fee.ID)
}

// CalculateAmount previews the fee amount without persisting anything.
// Uses the actual return date when the loan is already returned, otherwise
// the current time. Zero when the loan is not past its expected return.
func (s *LateFeeService) CalculateAmount(ctx context.Context, loanID uint) (float64, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrLoanNotFound
		}
		return 0, err
	}

	effectiveEnd := time.Now()
	if loan.ActualReturnDate != nil {
		effectiveEnd = *loan.ActualReturnDate
	}

	daysLate := wholeDaysBetween(loan.ExpectedReturnDate, effectiveEnd)
	if daysLate <= 0 {
		return 0, nil
	}

	return roundToCents(DailyLateFeeRate * float64(daysLate)), nil
}

// Pay settles a PENDING fee
func (s *LateFeeService) Pay(ctx context.Context, feeID uint, performedBy string) (*models.LateFee, error) {
	log.Printf("💰 Paying late fee %d", feeID)

	fee, err := s.feeRepo.GetByID(ctx, feeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLateFeeNotFound
		}
		return nil, err
	}

	if fee.Status != models.FeeStatusPending {
		return nil, domain.ErrLateFeeNotPending
	}

	if err := s.feeRepo.MarkPaid(ctx, feeID, time.Now()); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, models.AuditActionUpdate, models.AuditEntityLateFee, feeID,
		fmt.Sprintf("Late fee %.2f paid", fee.Amount), performedBy)

	log.Printf("✅ Late fee %d paid", feeID)
	return s.feeRepo.GetByID(ctx, feeID)
}

// GetByID gets a late fee by ID
func (s *LateFeeService) GetByID(ctx context.Context, id uint) (*models.LateFee, error) {
	fee, err := s.feeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLateFeeNotFound
		}
		return nil, err
	}
	return fee, nil
}

// ListByLoan lists fees recorded against a loan
func (s *LateFeeService) ListByLoan(ctx context.Context, loanID uint) ([]*models.LateFee, error) {
	return s.feeRepo.ListByLoan(ctx, loanID)
}

// UnpaidByMember lists a member's PENDING fees
func (s *LateFeeService) UnpaidByMember(ctx context.Context, memberID uint) ([]*models.LateFee, error) {
	return s.feeRepo.ListUnpaidByMember(ctx, memberID)
}

// HasUnpaidFees reports whether any fee linked to the member is PENDING
func (s *LateFeeService) HasUnpaidFees(ctx context.Context, memberID uint) (bool, error) {
	return s.feeRepo.HasUnpaidByMember(ctx, memberID)
}

// wholeDaysBetween returns the number of full 24h days from start to end,
// truncated toward zero.
func wholeDaysBetween(start, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}

// roundToCents rounds half-up to two decimal places
func roundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
