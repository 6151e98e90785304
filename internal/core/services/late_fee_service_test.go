package services

import (
	"context"
	"testing"
	"time"

	"lexora-lms/internal/adapters/persistence/models"
	"lexora-lms/internal/core/domain"

	"github.com/stretchr/testify/require"
)

func TestCalculateRequiresOverdueLoan(t *testing.T) {
	db := setupTestDB(t)
	loanSvc := newTestLoanService(db)
	feeSvc := newTestLateFeeService(db)
	book := seedBook(t, db, 1)
	member := seedMember(t, db, true)

	loan, err := loanSvc.Borrow(context.Background(), book.ID, member.ID, "librarian1")
	require.NoError(t, err)

	_, err = feeSvc.Calculate(context.Background(), loan.ID, "librarian1")
	require.ErrorIs(t, err, domain.ErrLoanNotOverdue)
}

func TestCalculateUnknownLoan(t *testing.T) {
	db := setupTestDB(t)
	feeSvc := newTestLateFeeService(db)

	_, err := feeSvc.Calculate(context.Background(), 9999, "librarian1")
	require.ErrorIs(t, err, domain.ErrLoanNotFound)
}

func TestCalculateCreatesPendingFee(t *testing.T) {
	db := setupTestDB(t)
	loanSvc := newTestLoanService(db)
	feeSvc := newTestLateFeeService(db)
	book := seedBook(t, db, 1)
	member := seedMember(t, db, true)

	loan, err := loanSvc.Borrow(context.Background(), book.ID, member.ID, "librarian1")
	require.NoError(t, err)

	// Backdate the loan 3 days past due and sweep it OVERDUE.
	require.NoError(t, db.Model(&models.Loan{}).
		Where("id = ?", loan.ID).
		Update("expected_return_date", time.Now().Add(-72*time.Hour-time.Minute)).Error)
	_, err = loanSvc.SweepOverdue(context.Background(), time.Now())
	require.NoError(t, err)

	fee, err := feeSvc.Calculate(context.Background(), loan.ID, "librarian1")
	require.NoError(t, err)

	require.Equal(t, loan.ID, fee.LoanID)
	require.Equal(t, models.FeeStatusPending, fee.Status)
	require.Equal(t, 3, fee.DaysOverdue)
	require.InDelta(t, 3.00, fee.Amount, 0.001)
	require.Nil(t, fee.PaidDate)
}

func TestCalculateIsOncePerLoan(t *testing.T) {
	db := setupTestDB(t)
	loanSvc := newTestLoanService(db)
	feeSvc := newTestLateFeeService(db)
	book := seedBook(t, db, 1)
	member := seedMember(t, db, true)

	loan, err := loanSvc.Borrow(context.Background(), book.ID, member.ID, "librarian1")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Loan{}).
		Where("id = ?", loan.ID).
		Update("expected_return_date", time.Now().AddDate(0, 0, -2)).Error)
	_, err = loanSvc.SweepOverdue(context.Background(), time.Now())
	require.NoError(t, err)

	_, err = feeSvc.Calculate(context.Background(), loan.ID, "librarian1")
	require.NoError(t, err)

	_, err = feeSvc.Calculate(context.Background(), loan.ID, "librarian1")
	require.ErrorIs(t, err, domain.ErrLateFeeExists)
}

func TestCalculateAmountZeroBeforeDue(t *testing.T) {
	db := setupTestDB(t)
	loanSvc := newTestLoanService(db)
	feeSvc := newTestLateFeeService(db)
	book := seedBook(t, db, 1)
	member := seedMember(t, db, true)

	loan, err := loanSvc.Borrow(context.Background(), book.ID, member.ID, "librarian1")
	require.NoError(t, err)

	amount, err := feeSvc.CalculateAmount(context.Background(), loan.ID)
	require.NoError(t, err)
	require.Zero(t, amount)
}

func TestCalculateAmountUsesActualReturnDate(t *testing.T) {
	db := setupTestDB(t)
	loanSvc := newTestLoanService(db)
	feeSvc := newTestLateFeeService(db)
	book := seedBook(t, db, 1)
	member := seedMember(t, db, true)

	loan, err := loanSvc.Borrow(context.Background(), book.ID, member.ID, "librarian1")
	require.NoError(t, err)

	// Returned 5 full days after the expected date. Once returned, the fee
	// stops accruing no matter when it is computed.
	expected := time.Now().AddDate(0, 0, -10)
	actual := expected.Add(5*24*time.Hour + time.Minute)
	require.NoError(t, db.Model(&models.Loan{}).
		Where("id = ?", loan.ID).
		Updates(map[string]interface{}{
			"expected_return_date": expected,
			"actual_return_date":   actual,
			"status":               models.LoanStatusReturned,
		}).Error)

	amount, err := feeSvc.CalculateAmount(context.Background(), loan.ID)
	require.NoError(t, err)
	require.InDelta(t, 5.00, amount, 0.001)
}

func TestPayTransitionsToPaid(t *testing.T) {
	db := setupTestDB(t)
	loanSvc := newTestLoanService(db)
	feeSvc := newTestLateFeeService(db)
	book := seedBook(t, db, 1)
	member := seedMember(t, db, true)

	loan, err := loanSvc.Borrow(context.Background(), book.ID, member.ID, "librarian1")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Loan{}).
		Where("id = ?", loan.ID).
		Update("expected_return_date", time.Now().AddDate(0, 0, -1)).Error)
	_, err = loanSvc.SweepOverdue(context.Background(), time.Now())
	require.NoError(t, err)

	fee, err := feeSvc.Calculate(context.Background(), loan.ID, "librarian1")
	require.NoError(t, err)

	paid, err := feeSvc.Pay(context.Background(), fee.ID, "librarian1")
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)

	// PAID is terminal.
	_, err = feeSvc.Pay(context.Background(), fee.ID, "librarian1")
	require.ErrorIs(t, err, domain.ErrLateFeeNotPending)
}

func TestPayUnknownFee(t *testing.T) {
	db := setupTestDB(t)
	feeSvc := newTestLateFeeService(db)

	_, err := feeSvc.Pay(context.Background(), 9999, "librarian1")
	require.ErrorIs(t, err, domain.ErrLateFeeNotFound)
}

func TestUnpaidByMember(t *testing.T) {
	db := setupTestDB(t)
	loanSvc := newTestLoanService(db)
	feeSvc := newTestLateFeeService(db)
	member := seedMember(t, db, true)
	other := seedMember(t, db, true)

	book := seedBook(t, db, 2)
	loan, err := loanSvc.Borrow(context.Background(), book.ID, member.ID, "librarian1")
	require.NoError(t, err)
	otherLoan, err := loanSvc.Borrow(context.Background(), book.ID, other.ID, "librarian1")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Loan{}).
		Where("id IN ?", []uint{loan.ID, otherLoan.ID}).
		Update("expected_return_date", time.Now().AddDate(0, 0, -1)).Error)
	_, err = loanSvc.SweepOverdue(context.Background(), time.Now())
	require.NoError(t, err)

	_, err = feeSvc.Calculate(context.Background(), loan.ID, "librarian1")
	require.NoError(t, err)
	otherFee, err := feeSvc.Calculate(context.Background(), otherLoan.ID, "librarian1")
	require.NoError(t, err)

	fees, err := feeSvc.UnpaidByMember(context.Background(), member.ID)
	require.NoError(t, err)
	require.Len(t, fees, 1)
	require.Equal(t, loan.ID, fees[0].LoanID)

	hasUnpaid, err := feeSvc.HasUnpaidFees(context.Background(), member.ID)
	require.NoError(t, err)
	require.True(t, hasUnpaid)

	// Once the other member's fee is paid their flag clears; ours stays.
	_, err = feeSvc.Pay(context.Background(), otherFee.ID, "librarian1")
	require.NoError(t, err)

	hasUnpaid, err = feeSvc.HasUnpaidFees(context.Background(), other.ID)
	require.NoError(t, err)
	require.False(t, hasUnpaid)
}

func TestWholeDaysBetweenTruncates(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.Equal(t, 0, wholeDaysBetween(start, start.Add(23*time.Hour)))
	require.Equal(t, 1, wholeDaysBetween(start, start.Add(24*time.Hour)))
	require.Equal(t, 2, wholeDaysBetween(start, start.Add(59*time.Hour)))
	require.Equal(t, -1, wholeDaysBetween(start, start.Add(-25*time.Hour)))
}

func TestRoundToCents(t *testing.T) {
	require.InDelta(t, 1.00, roundToCents(1.004), 0.0001)
	require.InDelta(t, 1.01, roundToCents(1.006), 0.0001)
	require.InDelta(t, 12.34, roundToCents(12.336), 0.0001)
}
