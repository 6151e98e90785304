package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Catalog & Membership
// ============================================================

// Book represents books table
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null;index" json:"title"`
	Author          string    `gorm:"size:150;not null;index" json:"author"`
	ISBN            string    `gorm:"column:isbn;size:20;uniqueIndex;not null" json:"isbn"`
	Category        string    `gorm:"size:100;index" json:"category"`
	PublicationYear int       `json:"publication_year"`
	TotalCopies     int       `gorm:"not null" json:"total_copies"`
	AvailableCopies int       `gorm:"not null" json:"available_copies"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// Member represents members table
// Members are deactivated via the Active flag, never deleted.
type Member struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:150;not null;index" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"size:20" json:"phone"`
	Address      string    `gorm:"type:text" json:"address"`
	MembershipID string    `gorm:"size:20;uniqueIndex;not null" json:"membership_id"`
	Active       bool      `gorm:"default:true" json:"active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// ============================================================
// Loans & Late Fees
// ============================================================

// Loan Status - one-way progression:
// ACTIVE → OVERDUE (time-triggered) or ACTIVE/OVERDUE → RETURNED (action-triggered).
const (
	LoanStatusActive   = "ACTIVE"
	LoanStatusOverdue  = "OVERDUE"
	LoanStatusReturned = "RETURNED"
)

// Loan represents loans table. Loans are a historical record and are never deleted.
type Loan struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	BookID             uint       `gorm:"not null;index" json:"book_id"`
	MemberID           uint       `gorm:"not null;index" json:"member_id"`
	BorrowDate         time.Time  `gorm:"not null" json:"borrow_date"`
	ExpectedReturnDate time.Time  `gorm:"not null;index" json:"expected_return_date"`
	ActualReturnDate   *time.Time `json:"actual_return_date"`
	Status             string     `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Book   *Book   `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// IsReturned reports whether the loan reached its terminal state.
func (l *Loan) IsReturned() bool {
	return l.Status == LoanStatusReturned
}

// LoanResponse DTO - denormalized read view assembled at the boundary
type LoanResponse struct {
	ID                 uint       `json:"id"`
	BookID             uint       `json:"book_id"`
	BookTitle          string     `json:"book_title,omitempty"`
	MemberID           uint       `json:"member_id"`
	MemberName         string     `json:"member_name,omitempty"`
	BorrowDate         time.Time  `json:"borrow_date"`
	ExpectedReturnDate time.Time  `json:"expected_return_date"`
	ActualReturnDate   *time.Time `json:"actual_return_date"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:                 l.ID,
		BookID:             l.BookID,
		MemberID:           l.MemberID,
		BorrowDate:         l.BorrowDate,
		ExpectedReturnDate: l.ExpectedReturnDate,
		ActualReturnDate:   l.ActualReturnDate,
		Status:             l.Status,
		CreatedAt:          l.CreatedAt,
	}

	if l.Book != nil {
		resp.BookTitle = l.Book.Title
	}
	if l.Member != nil {
		resp.MemberName = l.Member.Name
	}

	return resp
}

// LateFee Status
const (
	FeeStatusPending = "PENDING"
	FeeStatusPaid    = "PAID"
)

// LateFee represents late_fees table.
// At most one fee per loan, enforced by the unique index on loan_id.
type LateFee struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	LoanID      uint       `gorm:"not null;uniqueIndex" json:"loan_id"`
	Amount      float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	DaysOverdue int        `gorm:"not null" json:"days_overdue"`
	Status      string     `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	PaidDate    *time.Time `json:"paid_date"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Loan *Loan `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
}

func (LateFee) TableName() string {
	return "late_fees"
}

// LateFeeResponse DTO
type LateFeeResponse struct {
	ID          uint       `json:"id"`
	LoanID      uint       `json:"loan_id"`
	Amount      float64    `json:"amount"`
	DaysOverdue int        `json:"days_overdue"`
	Status      string     `json:"status"`
	PaidDate    *time.Time `json:"paid_date"`
	BookTitle   string     `json:"book_title,omitempty"`
	MemberName  string     `json:"member_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (f *LateFee) ToResponse() *LateFeeResponse {
	resp := &LateFeeResponse{
		ID:          f.ID,
		LoanID:      f.LoanID,
		Amount:      f.Amount,
		DaysOverdue: f.DaysOverdue,
		Status:      f.Status,
		PaidDate:    f.PaidDate,
		CreatedAt:   f.CreatedAt,
	}

	if f.Loan != nil {
		if f.Loan.Book != nil {
			resp.BookTitle = f.Loan.Book.Title
		}
		if f.Loan.Member != nil {
			resp.MemberName = f.Loan.Member.Name
		}
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Book{},
		&Member{},
		&Loan{},
		&LateFee{},
		&AuditLog{},
	)
}
