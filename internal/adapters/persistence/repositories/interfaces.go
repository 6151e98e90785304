package repositories

import (
	"context"
	"time"

	"lexora-lms/internal/adapters/persistence/models"
)

// BookRepository defines catalog data access
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	// GetByIDForUpdate locks the book row for the duration of the
	// surrounding transaction so availableCopies read-modify-writes serialize.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter *BookFilter, offset, limit int) ([]*models.Book, int64, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
}

// BookFilter narrows book listings. Zero values mean "no filter".
type BookFilter struct {
	Title           string `json:"title,omitempty"`
	Author          string `json:"author,omitempty"`
	ISBN            string `json:"isbn,omitempty"`
	Category        string `json:"category,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
	AvailableOnly   bool   `json:"available,omitempty"`
}

// MemberRepository defines membership data access
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	GetByMembershipID(ctx context.Context, membershipID string) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	List(ctx context.Context, filter *MemberFilter, offset, limit int) ([]*models.Member, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// MemberFilter narrows member listings
type MemberFilter struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	MembershipID string `json:"membership_id,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Active       *bool  `json:"active,omitempty"`
}

// LoanRepository defines loan ledger data access
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	List(ctx context.Context, filter *LoanFilter, offset, limit int) ([]*models.Loan, int64, error)
	CountActiveByMember(ctx context.Context, memberID uint) (int64, error)
	HasActiveLoansForBook(ctx context.Context, bookID uint) (bool, error)
	// MarkOverdue flips ACTIVE loans whose expected return date passed to
	// OVERDUE in a single statement and returns the number of rows changed.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// LoanFilter narrows loan listings
type LoanFilter struct {
	MemberID       *uint      `json:"member_id,omitempty"`
	BookID         *uint      `json:"book_id,omitempty"`
	Status         string     `json:"status,omitempty"`
	BorrowDateFrom *time.Time `json:"borrow_date_from,omitempty"`
	BorrowDateTo   *time.Time `json:"borrow_date_to,omitempty"`
	ReturnDateFrom *time.Time `json:"return_date_from,omitempty"`
	ReturnDateTo   *time.Time `json:"return_date_to,omitempty"`
	Overdue        bool       `json:"overdue,omitempty"`
}

// LateFeeRepository defines late fee data access
type LateFeeRepository interface {
	Create(ctx context.Context, fee *models.LateFee) error
	GetByID(ctx context.Context, id uint) (*models.LateFee, error)
	GetByLoanID(ctx context.Context, loanID uint) (*models.LateFee, error)
	// MarkPaid transitions a PENDING fee to PAID; the state guard lives in the
	// service, this is the targeted column update.
	MarkPaid(ctx context.Context, id uint, paidAt time.Time) error
	ListByLoan(ctx context.Context, loanID uint) ([]*models.LateFee, error)
	ListUnpaidByMember(ctx context.Context, memberID uint) ([]*models.LateFee, error)
	HasUnpaidByMember(ctx context.Context, memberID uint) (bool, error)
}

// AuditLogRepository defines audit trail data access
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter *AuditFilter, offset, limit int) ([]*models.AuditLog, int64, error)
}

// AuditFilter narrows audit log listings
type AuditFilter struct {
	Action      string `json:"action,omitempty"`
	EntityType  string `json:"entity_type,omitempty"`
	EntityID    *uint  `json:"entity_id,omitempty"`
	PerformedBy string `json:"performed_by,omitempty"`
}

// UserRepository defines account data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token data access
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}
