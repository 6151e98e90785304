package services

import (
	"fmt"
	"testing"

	"lexora-lms/internal/adapters/persistence/models"
	"lexora-lms/internal/adapters/persistence/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory sqlite database with the full schema.
// Each test gets its own database so tests stay independent.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	return db
}

func newTestAuditService(db *gorm.DB) *AuditService {
	return NewAuditService(repositories.NewAuditLogRepository(db))
}

func newTestLoanService(db *gorm.DB) *LoanService {
	return NewLoanService(
		db,
		repositories.NewLoanRepository(db),
		repositories.NewBookRepository(db),
		repositories.NewMemberRepository(db),
		newTestAuditService(db),
	)
}

func newTestLateFeeService(db *gorm.DB) *LateFeeService {
	return NewLateFeeService(
		repositories.NewLateFeeRepository(db),
		repositories.NewLoanRepository(db),
		newTestAuditService(db),
	)
}

func newTestBookService(db *gorm.DB) *BookService {
	return NewBookService(
		db,
		repositories.NewBookRepository(db),
		repositories.NewLoanRepository(db),
		newTestAuditService(db),
	)
}

func newTestMemberService(db *gorm.DB) *MemberService {
	return NewMemberService(repositories.NewMemberRepository(db), newTestAuditService(db))
}

func seedBook(t *testing.T, db *gorm.DB, copies int) *models.Book {
	t.Helper()

	book := &models.Book{
		Title:           "The Left Hand of Darkness",
		Author:          "Ursula K. Le Guin",
		ISBN:            uuid.NewString()[:17],
		Category:        "Science Fiction",
		PublicationYear: 1969,
		TotalCopies:     copies,
		AvailableCopies: copies,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func seedMember(t *testing.T, db *gorm.DB, active bool) *models.Member {
	t.Helper()

	member := &models.Member{
		Name:         "Ada Lovelace",
		Email:        uuid.NewString()[:8] + "@example.com",
		MembershipID: "MEM-" + uuid.NewString()[:8],
		Active:       active,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}
