package services

import (
	"context"
	"testing"

	"lexora-lms/internal/adapters/persistence/repositories"
	"lexora-lms/internal/core/domain"

	"github.com/stretchr/testify/require"
)

func TestCreateBookStartsFullyAvailable(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestBookService(db)

	book, err := svc.Create(context.Background(), &CreateBookInput{
		Title:           "Snow Crash",
		Author:          "Neal Stephenson",
		ISBN:            "978-0553380958",
		Category:        "Science Fiction",
		PublicationYear: 1992,
		TotalCopies:     4,
	}, "librarian1")
	require.NoError(t, err)

	require.Equal(t, 4, book.TotalCopies)
	require.Equal(t, 4, book.AvailableCopies)
	require.NotZero(t, book.ID)
}

func TestCreateBookDuplicateISBN(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestBookService(db)

	input := &CreateBookInput{
		Title:       "Snow Crash",
		Author:      "Neal Stephenson",
		ISBN:        "978-0553380958",
		TotalCopies: 1,
	}

	_, err := svc.Create(context.Background(), input, "librarian1")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), input, "librarian1")
	require.ErrorIs(t, err, domain.ErrDuplicateISBN)
}

func TestUpdateBookAdjustsAvailableByDelta(t *testing.T) {
	db := setupTestDB(t)
	bookSvc := newTestBookService(db)
	loanSvc := newTestLoanService(db)
	member := seedMember(t, db, true)
	book := seedBook(t, db, 3)

	// One copy out on loan: 2 of 3 available.
	_, err := loanSvc.Borrow(context.Background(), book.ID, member.ID, "librarian1")
	require.NoError(t, err)

	updated, err := bookSvc.Update(context.Background(), book.ID, &UpdateBookInput{
		Title:       book.Title,
		Author:      book.Author,
		ISBN:        book.ISBN,
		TotalCopies: 5,
	}, "librarian1")
	require.NoError(t, err)

	require.Equal(t, 5, updated.TotalCopies)
	require.Equal(t, 4, updated.AvailableCopies)
}

func TestUpdateBookClampsAvailable(t *testing.T) {
	db := setupTestDB(t)
	bookSvc := newTestBookService(db)
	loanSvc := newTestLoanService(db)
	member := seedMember(t, db, true)
	book := seedBook(t, db, 3)

	_, err := loanSvc.Borrow(context.Background(), book.ID, member.ID, "librarian1")
	require.NoError(t, err)

	// Shrinking below the number of copies on loan cannot push available
	// negative.
	updated, err := bookSvc.Update(context.Background(), book.ID, &UpdateBookInput{
		Title:       book.Title,
		Author:      book.Author,
		ISBN:        book.ISBN,
		TotalCopies: 1,
	}, "librarian1")
	require.NoError(t, err)

	require.Equal(t, 1, updated.TotalCopies)
	require.Equal(t, 0, updated.AvailableCopies)
}

func TestUpdateBookDuplicateISBN(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestBookService(db)
	first := seedBook(t, db, 1)
	second := seedBook(t, db, 1)

	_, err := svc.Update(context.Background(), second.ID, &UpdateBookInput{
		Title:       second.Title,
		Author:      second.Author,
		ISBN:        first.ISBN,
		TotalCopies: 1,
	}, "librarian1")
	require.ErrorIs(t, err, domain.ErrDuplicateISBN)
}

func TestDeleteBookBlockedByActiveLoan(t *testing.T) {
	db := setupTestDB(t)
	bookSvc := newTestBookService(db)
	loanSvc := newTestLoanService(db)
	member := seedMember(t, db, true)
	book := seedBook(t, db, 1)

	loan, err := loanSvc.Borrow(context.Background(), book.ID, member.ID, "librarian1")
	require.NoError(t, err)

	err = bookSvc.Delete(context.Background(), book.ID, "librarian1")
	require.ErrorIs(t, err, domain.ErrBookHasActiveLoans)

	// After return the delete goes through.
	_, err = loanSvc.Return(context.Background(), loan.ID, "librarian1")
	require.NoError(t, err)

	require.NoError(t, bookSvc.Delete(context.Background(), book.ID, "librarian1"))

	_, err = bookSvc.GetByID(context.Background(), book.ID)
	require.ErrorIs(t, err, domain.ErrBookNotFound)
}

func TestGetBookByISBN(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestBookService(db)
	book := seedBook(t, db, 1)

	got, err := svc.GetByISBN(context.Background(), book.ISBN)
	require.NoError(t, err)
	require.Equal(t, book.ID, got.ID)

	_, err = svc.GetByISBN(context.Background(), "missing-isbn")
	require.ErrorIs(t, err, domain.ErrBookNotFound)
}

func TestListBooksAvailableOnly(t *testing.T) {
	db := setupTestDB(t)
	bookSvc := newTestBookService(db)
	loanSvc := newTestLoanService(db)
	member := seedMember(t, db, true)

	exhausted := seedBook(t, db, 1)
	seedBook(t, db, 2)

	_, err := loanSvc.Borrow(context.Background(), exhausted.ID, member.ID, "librarian1")
	require.NoError(t, err)

	books, total, err := bookSvc.List(context.Background(),
		&repositories.BookFilter{AvailableOnly: true}, 0, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, books, 1)
	require.NotEqual(t, exhausted.ID, books[0].ID)
}
