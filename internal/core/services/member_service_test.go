package services

import (
	"context"
	"strings"
	"testing"

	"lexora-lms/internal/adapters/persistence/repositories"
	"lexora-lms/internal/core/domain"

	"github.com/stretchr/testify/require"
)

func TestCreateMemberGeneratesMembershipID(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestMemberService(db)

	member, err := svc.Create(context.Background(), &CreateMemberInput{
		Name:  "Grace Hopper",
		Email: "grace@example.com",
		Phone: "555-0100",
	}, "librarian1")
	require.NoError(t, err)

	require.True(t, member.Active)
	require.True(t, strings.HasPrefix(member.MembershipID, "MEM-"))
	require.Len(t, member.MembershipID, len("MEM-")+8)

	// IDs are unique across members.
	other, err := svc.Create(context.Background(), &CreateMemberInput{
		Name:  "Margaret Hamilton",
		Email: "margaret@example.com",
	}, "librarian1")
	require.NoError(t, err)
	require.NotEqual(t, member.MembershipID, other.MembershipID)
}

func TestCreateMemberDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestMemberService(db)

	input := &CreateMemberInput{Name: "Grace Hopper", Email: "grace@example.com"}

	_, err := svc.Create(context.Background(), input, "librarian1")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), input, "librarian1")
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUpdateMemberKeepsMembershipID(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestMemberService(db)

	member, err := svc.Create(context.Background(), &CreateMemberInput{
		Name:  "Grace Hopper",
		Email: "grace@example.com",
	}, "librarian1")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), member.ID, &UpdateMemberInput{
		Name:  "Grace B. Hopper",
		Email: "grace.hopper@example.com",
		Phone: "555-0199",
	}, "librarian1")
	require.NoError(t, err)

	require.Equal(t, "Grace B. Hopper", updated.Name)
	require.Equal(t, "grace.hopper@example.com", updated.Email)
	require.Equal(t, member.MembershipID, updated.MembershipID)
	require.True(t, updated.Active)
}

func TestUpdateMemberEmailConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestMemberService(db)

	first := seedMember(t, db, true)
	second := seedMember(t, db, true)

	_, err := svc.Update(context.Background(), second.ID, &UpdateMemberInput{
		Name:  second.Name,
		Email: first.Email,
	}, "librarian1")
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestDeactivateMember(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestMemberService(db)
	member := seedMember(t, db, true)

	deactivated, err := svc.Deactivate(context.Background(), member.ID, "librarian1")
	require.NoError(t, err)
	require.False(t, deactivated.Active)

	// Deactivating an inactive member is a no-op, not an error.
	again, err := svc.Deactivate(context.Background(), member.ID, "librarian1")
	require.NoError(t, err)
	require.False(t, again.Active)
}

func TestDeactivatedMemberKeepsOpenLoans(t *testing.T) {
	db := setupTestDB(t)
	memberSvc := newTestMemberService(db)
	loanSvc := newTestLoanService(db)
	member := seedMember(t, db, true)
	book := seedBook(t, db, 1)

	loan, err := loanSvc.Borrow(context.Background(), book.ID, member.ID, "librarian1")
	require.NoError(t, err)

	_, err = memberSvc.Deactivate(context.Background(), member.ID, "librarian1")
	require.NoError(t, err)

	// The open loan survives and can still be returned.
	returned, err := loanSvc.Return(context.Background(), loan.ID, "librarian1")
	require.NoError(t, err)
	require.NotNil(t, returned.ActualReturnDate)

	// But no new borrowing.
	_, err = loanSvc.Borrow(context.Background(), book.ID, member.ID, "librarian1")
	require.ErrorIs(t, err, domain.ErrMemberNotActive)
}

func TestGetMemberByLookups(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestMemberService(db)
	member := seedMember(t, db, true)

	byEmail, err := svc.GetByEmail(context.Background(), member.Email)
	require.NoError(t, err)
	require.Equal(t, member.ID, byEmail.ID)

	byMembership, err := svc.GetByMembershipID(context.Background(), member.MembershipID)
	require.NoError(t, err)
	require.Equal(t, member.ID, byMembership.ID)

	_, err = svc.GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestListMembersActiveFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestMemberService(db)
	seedMember(t, db, true)
	inactive := seedMember(t, db, false)

	active := true
	members, total, err := svc.List(context.Background(),
		&repositories.MemberFilter{Active: &active}, 0, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, members, 1)
	require.NotEqual(t, inactive.ID, members[0].ID)
}
