package domain

import "errors"

// Not-found errors: a referenced entity id does not exist.
var (
	ErrBookNotFound    = errors.New("book not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrLoanNotFound    = errors.New("loan not found")
	ErrLateFeeNotFound = errors.New("late fee not found")
	ErrUserNotFound    = errors.New("user not found")
)

// Invalid-state errors: the entity exists but its state forbids the operation.
// Never retried automatically.
var (
	ErrMemberNotActive     = errors.New("member not active")
	ErrNoAvailableCopies   = errors.New("no available copies")
	ErrLoanLimitReached    = errors.New("loan limit reached")
	ErrLoanAlreadyReturned = errors.New("already returned")
	ErrLoanNotOverdue      = errors.New("loan is not overdue")
	ErrLateFeeExists       = errors.New("fee already exists")
	ErrLateFeeNotPending   = errors.New("fee is not pending")
	ErrBookHasActiveLoans  = errors.New("book has active loans")
)

// Integrity errors: a uniqueness constraint was violated between check and write.
var (
	ErrDuplicateISBN     = errors.New("isbn already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

var notFoundErrors = []error{
	ErrBookNotFound,
	ErrMemberNotFound,
	ErrLoanNotFound,
	ErrLateFeeNotFound,
	ErrUserNotFound,
}

var invalidStateErrors = []error{
	ErrMemberNotActive,
	ErrNoAvailableCopies,
	ErrLoanLimitReached,
	ErrLoanAlreadyReturned,
	ErrLoanNotOverdue,
	ErrLateFeeExists,
	ErrLateFeeNotPending,
	ErrBookHasActiveLoans,
}

var integrityErrors = []error{
	ErrDuplicateISBN,
	ErrDuplicateEmail,
	ErrDuplicateUsername,
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool {
	return matchesAny(err, notFoundErrors)
}

// IsInvalidState reports whether err is an invalid-state domain error.
func IsInvalidState(err error) bool {
	return matchesAny(err, invalidStateErrors)
}

// IsIntegrityViolation reports whether err is a uniqueness conflict.
func IsIntegrityViolation(err error) bool {
	return matchesAny(err, integrityErrors)
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
