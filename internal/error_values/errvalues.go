package errorvalues

import (
	"errors"
	"fmt"
)

// Kinds. Every concrete error below wraps one of them, so callers can match
// either the exact error or its kind with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrForbidden     = errors.New("forbidden")
	ErrConfiguration = errors.New("configuration error")
)

var (
	ErrMissingFields = fmt.Errorf("%w: required fields are missing", ErrValidation)
	ErrInvalidID     = fmt.Errorf("%w: invalid id", ErrValidation)
	ErrInvalidDate   = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrFutureDate    = fmt.Errorf("%w: date is in the future", ErrValidation)

	// bcrypt only accepts passwords up to 72 bytes
	ErrPasswordTooLong = fmt.Errorf("%w: password exceeds 72 bytes", ErrValidation)

	ErrUserNotFound  = fmt.Errorf("%w: user doesn't exist", ErrNotFound)
	ErrHabitNotFound = fmt.Errorf("%w: habit doesn't exist", ErrNotFound)
	ErrLogNotFound   = fmt.Errorf("%w: habit log doesn't exist", ErrNotFound)

	ErrEmailTaken = fmt.Errorf("%w: email already in use", ErrConflict)
	ErrLogExists  = fmt.Errorf("%w: habit already logged for this date", ErrConflict)

	ErrAdminProtected = fmt.Errorf("%w: admin cannot be deleted", ErrForbidden)

	ErrMissingSecret = fmt.Errorf("%w: jwt secret is not set", ErrConfiguration)
)

var (
	// Returned both for unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)
