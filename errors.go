package zenith

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrNoEmptyString rejects empty secrets before they reach bcrypt.
var ErrNoEmptyString = errors.New("value should not be an empty string", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode("EMPTY_STRING")

// ErrMismatchedHashAndPassword is the single answer for any credential
// mismatch; it never says whether the account exists.
var ErrMismatchedHashAndPassword = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_CREDENTIALS")

// ErrIdentityNotFound is the error we return for non found identities.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("IDENTITY_NOT_FOUND")

// ErrIdentityInactive rejects deactivated accounts even when their token
// still verifies.
var ErrIdentityInactive = errors.New("identity is not active", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("IDENTITY_INACTIVE")

// ErrInvalidToken collapses every verification failure (bad signature,
// malformed payload, expired) into one outcome so callers can't probe
// which check failed.
var ErrInvalidToken = errors.New("invalid or expired session token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_TOKEN")

// ErrUnableToFindSession is the error when a request carries no session cookie.
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("NO_SESSION")

// ErrDuplicateEmail surfaces a lost uniqueness race or a repeat registration.
var ErrDuplicateEmail = errors.New("email already in use", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode("DUPLICATE_EMAIL")

// IsDuplicateKeyError reports whether a store error is a unique constraint
// violation. Checked by message because bun surfaces the driver error as-is.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
