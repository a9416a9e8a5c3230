package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes exposed in error payloads so API clients can branch
// without parsing messages.
const (
	TextCodeInvalidCreds   = "INVALID_CREDENTIALS"
	TextCodeUserDisabled   = "USER_DISABLED"
	TextCodeTokenExpired   = "TOKEN_EXPIRED"
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
	TextCodeIdentityUnkown = "IDENTITY_NOT_FOUND"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityUnkown)

// ErrMismatchedHashAndPassword is returned when credentials do not
// verify. Unknown users get the same error so responses do not leak
// which usernames exist.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrUserDisabled is returned when the account is not active. No write
// path in this package disables an account; the status column is the
// contract surface for stores that do.
var ErrUserDisabled = errors.New("user account is disabled", errors.CategoryAuth).
	WithTextCode(TextCodeUserDisabled).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when the embedded expiry has passed
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token fails to parse or its
// signature does not verify
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString guards hash inputs
var ErrNoEmptyString = errors.New("value should not be an empty string", errors.CategoryValidation)

// IsTokenExpiredError will check for expired tokens, matching both the
// structured error and legacy string errors from the JWT library
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsIdentityNotFoundError will check for unknown identity errors
func IsIdentityNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	return errors.As(err, &richErr) && richErr.TextCode == TextCodeIdentityUnkown
}

// IsMalformedError will check for malformed token errors
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
