package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal. The
// authority set is always empty in this package; it exists so callers
// that layer authorization on top have a stable surface.
type Identity interface {
	Username() string
	Authorities() []string
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// TokenService issues and validates signed tokens. Validity is fully
// self contained: signature plus expiry, no server side session state.
type TokenService interface {
	Generate(subject string) (string, error)
	Validate(raw string) (AuthClaims, error)
	SubjectFromToken(raw string) (string, error)
	IsValid(raw, expectedSubject string) bool
}

// IdentityProvider ensures we have a store to retrieve auth identities
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, username, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, username string) (Identity, error)
}

// LoginPayload has the minimal surface a login request must expose
type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() time.Duration
	GetContextKey() string
	GetAuthScheme() string
}

// TokenExpiration is the validity window applied when configuration
// does not provide one: 5 hours, 18000 seconds on the wire.
const TokenExpiration = 5 * time.Hour

// DefaultContextKey is where middleware stores validated claims
const DefaultContextKey = "user"

// DefaultAuthScheme is the Authorization header scheme we accept
const DefaultAuthScheme = "Bearer"

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
