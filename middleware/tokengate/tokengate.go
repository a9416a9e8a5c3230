// Package tokengate implements the per request authentication gate: it
// extracts a bearer token, validates it, resolves the subject to an
// identity, and publishes that identity into the request scoped
// context. The gate is fail open on purpose: it only populates
// identity, it never rejects a request. Enforcement belongs to
// RequireAuthenticated or whatever authorization layer sits downstream.
package tokengate

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-router"
)

// TokenValidator mirrors the TokenService surface from the auth
// package without importing it, avoiding an import cycle
type TokenValidator interface {
	SubjectFromToken(raw string) (string, error)
	IsValid(raw, expectedSubject string) bool
}

// Identity mirrors auth.Identity
type Identity interface {
	Username() string
	Authorities() []string
}

// IdentityLoader resolves a token subject to an identity
type IdentityLoader func(ctx context.Context, username string) (Identity, error)

// Logger mirrors the auth package logger
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type Config struct {
	// Filter skips the gate entirely when it returns true
	Filter func(router.Context) bool
	// SuccessHandler runs after the gate, defaults to ctx.Next()
	SuccessHandler router.HandlerFunc
	// TokenValidator is required
	TokenValidator TokenValidator
	// IdentityLoader is required
	IdentityLoader IdentityLoader
	// ContextKey is where the identity is stored in router locals
	ContextKey string
	// AuthScheme is the Authorization scheme, "Bearer" by default
	AuthScheme string
	// HeaderKey is the header carrying the token
	HeaderKey string
	Logger    Logger

	// ContextEnricher propagates the identity to the standard Go
	// context so non router code can read it
	ContextEnricher func(c context.Context, identity Identity) context.Context
}

// New returns the gate middleware. Per request it walks
// NoToken -> TokenExtracted -> ClaimDecoded -> PrincipalLoaded ->
// Authenticated, bailing out to pass through at any step. The request
// always reaches the next handler.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			header := ctx.GetString(cfg.HeaderKey, "")
			raw, ok := TokenFromHeader(header, cfg.AuthScheme)
			if !ok {
				if header != "" {
					cfg.Logger.Warn("authorization header does not begin with %s scheme", cfg.AuthScheme)
				}
				return cfg.SuccessHandler(ctx)
			}

			subject, err := cfg.TokenValidator.SubjectFromToken(raw)
			if err != nil {
				// expired and malformed tokens are logged and the
				// request continues unauthenticated
				cfg.Logger.Warn("bearer token rejected, continuing unauthenticated: %v", err)
				return cfg.SuccessHandler(ctx)
			}

			if existing := ctx.Locals(cfg.ContextKey); existing != nil {
				// an earlier gate in the chain already published,
				// publication happens at most once per request
				return cfg.SuccessHandler(ctx)
			}

			identity, err := cfg.IdentityLoader(ctx.Context(), subject)
			if err != nil {
				cfg.Logger.Warn("token subject %q did not resolve to an identity: %v", subject, err)
				return cfg.SuccessHandler(ctx)
			}

			if !cfg.TokenValidator.IsValid(raw, identity.Username()) {
				cfg.Logger.Warn("token for subject %q failed final validation", subject)
				return cfg.SuccessHandler(ctx)
			}

			ctx.Locals(cfg.ContextKey, identity)

			if cfg.ContextEnricher != nil {
				ctx.SetContext(cfg.ContextEnricher(ctx.Context(), identity))
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

// RequireAuthenticated is the downstream enforcement point: requests
// whose context carries no identity get a 401 and stop here. Pair it
// with New on protected routes.
func RequireAuthenticated(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := enforcementDefaults(config...)
		return func(ctx router.Context) error {
			if _, ok := IdentityFromLocals(ctx, cfg.ContextKey); !ok {
				return ctx.JSON(router.StatusUnauthorized, map[string]string{
					"error": "authentication required",
				})
			}
			return cfg.SuccessHandler(ctx)
		}
	}
}

// IdentityFromLocals reads the published identity back from the router
// context
func IdentityFromLocals(ctx router.Context, key string) (Identity, bool) {
	if key == "" {
		key = "user"
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	identity, ok := raw.(Identity)
	return identity, ok
}

// TokenFromHeader strips the auth scheme prefix from a header value.
// The match is exact: scheme, single space, non empty remainder.
func TokenFromHeader(header, authScheme string) (string, bool) {
	prefix := authScheme + " "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := header[len(prefix):]
	if token == "" {
		return "", false
	}

	return token, true
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.TokenValidator == nil {
		panic("AUTH: token gate configuration: TokenValidator is required.")
	}

	if cfg.IdentityLoader == nil {
		panic("AUTH: token gate configuration: IdentityLoader is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.HeaderKey == "" {
		cfg.HeaderKey = router.HeaderAuthorization
	}

	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}

	return cfg
}

func enforcementDefaults(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	return cfg
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) { d.print("ERR", format, args...) }
func (d defLogger) Warn(format string, args ...any) { d.print("WRN", format, args...) }
func (d defLogger) Info(format string, args ...any) { d.print("INF", format, args...) }
func (d defLogger) Debug(format string, args ...any) { d.print("DBG", format, args...) }

func (d defLogger) print(level, format string, args ...any) {
	if len(format) == 0 || format[len(format)-1] != '\n' {
		format += "\n"
	}
	fmt.Printf("["+level+"] GATE "+format, args...)
}
