package auth

import (
	"context"
	"net/http"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-jwt-auth/middleware/tokengate"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteAuthenticator wires the authenticator, the token gate, and the
// identity provider into middleware an HTTP application can mount.
type RouteAuthenticator struct {
	auth         Authenticator
	provider     IdentityProvider
	tokens       TokenService
	cfg          Config
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

type tokenServiceProvider interface {
	TokenService() TokenService
}

func NewHTTPAuthenticator(auther Authenticator, provider IdentityProvider, cfg Config) (*RouteAuthenticator, error) {
	a := &RouteAuthenticator{
		cfg:      cfg,
		auth:     auther,
		provider: provider,
		Logger:   defLogger{},
	}

	if tp, ok := auther.(tokenServiceProvider); ok {
		a.tokens = tp.TokenService()
	} else {
		a.tokens = NewTokenService(
			[]byte(cfg.GetSigningKey()),
			cfg.GetTokenExpiration(),
			a.Logger,
		)
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

// TokenGate returns the fail open authentication middleware. Mount it
// ahead of any route that wants to know who the caller is; it never
// rejects a request on its own.
func (a *RouteAuthenticator) TokenGate() router.MiddlewareFunc {
	return tokengate.New(tokengate.Config{
		TokenValidator: a.tokens,
		IdentityLoader: func(ctx context.Context, username string) (tokengate.Identity, error) {
			return a.provider.FindIdentityByIdentifier(ctx, username)
		},
		ContextKey: a.cfg.GetContextKey(),
		AuthScheme: a.cfg.GetAuthScheme(),
		Logger:     a.Logger,
		ContextEnricher: func(c context.Context, identity tokengate.Identity) context.Context {
			return WithIdentityContext(c, identity)
		},
	})
}

// RequireAuthenticated is the enforcement half of the gate: mount it
// after TokenGate on routes that demand a caller identity.
func (a *RouteAuthenticator) RequireAuthenticated() router.MiddlewareFunc {
	return tokengate.RequireAuthenticated(tokengate.Config{
		ContextKey: a.cfg.GetContextKey(),
	})
}

func (a *RouteAuthenticator) Login(ctx router.Context, payload LoginPayload) (string, error) {
	token, err := a.auth.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error: %s", err)
		return "", err
	}
	return token, nil
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"HTTP error handler: %s category=%s details=%s",
		richErr.Message,
		richErr.Category,
		print.MaybePrettyJSON(richErr.Metadata),
	)

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return c.JSON(router.StatusUnauthorized, map[string]string{
			"error": richErr.Message,
		})
	case errors.CategoryNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": richErr.Message,
		})
	case errors.CategoryConflict:
		return c.JSON(http.StatusConflict, map[string]string{
			"error": richErr.Message,
		})
	case errors.CategoryValidation, errors.CategoryBadInput:
		return c.JSON(router.StatusBadRequest, map[string]string{
			"error": richErr.Message,
		})
	default:
		return c.JSON(router.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}
}
