package auth

import (
	"context"
)

// Auther implements the issuance flow: verify credentials against the
// identity provider, then mint a token for the subject.
type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, cfg Config) *Auther {
	tokenService := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

// WithLogger sets the logger, sharing it with the embedded token
// service so validation diagnostics follow the same sink
func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger == nil {
		return s
	}
	s.logger = logger
	if ts, ok := s.tokenService.(*TokenServiceImpl); ok {
		ts.WithLogger(logger)
	}
	return s
}

// WithTokenService overrides the token service, mostly for tests that
// need clock control
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials and returns a signed token whose
// subject is the username
func (s *Auther) Login(ctx context.Context, username, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, username, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return "", err
	}

	if identity == nil {
		s.logger.Error("Login identity is nil")
		return "", ErrIdentityNotFound
	}

	token, err := s.tokenService.Generate(identity.Username())
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return "", err
	}

	return token, nil
}

var _ Authenticator = (*Auther)(nil)
