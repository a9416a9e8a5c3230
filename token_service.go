package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	expiration time.Duration
	logger     Logger
	now        func() time.Time
}

// NewTokenService creates a new TokenService instance. A zero
// expiration falls back to TokenExpiration.
func NewTokenService(signingKey []byte, expiration time.Duration, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	if expiration <= 0 {
		expiration = TokenExpiration
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		expiration: expiration,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source, issuance and expiry checks both
// use it
func (ts *TokenServiceImpl) WithClock(now func() time.Time) *TokenServiceImpl {
	if now != nil {
		ts.now = now
	}
	return ts
}

// WithLogger overrides the logger used for validation diagnostics
func (ts *TokenServiceImpl) WithLogger(logger Logger) *TokenServiceImpl {
	if logger != nil {
		ts.logger = logger
	}
	return ts
}

// Generate creates a signed token for the given subject
func (ts *TokenServiceImpl) Generate(subject string) (string, error) {
	now := ts.now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.expiration)),
		},
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary claims using the configured signing key
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims
func (ts *TokenServiceImpl) Validate(raw string) (AuthClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, jwt.WithTimeFunc(ts.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode claims")
	return nil, ErrTokenMalformed
}

// SubjectFromToken decodes and signature verifies the token, returning
// the subject claim
func (ts *TokenServiceImpl) SubjectFromToken(raw string) (string, error) {
	claims, err := ts.Validate(raw)
	if err != nil {
		return "", err
	}
	return claims.Subject(), nil
}

// IsValid reports whether the token verifies, is not expired, and was
// issued for the expected subject. The compare is case sensitive.
func (ts *TokenServiceImpl) IsValid(raw, expectedSubject string) bool {
	subject, err := ts.SubjectFromToken(raw)
	if err != nil {
		return false
	}
	return subject == expectedSubject
}

var _ TokenService = (*TokenServiceImpl)(nil)
