package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenValidity is used when NewTokenService receives a non-positive validity.
const DefaultTokenValidity = 12 * time.Hour

// TokenService issues and verifies HS512 bearer tokens whose subject is the
// user's email. It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenService builds a token service keyed by secret.
func NewTokenService(secret string, validity time.Duration, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if validity <= 0 {
		validity = DefaultTokenValidity
	}

	s := &TokenService{
		secret:   []byte(secret),
		validity: validity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Validity returns how long issued tokens remain valid.
func (s *TokenService) Validity() time.Duration {
	return s.validity
}

// Issue signs a token for subject with iat=now and exp=now+validity.
func (s *TokenService) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the subject.
// Every failure collapses to ErrInvalidToken.
func (s *TokenService) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
