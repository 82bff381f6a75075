package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue("alice@example.com")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	subject, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)
}

func TestTokenService_UsesHS512WithExpiry(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewTokenService("secret", 12*time.Hour, WithClock(fixedClock(issuedAt)))
	require.NoError(t, err)

	token, err := svc.Issue("alice@example.com")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, "HS512", parsed.Method.Alg())
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issuedAt.Add(12*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestTokenService_VerifyRejects(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewTokenService("secret", time.Hour, WithClock(fixedClock(issuedAt)))
	require.NoError(t, err)

	valid, err := svc.Issue("alice@example.com")
	require.NoError(t, err)

	other, err := NewTokenService("other-secret", time.Hour, WithClock(fixedClock(issuedAt)))
	require.NoError(t, err)
	foreign, err := other.Issue("alice@example.com")
	require.NoError(t, err)

	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice@example.com",
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: "alice@example.com",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "tampered signature", token: tampered},
		{name: "signed with another secret", token: foreign},
		{name: "other algorithm", token: hs256},
		{name: "missing expiry", token: noExpiry},
		{name: "missing subject", token: noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Empty(t, subject)
		})
	}
}

func TestTokenService_VerifyExpired(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	svc, err := NewTokenService("secret", time.Hour, WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	token, err := svc.Issue("alice@example.com")
	require.NoError(t, err)

	now = issuedAt.Add(59 * time.Minute)
	_, err = svc.Verify(token)
	require.NoError(t, err)

	now = issuedAt.Add(2 * time.Hour)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenService(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.Error(t, err)

	svc, err := NewTokenService("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenValidity, svc.Validity())

	_, err = svc.Issue("")
	assert.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	h := &BcryptHasher{Cost: 4}

	hash, err := h.Hash("foo123")
	require.NoError(t, err)
	assert.NotEqual(t, "foo123", hash)

	assert.True(t, h.Matches("foo123", hash))
	assert.False(t, h.Matches("foo124", hash))
	assert.False(t, h.Matches("foo123", "not-a-bcrypt-hash"))

	_, err = h.Hash("")
	assert.Error(t, err)
}
