package server

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitas-015/hexutil/internal/config"
)

const testSecret = "correct horse battery staple"

func newTestAuth(secret, issuer string) *Authenticator {
	cfg := config.Default()
	cfg.Auth.Secret = secret
	cfg.Auth.Issuer = issuer
	return NewAuthenticator(cfg, nil, zerolog.Nop())
}

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthenticateAnonymous(t *testing.T) {
	a := newTestAuth("", "")
	assert.False(t, a.Enabled())

	p1, err := a.Authenticate(context.Background(), "")
	require.NoError(t, err)
	p2, err := a.Authenticate(context.Background(), "ignored")
	require.NoError(t, err)

	assert.True(t, p1.Anonymous)
	assert.Len(t, p1.ID, 36)
	assert.NotEqual(t, p1.ID, p2.ID)
	assert.Equal(t, "guest-"+p1.ID[:8], p1.Name)
}

func TestAuthenticateToken(t *testing.T) {
	a := newTestAuth(testSecret, "hexutil")
	token := signToken(t, testSecret, Claims{
		UserID: "42",
		Name:   "ada",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "hexutil",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	p, err := a.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "42", p.ID)
	assert.Equal(t, "ada", p.Name)
	assert.False(t, p.Anonymous)
}

func TestAuthenticateSubjectFallback(t *testing.T) {
	a := newTestAuth(testSecret, "")
	token := signToken(t, testSecret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-7"},
	})

	p, err := a.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-7", p.ID)
	assert.Equal(t, "user-7", p.Name)
}

func TestAuthenticateRejects(t *testing.T) {
	a := newTestAuth(testSecret, "hexutil")
	valid := jwt.RegisteredClaims{Issuer: "hexutil", Subject: "1"}

	_, err := a.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong secret", signToken(t, "other", Claims{RegisteredClaims: valid})},
		{"wrong issuer", signToken(t, testSecret, Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "elsewhere", Subject: "1"}})},
		{"expired", signToken(t, testSecret, Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "hexutil",
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}})},
		{"no subject", signToken(t, testSecret, Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "hexutil"}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authenticate(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestExtractToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws", nil)
	assert.Equal(t, "", extractToken(r))

	r = httptest.NewRequest("GET", "/ws?token=q", nil)
	assert.Equal(t, "q", extractToken(r))

	r.Header.Set("Authorization", "Bearer b")
	assert.Equal(t, "b", extractToken(r))

	r.Header.Set("Sec-WebSocket-Protocol", "access_token, p")
	assert.Equal(t, "p", extractToken(r))

	r.Header.Set("Sec-WebSocket-Protocol", "chat")
	assert.Equal(t, "b", extractToken(r))
}
