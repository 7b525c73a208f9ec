package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager("test-secret")
	require.NoError(t, err)
	return manager
}

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	_, err := NewJWTManager("")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	manager := newTestManager(t)

	token, err := manager.GenerateAccessJWT("payment-admin", time.Minute)
	require.NoError(t, err)

	subject, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "payment-admin", subject)
}

func TestAccessToken_Expired(t *testing.T) {
	manager := newTestManager(t)
	manager.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := manager.GenerateAccessJWT("payment-admin", time.Minute)
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	other, err := NewJWTManager("other-secret")
	require.NoError(t, err)
	token, err := other.GenerateAccessJWT("payment-admin", time.Minute)
	require.NoError(t, err)

	_, err = newTestManager(t).ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestTokenSource_MintsValidTokens(t *testing.T) {
	manager := newTestManager(t)

	token, err := manager.TokenSource("payment-admin", time.Minute)(context.Background())
	require.NoError(t, err)

	subject, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "payment-admin", subject)
}

func TestJWTAccessTokenMiddleware(t *testing.T) {
	manager := newTestManager(t)
	var seen string
	protected := JWTAccessTokenMiddleware(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	validToken, err := manager.GenerateAccessJWT("payment-admin", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not a bearer token", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + validToken, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/protected/payment-methods", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			protected.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
	assert.Equal(t, "payment-admin", seen)
}
