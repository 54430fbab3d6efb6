package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newwork/people-service/internal/auth/handler"
	"github.com/newwork/people-service/internal/auth/jwt"
	"github.com/newwork/people-service/pkg/config"
	"github.com/newwork/people-service/pkg/principal"
)

func newTokenManager(expiration time.Duration) *jwt.Manager {
	return jwt.NewManager(&config.JWTConfig{
		Secret:     "test-secret-that-is-long-enough-0001",
		Expiration: expiration,
		Issuer:     "people-service",
	})
}

func protectedEcho(t *testing.T, captured **principal.Principal) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = principal.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateAttachesPrincipal(t *testing.T) {
	tokens := newTokenManager(time.Hour)
	token, err := tokens.Generate(&jwt.UserInfo{
		ID:         "u-1",
		Email:      "jo@newwork.com",
		EmployeeID: "EMP0042",
		Role:       "MANAGER",
	})
	require.NoError(t, err)

	var got *principal.Principal
	srv := handler.Authenticate(tokens)(protectedEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/u-1", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "EMP0042", got.EmployeeID)
	assert.True(t, got.IsManager())
}

func TestAuthenticateRejections(t *testing.T) {
	tokens := newTokenManager(time.Hour)

	expired, err := newTokenManager(-time.Minute).Generate(&jwt.UserInfo{ID: "u-1"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expired.AccessToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *principal.Principal
			srv := handler.Authenticate(tokens)(protectedEcho(t, &got))

			req := httptest.NewRequest(http.MethodGet, "/api/profiles/u-1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, got)
		})
	}
}
