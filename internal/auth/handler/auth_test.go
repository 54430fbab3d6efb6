package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/newwork/people-service/internal/auth/handler"
	"github.com/newwork/people-service/internal/auth/service"
	"github.com/newwork/people-service/internal/employee/repository"
	apperrors "github.com/newwork/people-service/pkg/errors"
	"github.com/newwork/people-service/pkg/httputil"
	"github.com/newwork/people-service/pkg/logger"
)

type staticUserStore struct {
	users map[string]*repository.User
}

func (s *staticUserStore) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return user, nil
}

// newAuthRouter mounts the auth endpoints the way the server does: both
// routes are always registered and the service enforces the demo flag.
func newAuthRouter(t *testing.T, switchUserEnabled bool) *chi.Mux {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &staticUserStore{users: map[string]*repository.User{
		"marta@newwork.com": {
			ID:           "u-1",
			EmployeeID:   "EMP0001",
			Email:        "marta@newwork.com",
			PasswordHash: string(hash),
			Role:         "MANAGER",
		},
	}}

	log := logger.New("handler-test", "test")
	svc := service.NewAuthService(users, newTokenManager(time.Hour), switchUserEnabled, log)
	h := handler.NewAuthHandler(svc, log)

	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/switch-user", h.SwitchUser)
	})
	return r
}

func postJSON(t *testing.T, r http.Handler, path, body string) (*httptest.ResponseRecorder, httputil.Response) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var envelope httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return rec, envelope
}

func TestSwitchUserDisabledReturnsForbidden(t *testing.T) {
	r := newAuthRouter(t, false)

	rec, envelope := postJSON(t, r, "/api/auth/switch-user", `{"email":"marta@newwork.com"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "FORBIDDEN", envelope.Error.Code)
}

func TestSwitchUserEnabledIssuesToken(t *testing.T) {
	r := newAuthRouter(t, true)

	rec, envelope := postJSON(t, r, "/api/auth/switch-user", `{"email":"marta@newwork.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)
	assert.Nil(t, envelope.Error)
}

func TestLoginThroughHandler(t *testing.T) {
	r := newAuthRouter(t, false)

	rec, envelope := postJSON(t, r, "/api/auth/login", `{"email":"marta@newwork.com","password":"s3cret"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)
}
