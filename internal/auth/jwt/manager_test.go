package jwt_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newwork/people-service/internal/auth/jwt"
	"github.com/newwork/people-service/pkg/config"
	apperrors "github.com/newwork/people-service/pkg/errors"
)

func newManager(expiration time.Duration) *jwt.Manager {
	return jwt.NewManager(&config.JWTConfig{
		Secret:     "test-secret-that-is-long-enough-0001",
		Expiration: expiration,
		Issuer:     "people-service",
	})
}

func testUserInfo() *jwt.UserInfo {
	managerID := "b6f4a7f2-9fd1-4a52-9c61-000000000001"
	return &jwt.UserInfo{
		ID:         "b6f4a7f2-9fd1-4a52-9c61-000000000002",
		Email:      "jo@newwork.com",
		EmployeeID: "EMP0042",
		Role:       "EMPLOYEE",
		ManagerID:  &managerID,
	}
}

func TestGenerateAndValidate(t *testing.T) {
	manager := newManager(time.Hour)
	user := testUserInfo()

	token, err := manager.Generate(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := manager.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.EmployeeID, claims.EmployeeID)
	assert.Equal(t, user.Role, claims.Role)
	require.NotNil(t, claims.ManagerID)
	assert.Equal(t, *user.ManagerID, *claims.ManagerID)
	assert.Equal(t, "people-service", claims.Issuer)
}

func TestValidateExpiredToken(t *testing.T) {
	manager := newManager(-time.Minute)

	token, err := manager.Generate(testUserInfo())
	require.NoError(t, err)

	_, err = manager.Validate(token.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := newManager(time.Hour).Generate(testUserInfo())
	require.NoError(t, err)

	other := jwt.NewManager(&config.JWTConfig{
		Secret:     "a-completely-different-secret-000002",
		Expiration: time.Hour,
		Issuer:     "people-service",
	})

	_, err = other.Validate(token.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
}

func TestValidateGarbage(t *testing.T) {
	_, err := newManager(time.Hour).Validate("not.a.token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
}
