package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/newwork/people-service/internal/auth/jwt"
	"github.com/newwork/people-service/internal/employee/repository"
	"github.com/newwork/people-service/pkg/errors"
	"github.com/newwork/people-service/pkg/logger"
)

// UserStore is the account lookup surface the auth service needs
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*repository.User, error)
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SwitchUserRequest selects the demo identity to assume
type SwitchUserRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UserSummary is the identity block returned alongside a token
type UserSummary struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	ManagerID  *string `json:"managerId,omitempty"`
}

// LoginResponse is a signed token plus the authenticated identity
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expiresAt"`
	TokenType string      `json:"tokenType"`
	User      UserSummary `json:"user"`
}

// AuthService issues tokens for the people service
type AuthService struct {
	users             UserStore
	tokens            *jwt.Manager
	switchUserEnabled bool
	logger            *logger.Logger
}

// NewAuthService creates a new auth service. switchUserEnabled gates the
// demo identity-switch endpoint and must be off in production.
func NewAuthService(users UserStore, tokens *jwt.Manager, switchUserEnabled bool, log *logger.Logger) *AuthService {
	return &AuthService{
		users:             users,
		tokens:            tokens,
		switchUserEnabled: switchUserEnabled,
		logger:            log,
	}
}

// Login verifies credentials and issues an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("login attempt for unknown email")
		return nil, errors.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("user_id", user.ID).Msg("login attempt with wrong password")
		return nil, errors.InvalidCredentials()
	}

	response, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", user.Role).
		Msg("user logged in")

	return response, nil
}

// SwitchUser issues a token for another account without a password.
// Demo tooling only; hard-disabled unless the feature flag is on.
func (s *AuthService) SwitchUser(ctx context.Context, req *SwitchUserRequest) (*LoginResponse, error) {
	if !s.switchUserEnabled {
		return nil, errors.Forbidden("identity switching is disabled")
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	response, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("demo identity switch")

	return response, nil
}

func (s *AuthService) issueToken(user *repository.User) (*LoginResponse, error) {
	token, err := s.tokens.Generate(&jwt.UserInfo{
		ID:         user.ID,
		Email:      user.Email,
		EmployeeID: user.EmployeeID,
		Role:       user.Role,
		ManagerID:  user.ManagerID,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     token.AccessToken,
		ExpiresAt: token.ExpiresAt.UTC().Format(time.RFC3339),
		TokenType: token.TokenType,
		User: UserSummary{
			ID:         user.ID,
			EmployeeID: user.EmployeeID,
			Email:      user.Email,
			Role:       user.Role,
			ManagerID:  user.ManagerID,
		},
	}, nil
}
