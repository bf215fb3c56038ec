// Package services provides application-level orchestration services
package services

import (
	"fmt"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/admin"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/security"
	"github.com/FormulaEngajamento/engajamento-go/pkg/config"
)

// AuthService handles dashboard authentication workflows and JWT operations.
type AuthService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	userRepo    admin.UserRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, userRepo admin.UserRepository) *AuthService {
	return &AuthService{
		logger:      logger,
		perfTracker: perfTracker,
		userRepo:    userRepo,
	}
}

// LoginResult holds authentication result data.
type LoginResult struct {
	Success                bool   `json:"success"`
	Token                  string `json:"token,omitempty"`
	Username               string `json:"username,omitempty"`
	RequiresPasswordChange bool   `json:"requiresPasswordChange"`
	Error                  string `json:"error,omitempty"`
}

// Login validates admin credentials and generates a session JWT.
func (a *AuthService) Login(username, password string) *LoginResult {
	marker := a.perfTracker.StartOperation("admin_login")
	defer marker.Complete()

	user, err := a.userRepo.FindByUsername(username)
	if err != nil {
		marker.SetError(err)
		a.logger.Auth().Error("Login lookup failed", "error", err.Error(), "username", username)
		return &LoginResult{Success: false, Error: "Internal error"}
	}

	if user == nil || !security.CheckPassword(user.PasswordHash, password) {
		a.logger.Auth().Warn("Login rejected", "username", username)
		return &LoginResult{Success: false, Error: "Invalid credentials"}
	}

	token, err := security.GenerateAdminToken(user.Username, user.ID, config.JWTSecret, config.AdminTokenTTL)
	if err != nil {
		marker.SetError(err)
		a.logger.Auth().Error("Token generation failed", "error", err.Error(), "username", username)
		return &LoginResult{Success: false, Error: "Internal error"}
	}

	marker.SetSuccess(true)
	a.logger.Auth().Info("Admin logged in", "username", user.Username)
	return &LoginResult{
		Success:                true,
		Token:                  token,
		Username:               user.Username,
		RequiresPasswordChange: user.RequiresPasswordChange,
	}
}

// Verify validates a session token and returns the admin it belongs to.
func (a *AuthService) Verify(token string) (*admin.User, error) {
	claims, err := security.ValidateJWT(token, config.JWTSecret)
	if err != nil {
		return nil, err
	}

	username, err := security.UsernameFromClaims(claims)
	if err != nil {
		return nil, err
	}

	user, err := a.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("admin account no longer exists")
	}
	return user, nil
}

// ChangePassword verifies the current password and stores a new hash,
// clearing the change-required flag.
func (a *AuthService) ChangePassword(username, currentPassword, newPassword string) error {
	marker := a.perfTracker.StartOperation("admin_change_password")
	defer marker.Complete()

	if len(newPassword) < 6 {
		return validationErrorf("new password must be at least 6 characters")
	}

	user, err := a.userRepo.FindByUsername(username)
	if err != nil {
		marker.SetError(err)
		return err
	}
	if user == nil || !security.CheckPassword(user.PasswordHash, currentPassword) {
		a.logger.Auth().Warn("Password change rejected", "username", username)
		return fmt.Errorf("current password is incorrect")
	}

	hash, err := security.HashPassword(newPassword, config.BcryptCost)
	if err != nil {
		marker.SetError(err)
		return err
	}

	if err := a.userRepo.UpdatePassword(username, hash); err != nil {
		marker.SetError(err)
		return err
	}

	marker.SetSuccess(true)
	a.logger.Auth().Info("Admin password changed", "username", username)
	return nil
}

// CreateAdmin registers a new dashboard account. Gated behind the
// ALLOW_ADMIN_CREATION flag at the handler level.
func (a *AuthService) CreateAdmin(username, password string) error {
	marker := a.perfTracker.StartOperation("admin_create")
	defer marker.Complete()

	if username == "" || len(password) < 6 {
		return validationErrorf("username and a password of at least 6 characters are required")
	}

	existing, err := a.userRepo.FindByUsername(username)
	if err != nil {
		marker.SetError(err)
		return err
	}
	if existing != nil {
		return validationErrorf("username already taken")
	}

	hash, err := security.HashPassword(password, config.BcryptCost)
	if err != nil {
		marker.SetError(err)
		return err
	}

	if err := a.userRepo.Create(username, hash, false); err != nil {
		marker.SetError(err)
		return err
	}

	marker.SetSuccess(true)
	a.logger.Auth().Info("Admin account created", "username", username)
	return nil
}
