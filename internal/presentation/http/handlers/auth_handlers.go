// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"

	"github.com/FormulaEngajamento/engajamento-go/internal/application/services"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
	"github.com/FormulaEngajamento/engajamento-go/internal/presentation/http/middleware"
	"github.com/FormulaEngajamento/engajamento-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PostLogin handles POST /api/admin/login. On success the session JWT is set
// as an HTTP-only cookie and also returned in the body for Bearer clients.
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	result := h.authService.Login(req.Username, req.Password)
	if !result.Success {
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Error})
		return
	}

	maxAge := int(config.AdminTokenTTL.Seconds())
	c.SetCookie(middleware.AdminTokenCookie, result.Token, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, result)
}

// PostLogout handles POST /api/admin/logout by expiring the session cookie.
func (h *AuthHandlers) PostLogout(c *gin.Context) {
	c.SetCookie(middleware.AdminTokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetVerify handles GET /api/admin/verify for the authenticated admin.
func (h *AuthHandlers) GetVerify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"username":      middleware.AdminUsername(c),
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// PostChangePassword handles POST /api/admin/change-password.
func (h *AuthHandlers) PostChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currentPassword and newPassword are required"})
		return
	}

	username := middleware.AdminUsername(c)
	if err := h.authService.ChangePassword(username, req.CurrentPassword, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PostCreateAdmin handles POST /api/admin/create. Disabled unless the
// ALLOW_ADMIN_CREATION flag is set.
func (h *AuthHandlers) PostCreateAdmin(c *gin.Context) {
	if !config.AllowAdminCreation {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin creation is disabled"})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	if err := h.authService.CreateAdmin(req.Username, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}
