// internal/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalogue-backend/internal/config"
	"catalogue-backend/internal/middleware"
	"catalogue-backend/internal/services"
	"catalogue-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		handleServiceError(c, h.cfg, err, "User")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Registration successful. Check your email for a verification link.",
		"user":    user,
	})
}

// GET /auth/verify/:user_id/:token
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	user, err := h.authService.VerifyEmail(userID, c.Param("token"))
	if err != nil {
		handleServiceError(c, h.cfg, err, "Verification link")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Email verified. You can now log in.",
		"user":    user,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", ve.Fields)
			return
		}
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, resp)
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		utils.UnauthorizedResponse(c, "Invalid refresh token")
		return
	}

	utils.SuccessResponse(c, resp)
}

// POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.authService.ResetPassword(&req); err != nil {
		handleServiceError(c, h.cfg, err, "User")
		return
	}

	// Same answer whether or not the email exists.
	utils.SuccessResponse(c, gin.H{
		"message": "If the email is registered, a new password has been sent to it.",
	})
}

// GET /auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	utils.SuccessResponse(c, user)
}

// PUT /auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	updated, err := h.authService.UpdateProfile(user.ID, &req)
	if err != nil {
		handleServiceError(c, h.cfg, err, "User")
		return
	}

	utils.SuccessResponse(c, updated)
}

// POST /auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.authService.ChangePassword(user.ID, &req); err != nil {
		handleServiceError(c, h.cfg, err, "User")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Password changed"})
}
