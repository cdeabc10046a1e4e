package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"estatehub/internal/apperrors"
	"estatehub/internal/config"
	"estatehub/internal/middleware"
	"estatehub/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest represents a password recovery request.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest carries the replacement password.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest represents an authenticated password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// BlockRequest carries the moderation reason.
type BlockRequest struct {
	Reason string `json:"reason"`
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apperrors.Response
// @Failure 401 {object} apperrors.Response
// @Failure 403 {object} apperrors.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token, time.Now().Add(h.cfg.CookieExpiry))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"token":   token,
		"data":    user,
	})
}

// Logout godoc
// @Summary Logout user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	// Sessions are stateless: logout only clears the client-side cookie.
	h.setTokenCookie(c, "none", time.Now().Add(10*time.Second))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User logged out successfully",
	})
}

// Me godoc
// @Summary Get current logged in user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} apperrors.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return apperrors.Unauthorized("Not authorized to access this route")
	}

	user, err := h.authService.Me(c.Request().Context(), principal.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    user,
	})
}

// ForgotPassword godoc
// @Summary Request a password reset token by mail
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.Response
// @Failure 500 {object} apperrors.Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.BadRequest(err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Email sent",
	})
}

// ResetPassword godoc
// @Summary Reset password with a mailed token
// @Tags auth
// @Accept json
// @Produce json
// @Param resetToken path string true "Reset token"
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apperrors.Response
// @Router /auth/reset-password/{resetToken} [put]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.BadRequest(err.Error())
	}

	token, err := h.authService.ResetPassword(c.Request().Context(), c.Param("resetToken"), req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Password reset successful",
		"token":   token,
	})
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} apperrors.Response
// @Router /auth/change-password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return apperrors.Unauthorized("Not authorized to access this route")
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.BadRequest(err.Error())
	}

	token, err := h.authService.ChangePassword(c.Request().Context(), principal.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Password updated successfully",
		"token":   token,
	})
}

// BlockUser godoc
// @Summary Deactivate a user account
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body BlockRequest false "Reason"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apperrors.Response
// @Failure 403 {object} apperrors.Response
// @Failure 404 {object} apperrors.Response
// @Router /auth/block/{id} [put]
func (h *AuthHandler) BlockUser(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return apperrors.Unauthorized("Not authorized to access this route")
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("Invalid user ID format")
	}

	var req BlockRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	if err := h.authService.BlockUser(c.Request().Context(), principal, targetID, req.Reason); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User has been blocked successfully",
	})
}

// UnblockUser godoc
// @Summary Reactivate a user account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.Response
// @Router /auth/unblock/{id} [put]
func (h *AuthHandler) UnblockUser(c echo.Context) error {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("Invalid user ID format")
	}

	if err := h.authService.UnblockUser(c.Request().Context(), targetID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User has been unblocked successfully",
	})
}

func (h *AuthHandler) setTokenCookie(c echo.Context, value string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   !h.cfg.IsDevelopment(),
	})
}
