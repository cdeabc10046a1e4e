package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"estatehub/internal/apperrors"
	"estatehub/internal/service"
)

// UserHandler handles account CRUD endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest represents a registration payload.
type CreateUserRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin manager"`
}

// UpdateUserRequest represents a profile update payload.
type UpdateUserRequest struct {
	FirstName string `json:"firstName" validate:"omitempty,max=50"`
	LastName  string `json:"lastName" validate:"omitempty,max=50"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// UpdatePasswordRequest carries a replacement password.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// CreateUser godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} apperrors.Response
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.BadRequest(err.Error())
	}

	user, err := h.svc.CreateUser(c.Request().Context(), service.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    user,
	})
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(users),
		"data":    users,
	})
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("Invalid user ID format")
	}

	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    user,
	})
}

// UpdateUser godoc
// @Summary Update a user profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Profile fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apperrors.Response
// @Failure 404 {object} apperrors.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("Invalid user ID format")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.BadRequest(err.Error())
	}

	user, err := h.svc.UpdateUser(c.Request().Context(), id, service.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    user,
	})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("Invalid user ID format")
	}

	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}

// UpdatePassword godoc
// @Summary Set a user's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdatePasswordRequest true "New password"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apperrors.Response
// @Failure 404 {object} apperrors.Response
// @Router /users/{id}/password [put]
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("Invalid user ID format")
	}

	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.BadRequest(err.Error())
	}

	if err := h.svc.SetPassword(c.Request().Context(), id, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Password updated successfully",
	})
}

// UpdateLastLogin godoc
// @Summary Stamp a user's last-login time
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.Response
// @Router /users/{id}/last-login [put]
func (h *UserHandler) UpdateLastLogin(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("Invalid user ID format")
	}

	if err := h.svc.TouchLastLogin(c.Request().Context(), id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Last login updated",
	})
}
