package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"estatehub/internal/apperrors"
	"estatehub/internal/service"
)

// ContactHandler handles contact-form endpoints.
type ContactHandler struct {
	svc service.ContactService
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(svc service.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// ContactRequest represents a contact-form submission.
type ContactRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Subject  string `json:"subject"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
}

// Create godoc
// @Summary Submit the contact form
// @Tags contact-us
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Contact form"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} apperrors.Response
// @Router /contact-us [post]
func (h *ContactHandler) Create(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	contact, err := h.svc.Create(c.Request().Context(), service.ContactInput{
		Fullname: req.Fullname,
		Email:    req.Email,
		Subject:  req.Subject,
		Phone:    req.Phone,
		Message:  req.Message,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Contact message received successfully",
		"data":    contact,
	})
}

// List godoc
// @Summary List contact submissions
// @Tags contact-us
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /contact-us [get]
func (h *ContactHandler) List(c echo.Context) error {
	contacts, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(contacts),
		"data":    contacts,
	})
}

// Get godoc
// @Summary Get a contact submission
// @Tags contact-us
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.Response
// @Router /contact-us/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("Invalid contact ID format")
	}

	contact, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    contact,
	})
}

// Delete godoc
// @Summary Delete a contact submission
// @Tags contact-us
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.Response
// @Router /contact-us/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("Invalid contact ID format")
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Contact deleted successfully",
	})
}
