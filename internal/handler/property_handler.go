package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"estatehub/internal/apperrors"
	"estatehub/internal/middleware"
	"estatehub/internal/repository"
	"estatehub/internal/service"
)

// PropertyHandler handles listing endpoints.
type PropertyHandler struct {
	svc service.PropertyService
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(svc service.PropertyService) *PropertyHandler {
	return &PropertyHandler{svc: svc}
}

// PropertyRequest represents a listing create/update payload.
type PropertyRequest struct {
	PropertyTitle string          `json:"propertyTitle" validate:"required"`
	Price         decimal.Decimal `json:"price"`
	Location      string          `json:"location" validate:"required"`
	PropertyType  string          `json:"propertyType" validate:"omitempty,oneof=House Apartment Commercial Land Other"`
	Bedrooms      int             `json:"bedrooms" validate:"gte=0"`
	Bathrooms     int             `json:"bathrooms" validate:"gte=0"`
	Area          int             `json:"area" validate:"gte=0"`
	Images        []string        `json:"images"`
	Description   string          `json:"description"`
}

// UpdatePropertyRequest relaxes the required fields for partial updates.
type UpdatePropertyRequest struct {
	PropertyTitle string          `json:"propertyTitle"`
	Price         decimal.Decimal `json:"price"`
	Location      string          `json:"location"`
	PropertyType  string          `json:"propertyType" validate:"omitempty,oneof=House Apartment Commercial Land Other"`
	Bedrooms      int             `json:"bedrooms" validate:"gte=0"`
	Bathrooms     int             `json:"bathrooms" validate:"gte=0"`
	Area          int             `json:"area" validate:"gte=0"`
	Images        []string        `json:"images"`
	Description   string          `json:"description"`
}

// Create godoc
// @Summary Create a property listing
// @Tags property
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PropertyRequest true "Listing data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} apperrors.Response
// @Router /property [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return apperrors.Unauthorized("Not authorized to access this route")
	}

	var req PropertyRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.BadRequest(err.Error())
	}

	property, err := h.svc.Create(c.Request().Context(), principal, service.PropertyInput{
		PropertyTitle: req.PropertyTitle,
		Price:         req.Price,
		Location:      req.Location,
		PropertyType:  req.PropertyType,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		Area:          req.Area,
		Images:        req.Images,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    property,
	})
}

// List godoc
// @Summary List property listings
// @Tags property
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param page query int false "Page number" default(1)
// @Param createdBy query string false "Filter by creator ID"
// @Param propertyType query string false "Filter by type"
// @Success 200 {object} map[string]interface{}
// @Router /property [get]
func (h *PropertyHandler) List(c echo.Context) error {
	filter := repository.PropertyFilter{
		PropertyType: c.QueryParam("propertyType"),
		Limit:        queryInt(c, "limit", 10),
		Page:         queryInt(c, "page", 1),
	}

	if createdBy := c.QueryParam("createdBy"); createdBy != "" {
		id, err := uuid.Parse(createdBy)
		if err != nil {
			return apperrors.BadRequest("Invalid createdBy ID format")
		}
		filter.CreatedBy = id
	}

	page, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(page.Properties),
		"data":    page.Properties,
		"pagination": echo.Map{
			"total": page.Total,
			"page":  page.Page,
			"pages": page.Pages,
		},
	})
}

// Get godoc
// @Summary Get a property listing by id
// @Tags property
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apperrors.Response
// @Failure 404 {object} apperrors.Response
// @Router /property/{id} [get]
func (h *PropertyHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("Invalid property ID format")
	}

	property, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    property,
	})
}

// Update godoc
// @Summary Update a property listing
// @Tags property
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Param request body UpdatePropertyRequest true "Listing fields"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} apperrors.Response
// @Failure 404 {object} apperrors.Response
// @Router /property/{id} [put]
func (h *PropertyHandler) Update(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return apperrors.Unauthorized("Not authorized to access this route")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("Invalid property ID format")
	}

	var req UpdatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.BadRequest(err.Error())
	}

	property, err := h.svc.Update(c.Request().Context(), principal, id, service.PropertyInput{
		PropertyTitle: req.PropertyTitle,
		Price:         req.Price,
		Location:      req.Location,
		PropertyType:  req.PropertyType,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		Area:          req.Area,
		Images:        req.Images,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    property,
	})
}

// Delete godoc
// @Summary Delete a property listing
// @Tags property
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} apperrors.Response
// @Failure 404 {object} apperrors.Response
// @Router /property/{id} [delete]
func (h *PropertyHandler) Delete(c echo.Context) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return apperrors.Unauthorized("Not authorized to access this route")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("Invalid property ID format")
	}

	if err := h.svc.Delete(c.Request().Context(), principal, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Property deleted successfully",
	})
}

// UploadImages godoc
// @Summary Upload listing photos
// @Tags property
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Param images formData file true "Image files"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apperrors.Response
// @Failure 404 {object} apperrors.Response
// @Router /property/{id}/images [post]
func (h *PropertyHandler) UploadImages(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("Invalid property ID format")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.BadRequest("No files uploaded")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return apperrors.BadRequest("No files uploaded")
	}

	uploads := make([]service.ImageUpload, 0, len(files))
	for _, file := range files {
		if file.Size > service.MaxImageSize {
			return apperrors.BadRequest("Image exceeds the 5MB size limit")
		}
		src, err := file.Open()
		if err != nil {
			return apperrors.BadRequest("invalid upload")
		}
		defer src.Close()
		uploads = append(uploads, service.ImageUpload{Filename: file.Filename, Content: src})
	}

	images, err := h.svc.UploadImages(c.Request().Context(), id, uploads)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Images uploaded successfully",
		"images":  images,
	})
}

func queryInt(c echo.Context, name string, def int) int {
	if v := c.QueryParam(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
