package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"estatehub/internal/apperrors"
	"estatehub/internal/cache"
	"estatehub/internal/model"
	"estatehub/internal/repository"
	"estatehub/internal/storage"
)

const (
	propertyCacheTTL    = 5 * time.Minute
	propertyCachePrefix = "property:"
	listingCachePrefix  = "properties:"

	// MaxImagesPerUpload bounds a single multipart upload.
	MaxImagesPerUpload = 10
	// MaxImageSize bounds a single image file.
	MaxImageSize = 5 << 20
)

// PropertyInput carries the mutable fields of a listing.
type PropertyInput struct {
	PropertyTitle string
	Price         decimal.Decimal
	Location      string
	PropertyType  string
	Bedrooms      int
	Bathrooms     int
	Area          int
	Images        []string
	Description   string
}

// PropertyPage is a paginated listing result.
type PropertyPage struct {
	Properties []model.Property `json:"properties"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Pages      int              `json:"pages"`
}

// ImageUpload is one file from a multipart upload.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// PropertyService exposes listing operations with ownership enforcement on
// writes.
type PropertyService interface {
	Create(ctx context.Context, principal *model.User, input PropertyInput) (*model.Property, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Property, error)
	List(ctx context.Context, filter repository.PropertyFilter) (*PropertyPage, error)
	Update(ctx context.Context, principal *model.User, id uuid.UUID, input PropertyInput) (*model.Property, error)
	Delete(ctx context.Context, principal *model.User, id uuid.UUID) error
	UploadImages(ctx context.Context, id uuid.UUID, uploads []ImageUpload) ([]string, error)
}

type propertyService struct {
	repo   repository.PropertyRepository
	images storage.ImageStore
	cache  *cache.Client
}

// NewPropertyService builds a PropertyService with repository, image store and cache.
func NewPropertyService(repo repository.PropertyRepository, images storage.ImageStore, cache *cache.Client) PropertyService {
	return &propertyService{repo: repo, images: images, cache: cache}
}

func (s *propertyService) cacheKey(id uuid.UUID) string {
	return propertyCachePrefix + id.String()
}

func (s *propertyService) listCacheKey(filter repository.PropertyFilter) string {
	return fmt.Sprintf("%s%s:%s:%d:%d", listingCachePrefix, filter.CreatedBy, filter.PropertyType, filter.Limit, filter.Page)
}

func (s *propertyService) invalidate(ctx context.Context, id uuid.UUID) {
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	_ = s.cache.DeleteByPrefix(ctx, listingCachePrefix)
}

// Create stores a new listing owned by the principal.
func (s *propertyService) Create(ctx context.Context, principal *model.User, input PropertyInput) (*model.Property, error) {
	if input.PropertyType != "" && !model.ValidPropertyType(input.PropertyType) {
		return nil, apperrors.BadRequest("Invalid property type")
	}

	property := &model.Property{
		PropertyTitle: input.PropertyTitle,
		Price:         input.Price,
		Location:      input.Location,
		PropertyType:  input.PropertyType,
		Bedrooms:      input.Bedrooms,
		Bathrooms:     input.Bathrooms,
		Area:          input.Area,
		Images:        input.Images,
		Description:   input.Description,
		CreatedBy:     principal.ID,
	}
	if property.PropertyType == "" {
		property.PropertyType = model.PropertyTypeHouse
	}
	if property.Images == nil {
		property.Images = []string{}
	}

	if err := s.repo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	s.invalidate(ctx, property.ID)
	return property, nil
}

// Get returns a single listing, serving repeated reads from cache.
func (s *propertyService) Get(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Property
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Property not found")
		}
		return nil, fmt.Errorf("find property: %w", err)
	}

	if payload, err := json.Marshal(property); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, propertyCacheTTL)
	}
	return property, nil
}

// List returns a filtered page of listings with pagination metadata.
func (s *propertyService) List(ctx context.Context, filter repository.PropertyFilter) (*PropertyPage, error) {
	key := s.listCacheKey(filter)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached PropertyPage
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	properties, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pages := int((total + int64(limit) - 1) / int64(limit))

	result := &PropertyPage{
		Properties: properties,
		Total:      total,
		Page:       page,
		Pages:      pages,
	}
	if payload, err := json.Marshal(result); err == nil {
		_ = s.cache.Set(ctx, key, payload, propertyCacheTTL)
	}
	return result, nil
}

// Update applies changes to a listing the principal owns (admins may edit any).
func (s *propertyService) Update(ctx context.Context, principal *model.User, id uuid.UUID, input PropertyInput) (*model.Property, error) {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("Property not found")
	}

	if property.CreatedBy != principal.ID && !principal.IsAdmin() {
		return nil, apperrors.Forbidden("Not authorized to update this property")
	}

	if input.PropertyTitle != "" {
		property.PropertyTitle = input.PropertyTitle
	}
	if !input.Price.IsZero() {
		property.Price = input.Price
	}
	if input.Location != "" {
		property.Location = input.Location
	}
	if input.PropertyType != "" {
		if !model.ValidPropertyType(input.PropertyType) {
			return nil, apperrors.BadRequest("Invalid property type")
		}
		property.PropertyType = input.PropertyType
	}
	if input.Bedrooms > 0 {
		property.Bedrooms = input.Bedrooms
	}
	if input.Bathrooms > 0 {
		property.Bathrooms = input.Bathrooms
	}
	if input.Area > 0 {
		property.Area = input.Area
	}
	if input.Images != nil {
		property.Images = input.Images
	}
	if input.Description != "" {
		property.Description = input.Description
	}

	if err := s.repo.Update(ctx, property); err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}
	s.invalidate(ctx, id)
	return property, nil
}

// Delete removes a listing and its stored images. Image cleanup is best
// effort: a storage failure is logged and does not block the delete.
func (s *propertyService) Delete(ctx context.Context, principal *model.User, id uuid.UUID) error {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperrors.NotFound("Property not found")
	}

	if property.CreatedBy != principal.ID && !principal.IsAdmin() {
		return apperrors.Forbidden("Not authorized to delete this property")
	}

	for _, url := range property.Images {
		if err := s.images.Delete(ctx, url); err != nil {
			log.Printf("delete property image %s: %v", url, err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	s.invalidate(ctx, id)
	return nil
}

// UploadImages stores new photos and appends their URLs to the listing.
func (s *propertyService) UploadImages(ctx context.Context, id uuid.UUID, uploads []ImageUpload) ([]string, error) {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("Property not found")
	}

	if len(uploads) == 0 {
		return nil, apperrors.BadRequest("No files uploaded")
	}
	if len(uploads) > MaxImagesPerUpload {
		return nil, apperrors.BadRequest(fmt.Sprintf("At most %d images can be uploaded at once", MaxImagesPerUpload))
	}

	urls := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		if !storage.AllowedImage(upload.Filename) {
			return nil, apperrors.BadRequest("Only image files are allowed!")
		}
		// Object names are regenerated so uploads can't collide or overwrite.
		name := uuid.New().String() + strings.ToLower(path.Ext(upload.Filename))
		url, err := s.images.Upload(ctx, name, upload.Content)
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		urls = append(urls, url)
	}

	merged := append(property.Images, urls...)
	if err := s.repo.UpdateImages(ctx, id, merged); err != nil {
		return nil, fmt.Errorf("store image urls: %w", err)
	}
	s.invalidate(ctx, id)
	return merged, nil
}
