package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatehub/internal/model"
)

// PropertyFilter narrows and pages a listing query.
type PropertyFilter struct {
	CreatedBy    uuid.UUID
	PropertyType string
	Limit        int
	Page         int
}

// PropertyRepository defines listing persistence operations.
type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	Update(ctx context.Context, property *model.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error)
	List(ctx context.Context, filter PropertyFilter) ([]model.Property, int64, error)
	UpdateImages(ctx context.Context, id uuid.UUID, images []string) error
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// Create creates a new listing.
func (r *propertyRepository) Create(ctx context.Context, property *model.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

// Update persists all fields of an existing listing.
func (r *propertyRepository) Update(ctx context.Context, property *model.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

// Delete removes a listing.
func (r *propertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Property{}, "id = ?", id).Error
}

// FindByID finds a listing by ID with its creator preloaded.
func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	var property model.Property
	if err := r.db.WithContext(ctx).Preload("Creator").
		Where("id = ?", id).First(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// List returns a filtered, newest-first page of listings plus the total count.
func (r *propertyRepository) List(ctx context.Context, filter PropertyFilter) ([]model.Property, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Property{})
	if filter.CreatedBy != uuid.Nil {
		query = query.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.PropertyType != "" {
		query = query.Where("property_type = ?", filter.PropertyType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	var properties []model.Property
	if err := query.Preload("Creator").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&properties).Error; err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

// UpdateImages replaces the stored image URL list.
func (r *propertyRepository) UpdateImages(ctx context.Context, id uuid.UUID, images []string) error {
	return r.db.WithContext(ctx).Model(&model.Property{}).
		Where("id = ?", id).
		Update("images", images).Error
}
