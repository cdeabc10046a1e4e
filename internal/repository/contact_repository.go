package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatehub/internal/model"
)

// ContactRepository defines contact-inbox persistence operations.
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	List(ctx context.Context) ([]model.Contact, error)
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

// Create stores a contact-form submission.
func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// Delete removes a submission.
func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Contact{}, "id = ?", id).Error
}

// FindByID finds a submission by ID.
func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// List returns all submissions newest first.
func (r *contactRepository) List(ctx context.Context) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}
