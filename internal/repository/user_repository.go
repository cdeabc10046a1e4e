package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatehub/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByResetTokenHash(ctx context.Context, hash string, now time.Time) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetResetToken(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user. Email uniqueness is enforced by the store.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = strings.ToLower(user.Email)
	return r.db.WithContext(ctx).Create(user).Error
}

// Update persists all fields of an existing user.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	user.Email = strings.ToLower(user.Email)
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes a user.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id).Error
}

// FindByID finds a user by ID.
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email, case-insensitively.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByResetTokenHash finds a user whose stored reset hash matches and whose
// expiry is still in the future.
func (r *userRepository) FindByResetTokenHash(ctx context.Context, hash string, now time.Time) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("reset_token_hash = ? AND reset_token_expires_at > ?", hash, now).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users.
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdatePassword sets a new password hash.
func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// UpdateLastLogin records the latest successful login time.
func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

// SetResetToken stores a reset-token hash with its expiry.
func (r *userRepository) SetResetToken(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_token_hash":       hash,
			"reset_token_expires_at": expiresAt,
		}).Error
}

// ClearResetToken drops both reset fields.
func (r *userRepository) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_token_hash":       "",
			"reset_token_expires_at": nil,
		}).Error
}

// SetActive toggles the active flag.
func (r *userRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}
