package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatehub/internal/apperrors"
	"estatehub/internal/auth"
	"estatehub/internal/cache"
	"estatehub/internal/model"
	"estatehub/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// CreateUserInput carries registration fields.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

// UpdateUserInput carries the mutable profile fields. Role changes are
// deliberately excluded so an owner update can't escalate privileges.
type UpdateUserInput struct {
	FirstName string
	LastName  string
	Email     string
}

// UserService exposes account CRUD operations.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	SetPassword(ctx context.Context, id uuid.UUID, password string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo   repository.UserRepository
	policy *auth.PasswordPolicy
	cache  *cache.Client
}

// NewUserService builds a UserService with repository, password policy and cache.
func NewUserService(repo repository.UserRepository, policy *auth.PasswordPolicy, cache *cache.Client) UserService {
	return &userService{repo: repo, policy: policy, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

// CreateUser registers an account. The password is complexity-checked and
// hashed here, in the write path, never by the handler.
func (s *userService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if err := s.policy.ValidateComplexity(input.Password); err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}
	passwordHash, err := s.policy.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = model.RoleUser
	}

	user := &model.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.BadRequest("Email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetUser returns a user by id, serving repeated reads from cache.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// ListUsers returns all accounts.
func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// UpdateUser applies profile changes. Moving to an email already in use fails
// with the same message the store's uniqueness constraint produces.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("User not found")
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Email != "" {
		user.Email = input.Email
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.BadRequest("Email already exists")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// DeleteUser removes an account.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apperrors.NotFound("User not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// SetPassword replaces a user's password through the same policy gate as
// registration.
func (s *userService) SetPassword(ctx context.Context, id uuid.UUID, password string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apperrors.NotFound("User not found")
	}

	if err := s.policy.ValidateComplexity(password); err != nil {
		return apperrors.BadRequest(err.Error())
	}
	passwordHash, err := s.policy.Hash(password)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, id, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// TouchLastLogin stamps the last-login field with the current time.
func (s *userService) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apperrors.NotFound("User not found")
	}
	if err := s.repo.UpdateLastLogin(ctx, id, time.Now()); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
