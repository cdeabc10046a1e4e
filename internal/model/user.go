package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user account can hold.
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// User represents a platform account.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName    string    `json:"firstName" gorm:"size:50;not null"`
	LastName     string    `json:"lastName" gorm:"size:50;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:20;default:'user'"`
	IsActive     bool      `json:"isActive" gorm:"default:true;index"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`

	// Reset credentials are stored hashed and are single-use, time-boxed.
	ResetTokenHash      string     `json:"-" gorm:"size:64;index"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName joins first and last name for display and mail greetings.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
