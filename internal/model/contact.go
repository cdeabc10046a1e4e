package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact represents a contact-form submission.
type Contact struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Fullname  string    `json:"fullname" gorm:"size:255;not null"`
	Email     string    `json:"email" gorm:"size:255;not null"`
	Subject   string    `json:"subject" gorm:"size:255;not null"`
	Phone     string    `json:"phone" gorm:"size:30;not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
