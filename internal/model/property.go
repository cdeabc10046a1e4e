package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Property types accepted by the listing form.
const (
	PropertyTypeHouse      = "House"
	PropertyTypeApartment  = "Apartment"
	PropertyTypeCommercial = "Commercial"
	PropertyTypeLand       = "Land"
	PropertyTypeOther      = "Other"
)

// Property represents a real-estate listing.
type Property struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	PropertyTitle string          `json:"propertyTitle" gorm:"size:255;not null"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null;default:0"`
	Location      string          `json:"location" gorm:"size:255;not null"`
	PropertyType  string          `json:"propertyType" gorm:"size:20;not null;default:'House';index"`
	Bedrooms      int             `json:"bedrooms" gorm:"default:0"`
	Bathrooms     int             `json:"bathrooms" gorm:"default:0"`
	Area          int             `json:"area" gorm:"default:0"`
	Images        []string        `json:"images" gorm:"serializer:json"`
	Description   string          `json:"description" gorm:"type:text"`
	CreatedBy     uuid.UUID       `json:"createdBy" gorm:"type:char(36);not null;index"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// Relations
	Creator *User `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ValidPropertyType reports whether t is one of the accepted listing types.
func ValidPropertyType(t string) bool {
	switch t {
	case PropertyTypeHouse, PropertyTypeApartment, PropertyTypeCommercial, PropertyTypeLand, PropertyTypeOther:
		return true
	}
	return false
}
