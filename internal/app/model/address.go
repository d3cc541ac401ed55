package model

import (
	"time"

	"gorm.io/gorm"
)

// ShippingAddress is a saved destination in a user's address book.
// At most one address per user is the default.
type ShippingAddress struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Label        string         `gorm:"size:100" json:"label"`
	FullName     string         `gorm:"size:100;not null" json:"full_name"`
	Phone        string         `gorm:"size:30;not null" json:"phone"`
	AddressLine1 string         `gorm:"size:255;not null" json:"address_line1"`
	AddressLine2 string         `gorm:"size:255" json:"address_line2,omitempty"`
	City         string         `gorm:"size:100;not null" json:"city"`
	State        string         `gorm:"size:100" json:"state,omitempty"`
	ZipCode      string         `gorm:"size:20;not null" json:"zip_code"`
	Country      string         `gorm:"size:100;not null" json:"country"`
	IsDefault    bool           `gorm:"default:false" json:"is_default"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ShippingAddress) TableName() string {
	return "shipping_addresses"
}
