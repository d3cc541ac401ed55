package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleSeller UserRole = "seller"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID           uint     `gorm:"primarykey" json:"id"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Name         string   `gorm:"not null" json:"name"`
	Phone        string   `json:"phone"`
	Role         UserRole `gorm:"type:varchar(20);default:'user'" json:"role"`

	// Accounts start inactive and are activated through an emailed token.
	IsActive          bool       `gorm:"default:false" json:"is_active"`
	ActivationToken   string     `gorm:"size:64;index" json:"-"`
	ActivationSentAt  *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Addresses []ShippingAddress `gorm:"foreignKey:UserID" json:"addresses,omitempty"`
	Orders    []Order           `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
