package model

import (
	"time"
)

// Review is a product review. Each user may review a product once.
type Review struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_review_user_product" json:"user_id"`
	ProductID uint   `gorm:"not null;uniqueIndex:idx_review_user_product" json:"product_id"`
	Rating    int    `gorm:"not null" json:"rating"` // 1 to 5
	Comment   string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
