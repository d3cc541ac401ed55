package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

type Brand struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Products []Product `gorm:"foreignKey:BrandID" json:"-"`
}

func (Brand) TableName() string {
	return "brands"
}

type Product struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Title       string  `gorm:"not null;index" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	// Discount is a percentage between 0 and 100.
	Discount      float64 `gorm:"default:0" json:"discount"`
	StockQuantity int     `gorm:"default:0" json:"stock_quantity"`
	ImageURL      string  `json:"image_url"`

	CategoryID *uint `gorm:"index" json:"category_id,omitempty"`
	BrandID    *uint `gorm:"index" json:"brand_id,omitempty"`
	SellerID   *uint `gorm:"index" json:"seller_id,omitempty"`

	IsActive   bool `gorm:"default:true" json:"is_active"`
	IsApproved bool `gorm:"default:true" json:"is_approved"`
	IsFeatured bool `gorm:"default:false" json:"is_featured"`

	// Review aggregates, recomputed whenever a review changes.
	AverageRating float64 `gorm:"default:0" json:"average_rating"`
	TotalReviews  int     `gorm:"default:0" json:"total_reviews"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Brand    *Brand    `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Seller   *User     `gorm:"foreignKey:SellerID" json:"-"`

	CartItems []CartItem `gorm:"foreignKey:ProductID" json:"-"`
	Reviews   []Review   `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// DiscountedPrice returns the effective unit price after discount
func (p *Product) DiscountedPrice() float64 {
	if p.Discount <= 0 {
		return p.Price
	}
	return p.Price * (1 - p.Discount/100)
}

// Purchasable reports whether the product can currently be sold
func (p *Product) Purchasable() bool {
	return p.IsActive && p.IsApproved
}
