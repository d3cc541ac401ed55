package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known status value
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodPaypal PaymentMethod = "paypal"
)

// ValidPaymentMethod reports whether m is a known payment method
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodPaypal:
		return true
	}
	return false
}

// Order is an immutable record of a completed checkout. Item prices and
// the shipping destination are frozen at creation time so later product
// or address edits never change what the customer agreed to.
type Order struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	OrderNumber string      `gorm:"size:64;uniqueIndex;not null" json:"order_number"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	Status      OrderStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	TotalAmount float64     `gorm:"not null" json:"total_amount"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);default:'cash'" json:"payment_method"`

	IsPaid bool       `gorm:"default:false" json:"is_paid"`
	PaidAt *time.Time `json:"paid_at,omitempty"`

	IsDelivered bool       `gorm:"default:false" json:"is_delivered"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	// Shipping snapshot, copied from the chosen address at checkout.
	ShipFullName     string `gorm:"size:100" json:"ship_full_name"`
	ShipPhone        string `gorm:"size:30" json:"ship_phone"`
	ShipAddressLine1 string `gorm:"size:255" json:"ship_address_line1"`
	ShipAddressLine2 string `gorm:"size:255" json:"ship_address_line2,omitempty"`
	ShipCity         string `gorm:"size:100" json:"ship_city"`
	ShipState        string `gorm:"size:100" json:"ship_state,omitempty"`
	ShipZipCode      string `gorm:"size:20" json:"ship_zip_code"`
	ShipCountry      string `gorm:"size:100" json:"ship_country"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User       User        `gorm:"foreignKey:UserID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// Cancellable reports whether the order may still be cancelled
func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

// OrderItem is one purchased line. ProductTitle and ProductPrice are
// snapshots taken at checkout; ProductID is nullable so deleting a
// product later leaves the order history intact.
type OrderItem struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	OrderID      uint    `gorm:"not null;index" json:"order_id"`
	ProductID    *uint   `gorm:"index" json:"product_id,omitempty"`
	ProductTitle string  `gorm:"size:255;not null" json:"product_title"`
	ProductPrice float64 `gorm:"not null" json:"product_price"`
	Quantity     int     `gorm:"not null" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`

	Order   Order    `gorm:"foreignKey:OrderID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal is the frozen unit price times quantity
func (oi *OrderItem) LineTotal() float64 {
	return oi.ProductPrice * float64(oi.Quantity)
}
