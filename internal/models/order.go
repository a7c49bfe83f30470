package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the immutable result of a successful checkout
type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Reference     string          `gorm:"uniqueIndex;size:40;not null" json:"reference"`
	UserID        uint            `gorm:"not null;index" json:"userId"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	DeliveryType  DeliveryType    `gorm:"size:20;not null" json:"deliveryType"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	DeliveryFee   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"deliveryFee"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	PointsSpent   int64           `gorm:"not null;default:0" json:"pointsSpent"`
	PaymentMethod PaymentMethod   `gorm:"size:20;not null" json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// TableName specifies the table name for Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a point-in-time snapshot of a purchased listing
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	OrderID   uint            `gorm:"not null;index" json:"-"`
	Position  int             `gorm:"not null" json:"-"`
	ListingID uint            `gorm:"not null;index" json:"listingId"`
	Title     string          `gorm:"size:255;not null" json:"title"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
}

// TableName specifies the table name for OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
