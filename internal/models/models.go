package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID    uint            `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name  string          `gorm:"not null"                  json:"name"`
	SKU   string          `gorm:"index"                     json:"sku"`
	Price decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

type User struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"not null"                 json:"name"`
	Email string `gorm:"index"                    json:"email"`
}

// Order.TotalAmount is the sum of line extensions at creation time and is
// never recomputed.
type Order struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	UserID      uint            `gorm:"index;not null"               json:"user_id"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []OrderItem     `gorm:"constraint:OnDelete:CASCADE"  json:"items,omitempty"`
}

// OrderItem.UnitPrice is the product price captured when the order was placed.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	OrderID   uint            `gorm:"index;not null"               json:"order_id"`
	ProductID uint            `gorm:"index;not null"               json:"product_id"`
	Quantity  float64         `gorm:"not null;check:quantity>0"    json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"unit_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
