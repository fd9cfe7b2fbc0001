package models

import "github.com/shopspring/decimal"

// CachedOrder is the denormalized projection of an order kept in the cache
// mirror. Items are the requested (product, quantity) pairs in input order.
type CachedOrder struct {
	ID          uint
	UserID      uint
	TotalAmount decimal.Decimal
	Items       []CachedItem
}

type CachedItem struct {
	ProductID uint
	Quantity  float64
}

type ProductCounter struct {
	ProductID uint
	Sold      int64
}

type OrderSummary struct {
	ID          uint            `json:"id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type TopSpender struct {
	UserID     uint            `json:"user_id"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	OrderCount int             `json:"order_count"`
}

type BestSeller struct {
	ProductID uint  `json:"product_id"`
	TotalSold int64 `json:"total_sold"`
}
