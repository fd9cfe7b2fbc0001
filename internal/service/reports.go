package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/store_manager/internal/models"
)

// Catalog resolves display data for the report views.
type Catalog interface {
	UsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error)
	ProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error)
}

type SpenderRow struct {
	UserID     uint   `json:"user_id"`
	Name       string `json:"name"`
	TotalSpent string `json:"total_spent"`
	OrderCount int    `json:"order_count"`
}

type SellerRow struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Price     string `json:"price"`
	TotalSold int64  `json:"total_sold"`
}

type Reports struct {
	Queries *OrderQueries
	Catalog Catalog
}

// HighestSpenders joins the top spenders with user names. Users missing
// from the catalog are shown as "User <id>".
func (r *Reports) HighestSpenders(ctx context.Context) ([]SpenderRow, error) {
	top, err := r.Queries.HighestSpendingUsers(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(top))
	for _, ts := range top {
		ids = append(ids, ts.UserID)
	}
	users, err := r.Catalog.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]SpenderRow, 0, len(top))
	for _, ts := range top {
		name := fmt.Sprintf("User %d", ts.UserID)
		if u, ok := users[ts.UserID]; ok && u.Name != "" {
			name = u.Name
		}
		rows = append(rows, SpenderRow{
			UserID:     ts.UserID,
			Name:       name,
			TotalSpent: ts.TotalSpent.StringFixed(2),
			OrderCount: ts.OrderCount,
		})
	}
	return rows, nil
}

// BestSellers joins the best sellers with catalog data. Unknown products
// keep a placeholder name, SKU N/A and a zero price.
func (r *Reports) BestSellers(ctx context.Context) ([]SellerRow, error) {
	best, err := r.Queries.BestSellingProducts(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(best))
	for _, b := range best {
		ids = append(ids, b.ProductID)
	}
	products, err := r.Catalog.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]SellerRow, 0, len(best))
	for _, b := range best {
		row := SellerRow{
			ProductID: b.ProductID,
			Name:      fmt.Sprintf("Product %d", b.ProductID),
			SKU:       "N/A",
			Price:     decimal.Zero.StringFixed(2),
			TotalSold: b.TotalSold,
		}
		if p, ok := products[b.ProductID]; ok {
			row.Name = p.Name
			row.SKU = p.SKU
			row.Price = p.Price.StringFixed(2)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
