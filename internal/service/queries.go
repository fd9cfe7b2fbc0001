package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/store_manager/internal/models"
)

const (
	DefaultOrderLimit = 9999
	TopSpendersLimit  = 10
)

type OrderQueries struct {
	Store  OrderStore
	Mirror Mirror
}

// GetOrderByID returns the cached record fields, empty when not cached.
func (q *OrderQueries) GetOrderByID(ctx context.Context, orderID uint) (map[string]string, error) {
	return q.Mirror.GetOrder(ctx, orderID)
}

// OrderFromStore loads one order with its items from the relational store.
func (q *OrderQueries) OrderFromStore(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := q.Store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	return order, nil
}

// OrdersFromStore lists orders from the relational store, newest first.
func (q *OrderQueries) OrdersFromStore(ctx context.Context, limit int) ([]models.Order, error) {
	return q.Store.ListOrders(ctx, normalizeLimit(limit))
}

// OrdersFromMirror lists cached orders newest first.
func (q *OrderQueries) OrdersFromMirror(ctx context.Context, limit int) ([]models.OrderSummary, error) {
	cached, err := q.Mirror.Orders(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.OrderSummary, 0, len(cached))
	for _, o := range cached {
		out = append(out, models.OrderSummary{ID: o.ID, TotalAmount: o.TotalAmount})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	if limit = normalizeLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// HighestSpendingUsers ranks users by the sum of their cached order totals
// and keeps the top ten. Ties go to the lower user id.
func (q *OrderQueries) HighestSpendingUsers(ctx context.Context) ([]models.TopSpender, error) {
	cached, err := q.Mirror.Orders(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uint]*models.TopSpender)
	for _, o := range cached {
		ts, ok := byUser[o.UserID]
		if !ok {
			ts = &models.TopSpender{UserID: o.UserID, TotalSpent: decimal.Zero}
			byUser[o.UserID] = ts
		}
		ts.TotalSpent = ts.TotalSpent.Add(o.TotalAmount)
		ts.OrderCount++
	}

	out := make([]models.TopSpender, 0, len(byUser))
	for _, ts := range byUser {
		out = append(out, *ts)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalSpent.Cmp(out[j].TotalSpent); c != 0 {
			return c > 0
		}
		return out[i].UserID < out[j].UserID
	})

	if len(out) > TopSpendersLimit {
		out = out[:TopSpendersLimit]
	}
	return out, nil
}

// BestSellingProducts lists products with a positive sold counter, best
// first. Ties go to the lower product id.
func (q *OrderQueries) BestSellingProducts(ctx context.Context) ([]models.BestSeller, error) {
	counters, err := q.Mirror.Counters(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.BestSeller, 0, len(counters))
	for _, c := range counters {
		if c.Sold > 0 {
			out = append(out, models.BestSeller{ProductID: c.ProductID, TotalSold: c.Sold})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSold != out[j].TotalSold {
			return out[i].TotalSold > out[j].TotalSold
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultOrderLimit
	}
	return limit
}
