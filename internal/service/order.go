package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/store_manager/internal/events"
	"github.com/Skotchmaster/store_manager/internal/models"
	"github.com/Skotchmaster/store_manager/pkg/logging"
)

// MaxQuantity bounds a single line so sold counters stay within int64.
const MaxQuantity = 1_000_000_000

// LineRequest is one requested line as received from the caller. Both
// fields are parsed by AddOrder so bad input surfaces as ErrValidation.
type LineRequest struct {
	ProductID string
	Quantity  string
}

type OrderService struct {
	Store     OrderStore
	Mirror    Mirror
	Publisher Publisher
}

// AddOrder validates the request, stores the order and its items in one
// transaction and then projects it into the cache mirror. The relational
// write is authoritative: projection and event failures are logged only.
func (s *OrderService) AddOrder(ctx context.Context, userID uint, items []LineRequest) (uint, error) {
	l := logging.FromContext(ctx).With("svc", "order.add_order")

	if userID == 0 || len(items) == 0 {
		return 0, fmt.Errorf("%w: must specify at least one user and one item per order", ErrValidation)
	}

	productIDs := make([]uint, 0, len(items))
	seen := make(map[uint]struct{}, len(items))
	parsedIDs := make([]uint, len(items))
	for i, it := range items {
		pid, err := strconv.ParseUint(strings.TrimSpace(it.ProductID), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid article id: %s", ErrValidation, it.ProductID)
		}
		parsedIDs[i] = uint(pid)
		if _, ok := seen[uint(pid)]; !ok {
			seen[uint(pid)] = struct{}{}
			productIDs = append(productIDs, uint(pid))
		}
	}

	prices, err := s.Store.ProductPrices(ctx, productIDs)
	if err != nil {
		l.Error("add_order_error", "reason", "cannot load product prices", "error", err)
		return 0, err
	}

	total := decimal.Zero
	lines := make([]models.OrderItem, 0, len(items))
	cached := make([]models.CachedItem, 0, len(items))
	for i, it := range items {
		qty, err := strconv.ParseFloat(strings.TrimSpace(it.Quantity), 64)
		if err != nil || !(qty > 0) || math.IsInf(qty, 1) {
			return 0, fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
		}
		if qty > MaxQuantity {
			return 0, fmt.Errorf("%w: quantity must not exceed %d", ErrValidation, MaxQuantity)
		}

		pid := parsedIDs[i]
		price, ok := prices[pid]
		if !ok {
			return 0, fmt.Errorf("%w: article id %d not found", ErrValidation, pid)
		}

		total = total.Add(price.Mul(decimal.NewFromFloat(qty)))
		lines = append(lines, models.OrderItem{ProductID: pid, Quantity: qty, UnitPrice: price})
		cached = append(cached, models.CachedItem{ProductID: pid, Quantity: qty})
	}

	// Totals are kept in cents everywhere, matching the decimal(10,2) column.
	total = total.Round(2)

	order := &models.Order{UserID: userID, TotalAmount: total, Items: lines}
	if err := s.Store.CreateOrder(ctx, order); err != nil {
		l.Error("add_order_error", "reason", "cannot store order", "error", err)
		return 0, err
	}

	rec := models.CachedOrder{ID: order.ID, UserID: userID, TotalAmount: total, Items: cached}
	if err := s.Mirror.ProjectOrder(ctx, rec); err != nil {
		l.Warn("add_order_projection_failed", "order_id", order.ID, "error", err)
	}

	ev := events.NewOrderEvent(events.TypeOrderCreated, order.ID)
	ev.UserID = userID
	ev.TotalAmount = total
	for _, it := range cached {
		ev.Items = append(ev.Items, events.Item{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	s.publish(ctx, ev)

	l.Info("add_order_success", "order_id", order.ID, "user_id", userID, "total_amount", total.StringFixed(2))
	return order.ID, nil
}

// DeleteOrder returns 1 when an order was deleted and 0 when none existed.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uint) (int, error) {
	l := logging.FromContext(ctx).With("svc", "order.delete_order", "order_id", orderID)

	deleted, err := s.Store.DeleteOrder(ctx, orderID)
	if err != nil {
		l.Error("delete_order_error", "reason", "cannot delete order", "error", err)
		return 0, err
	}
	if !deleted {
		l.Info("delete_order_not_found")
		return 0, nil
	}

	if _, err := s.Mirror.RemoveOrder(ctx, orderID); err != nil {
		l.Warn("delete_order_projection_failed", "error", err)
	}

	s.publish(ctx, events.NewOrderEvent(events.TypeOrderDeleted, orderID))

	l.Info("delete_order_success")
	return 1, nil
}

func (s *OrderService) publish(ctx context.Context, ev events.OrderEvent) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("order_event_publish_failed", "type", ev.Type, "order_id", ev.OrderID, "error", err)
	}
}
