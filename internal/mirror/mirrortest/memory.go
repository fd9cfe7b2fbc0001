// Package mirrortest provides an in-memory cache mirror for tests. It keeps
// the same key layout and counter rules as the Redis mirror.
package mirrortest

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/store_manager/internal/models"
)

var ErrInjected = errors.New("mirrortest: injected failure")

type Memory struct {
	mu       sync.Mutex
	orders   map[uint]models.CachedOrder
	counters map[uint]int64

	// FailProject and FailRemove make the corresponding call return
	// ErrInjected without touching state.
	FailProject bool
	FailRemove  bool
	FailReads   bool

	Projected int
}

func New() *Memory {
	return &Memory{
		orders:   make(map[uint]models.CachedOrder),
		counters: make(map[uint]int64),
	}
}

func (m *Memory) ProjectOrder(_ context.Context, o models.CachedOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailProject {
		return ErrInjected
	}
	for _, it := range o.Items {
		if units := int64(it.Quantity); units != 0 {
			m.counters[it.ProductID] += units
		}
	}
	o.Items = append([]models.CachedItem(nil), o.Items...)
	m.orders[o.ID] = o
	m.Projected++
	return nil
}

func (m *Memory) RemoveOrder(_ context.Context, orderID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRemove {
		return false, ErrInjected
	}
	o, ok := m.orders[orderID]
	if !ok {
		return false, nil
	}
	for _, it := range o.Items {
		units := int64(it.Quantity)
		if units == 0 {
			continue
		}
		m.counters[it.ProductID] -= units
		if m.counters[it.ProductID] <= 0 {
			delete(m.counters, it.ProductID)
		}
	}
	delete(m.orders, orderID)
	return true, nil
}

func (m *Memory) GetOrder(_ context.Context, orderID uint) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return nil, ErrInjected
	}
	o, ok := m.orders[orderID]
	if !ok {
		return map[string]string{}, nil
	}
	fields := map[string]string{
		"id":           strconv.FormatUint(uint64(o.ID), 10),
		"user_id":      strconv.FormatUint(uint64(o.UserID), 10),
		"total_amount": o.TotalAmount.StringFixed(2),
		"items_count":  strconv.Itoa(len(o.Items)),
	}
	for i, it := range o.Items {
		fields["item_"+strconv.Itoa(i)+"_product_id"] = strconv.FormatUint(uint64(it.ProductID), 10)
		fields["item_"+strconv.Itoa(i)+"_quantity"] = strconv.FormatFloat(it.Quantity, 'f', -1, 64)
	}
	return fields, nil
}

func (m *Memory) CountOrders(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return 0, ErrInjected
	}
	return len(m.orders), nil
}

func (m *Memory) Orders(context.Context) ([]models.CachedOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return nil, ErrInjected
	}
	out := make([]models.CachedOrder, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	// Redis SCAN has no order either; sort ascending only to keep test
	// output stable.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Counters(context.Context) ([]models.ProductCounter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return nil, ErrInjected
	}
	out := make([]models.ProductCounter, 0, len(m.counters))
	for pid, sold := range m.counters {
		out = append(out, models.ProductCounter{ProductID: pid, Sold: sold})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Counter returns the product_sold value and whether the key exists.
func (m *Memory) Counter(productID uint) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.counters[productID]
	return v, ok
}

// SetCounter seeds a counter directly, including non-positive values that
// the mirror rules never produce.
func (m *Memory) SetCounter(productID uint, sold int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[productID] = sold
}

func (m *Memory) Has(orderID uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.orders[orderID]
	return ok
}

// Record seeds a cached order without touching counters.
func (m *Memory) Record(id, userID uint, total string, items ...models.CachedItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[id] = models.CachedOrder{
		ID:          id,
		UserID:      userID,
		TotalAmount: decimal.RequireFromString(strings.TrimSpace(total)),
		Items:       items,
	}
}
