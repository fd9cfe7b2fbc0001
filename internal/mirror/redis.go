package mirror

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/store_manager/internal/models"
)

const scanCount = 100

type RedisMirror struct {
	client redis.Cmdable
}

func NewRedisMirror(client redis.Cmdable) *RedisMirror {
	return &RedisMirror{client: client}
}

// ProjectOrder bumps the sold counter of every line and then writes the
// whole order record with a single HSET.
func (r *RedisMirror) ProjectOrder(ctx context.Context, o models.CachedOrder) error {
	for _, it := range o.Items {
		units := soldUnits(it.Quantity)
		if units == 0 {
			continue
		}
		if err := r.client.IncrBy(ctx, CounterKey(it.ProductID), units).Err(); err != nil {
			return fmt.Errorf("incr %s: %w", CounterKey(it.ProductID), err)
		}
	}

	if err := r.client.HSet(ctx, OrderKey(o.ID), fieldValues(o)...).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", OrderKey(o.ID), err)
	}
	return nil
}

// RemoveOrder gives back the sold units recorded on the cached order and
// deletes the record. Counters that drop to zero or below are deleted.
// It reports false when no record was cached.
func (r *RedisMirror) RemoveOrder(ctx context.Context, orderID uint) (bool, error) {
	key := OrderKey(orderID)

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return false, nil
	}

	o, err := parseRecord(fields)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}

	for _, it := range o.Items {
		units := soldUnits(it.Quantity)
		if units == 0 {
			continue
		}
		ck := CounterKey(it.ProductID)
		left, err := r.client.DecrBy(ctx, ck, units).Result()
		if err != nil {
			return false, fmt.Errorf("decr %s: %w", ck, err)
		}
		if left <= 0 {
			if err := r.client.Del(ctx, ck).Err(); err != nil {
				return false, fmt.Errorf("del %s: %w", ck, err)
			}
		}
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("del %s: %w", key, err)
	}
	return true, nil
}

// GetOrder returns the raw cached fields, or an empty map when absent.
func (r *RedisMirror) GetOrder(ctx context.Context, orderID uint) (map[string]string, error) {
	fields, err := r.client.HGetAll(ctx, OrderKey(orderID)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", OrderKey(orderID), err)
	}
	return fields, nil
}

func (r *RedisMirror) CountOrders(ctx context.Context) (int, error) {
	keys, err := r.scan(ctx, OrderKeyPrefix+"*")
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Orders walks every cached order record.
func (r *RedisMirror) Orders(ctx context.Context) ([]models.CachedOrder, error) {
	keys, err := r.scan(ctx, OrderKeyPrefix+"*")
	if err != nil {
		return nil, err
	}

	orders := make([]models.CachedOrder, 0, len(keys))
	for _, key := range keys {
		fields, err := r.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("hgetall %s: %w", key, err)
		}
		if len(fields) == 0 {
			continue
		}
		o, err := parseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// Counters walks every product_sold counter. Keys whose suffix is not a
// product id are ignored.
func (r *RedisMirror) Counters(ctx context.Context) ([]models.ProductCounter, error) {
	keys, err := r.scan(ctx, CounterKeyPrefix+"*")
	if err != nil {
		return nil, err
	}

	counters := make([]models.ProductCounter, 0, len(keys))
	for _, key := range keys {
		pid, ok := counterProductID(key)
		if !ok {
			continue
		}
		sold, err := r.client.Get(ctx, key).Int64()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		counters = append(counters, models.ProductCounter{ProductID: pid, Sold: sold})
	}
	return counters, nil
}

func (r *RedisMirror) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisMirror) scan(ctx context.Context, match string) ([]string, error) {
	seen := make(map[string]struct{})
	var keys []string

	iter := r.client.Scan(ctx, 0, match, scanCount).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", match, err)
	}
	return keys, nil
}
