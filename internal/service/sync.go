package service

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/Skotchmaster/store_manager/internal/models"
	"github.com/Skotchmaster/store_manager/pkg/logging"
)

type SyncStatus string

const (
	SyncAlreadySynced SyncStatus = "already_synced"
	SyncSynced        SyncStatus = "synced"
	SyncFailed        SyncStatus = "failed"
)

type SyncResult struct {
	Status SyncStatus `json:"status"`
	Count  int        `json:"count"`
}

// Syncer backfills the cache mirror from the relational store. It only
// runs against an empty mirror so counters are never counted twice.
type Syncer struct {
	Store  OrderStore
	Mirror Mirror

	group singleflight.Group
}

// Sync projects every stored order into an empty mirror. When the mirror
// already holds orders it reports their count and writes nothing. On
// failure the result is SyncFailed with a zero count and the error.
// Concurrent callers share a single run, which is detached from the
// cancellation of whichever caller started it.
func (s *Syncer) Sync(ctx context.Context) (SyncResult, error) {
	runCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do("sync", func() (any, error) {
		return s.run(runCtx)
	})
	res, _ := v.(SyncResult)
	return res, err
}

func (s *Syncer) run(ctx context.Context) (SyncResult, error) {
	l := logging.FromContext(ctx).With("svc", "order.sync")

	existing, err := s.Mirror.CountOrders(ctx)
	if err != nil {
		l.Error("sync_error", "reason", "cannot count cached orders", "error", err)
		return SyncResult{Status: SyncFailed}, err
	}
	if existing > 0 {
		l.Info("sync_skipped", "reason", "mirror already contains orders", "count", existing)
		return SyncResult{Status: SyncAlreadySynced, Count: existing}, nil
	}

	orders, err := s.Store.ListOrders(ctx, 0)
	if err != nil {
		l.Error("sync_error", "reason", "cannot list orders", "error", err)
		return SyncResult{Status: SyncFailed}, err
	}
	l.Info("sync_started", "orders", len(orders))

	synced := 0
	for _, o := range orders {
		items, err := s.Store.OrderItems(ctx, o.ID)
		if err != nil {
			l.Error("sync_error", "reason", "cannot load order items", "order_id", o.ID, "error", err)
			return SyncResult{Status: SyncFailed}, err
		}

		rec := models.CachedOrder{ID: o.ID, UserID: o.UserID, TotalAmount: o.TotalAmount}
		for _, it := range items {
			rec.Items = append(rec.Items, models.CachedItem{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		if err := s.Mirror.ProjectOrder(ctx, rec); err != nil {
			l.Error("sync_error", "reason", "cannot project order", "order_id", o.ID, "error", err)
			return SyncResult{Status: SyncFailed}, err
		}
		synced++
	}

	l.Info("sync_success", "count", synced)
	return SyncResult{Status: SyncSynced, Count: synced}, nil
}
