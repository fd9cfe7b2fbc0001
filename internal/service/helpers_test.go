package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/store_manager/internal/events"
	"github.com/Skotchmaster/store_manager/internal/mirror/mirrortest"
	"github.com/Skotchmaster/store_manager/internal/models"
	"github.com/Skotchmaster/store_manager/internal/repo"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

type testEnv struct {
	DB        *gorm.DB
	Repo      *repo.GormRepo
	Mirror    *mirrortest.Memory
	Publisher *recordingPublisher
	Orders    *OrderService
	Queries   *OrderQueries
	Syncer    *Syncer
}

func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Product{}, &models.User{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := InitTestDB(t)
	r := &repo.GormRepo{DB: db}
	m := mirrortest.New()
	p := &recordingPublisher{}

	require.NoError(t, db.Create(&[]models.Product{
		{Name: "Keyboard", SKU: "KB-01", Price: decimal.RequireFromString("10.00")},
		{Name: "Mouse", SKU: "MS-01", Price: decimal.RequireFromString("4.50")},
		{Name: "Cable", SKU: "CB-01", Price: decimal.RequireFromString("1.25")},
	}).Error)

	return &testEnv{
		DB:        db,
		Repo:      r,
		Mirror:    m,
		Publisher: p,
		Orders:    &OrderService{Store: r, Mirror: m, Publisher: p},
		Queries:   &OrderQueries{Store: r, Mirror: m},
		Syncer:    &Syncer{Store: r, Mirror: m},
	}
}

func (env *testEnv) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&n).Error)
	return n
}

func line(pid, qty string) LineRequest {
	return LineRequest{ProductID: pid, Quantity: qty}
}

var errBoom = errors.New("boom")
