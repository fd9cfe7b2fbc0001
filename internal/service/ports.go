package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/store_manager/internal/events"
	"github.com/Skotchmaster/store_manager/internal/models"
)

type OrderStore interface {
	ProductPrices(ctx context.Context, ids []uint) (map[uint]decimal.Decimal, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uint) (bool, error)
	ListOrders(ctx context.Context, limit int) ([]models.Order, error)
	OrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error)
}

type Mirror interface {
	ProjectOrder(ctx context.Context, o models.CachedOrder) error
	RemoveOrder(ctx context.Context, orderID uint) (bool, error)
	GetOrder(ctx context.Context, orderID uint) (map[string]string, error)
	CountOrders(ctx context.Context) (int, error)
	Orders(ctx context.Context) ([]models.CachedOrder, error)
	Counters(ctx context.Context) ([]models.ProductCounter, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.OrderEvent) error
}
