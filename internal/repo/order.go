package repo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/store_manager/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) ProductPrices(ctx context.Context, ids []uint) (map[uint]decimal.Decimal, error) {
	prices := make(map[uint]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	var products []models.Product
	if err := r.DB.WithContext(ctx).Select("id", "price").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		prices[p.ID] = p.Price
	}
	return prices, nil
}

// CreateOrder inserts the order row and then its items inside one
// transaction. order.ID and every item's OrderID are set on success.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		return tx.Create(&order.Items).Error
	})
}

// GetOrder loads the order with its items in insertion order.
func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder removes the order and its items. It reports false without
// touching anything when the order does not exist.
func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) (bool, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Select("id").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListOrders returns the most recent orders first.
func (r *GormRepo) ListOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) OrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
