package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kindones/storefront/internal/domain"
	"github.com/kindones/storefront/internal/models"
)

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// CreateOrder inserts the order and its items in one statement batch. Call it
// through InTx so the menu reads share the transaction.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return translate(r.DB.WithContext(ctx).Create(order).Error, "create order")
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", byPosition).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, translate(err, "list orders by user")
	}
	return orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, limit, offset int) (int64, []models.Order, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, nil, translate(err, "count orders")
	}

	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("User").
		Preload("Items", byPosition).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return 0, nil, translate(err, "list orders")
	}
	return total, orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("User").
		Preload("Items", byPosition).
		Take(&order, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "get order")
	}
	return &order, nil
}

// UpdateOrderStatus moves the order along the status graph and returns the
// updated order with the status it had before.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id string, next models.OrderStatus) (*models.Order, models.OrderStatus, error) {
	var (
		order models.Order
		prev  models.OrderStatus
	)
	err := r.InTx(ctx, func(tx *GormRepo) error {
		q := tx.DB
		if tx.isPostgres() {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Take(&order, "id = ?", id).Error; err != nil {
			return err
		}
		prev = order.Status
		if !prev.CanTransitionTo(next) {
			return domain.Errorf(domain.ErrInvalidTransition,
				fmt.Sprintf("Cannot change order status from %s to %s.", prev, next))
		}
		if err := tx.DB.Model(&order).Update("status", next).Error; err != nil {
			return err
		}
		return tx.DB.Preload("User").Preload("Items", byPosition).Take(&order, "id = ?", id).Error
	})
	if err != nil {
		return nil, "", translate(err, "update order status")
	}
	return &order, prev, nil
}
