package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jpcardenas/tienda/internal/models"
)

// CreateOrder persists the order, its line items and the initial NULL→pending
// status history row, then marks the source cart submitted when there is one.
// The whole sequence is one transaction; nothing survives a failure, including
// a duplicate order code (surfaced as gorm.ErrDuplicatedKey for the caller's
// retry loop).
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.OrderStatusPending,
			ChangedBy: "system",
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		if order.CartID != nil {
			now := time.Now()
			if err := tx.Model(&models.Cart{}).
				Where("id = ? AND status = ?", *order.CartID, models.CartStatusActive).
				Updates(map[string]any{
					"status":       models.CartStatusSubmitted,
					"submitted_at": now,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListOrders returns the user's orders newest first, line items included.
func (r *GormRepo) ListOrders(ctx context.Context, userID uint, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("submitted_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) OrderStatusHistory(ctx context.Context, orderID uint) ([]models.OrderStatusHistory, error) {
	var rows []models.OrderStatusHistory
	err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
