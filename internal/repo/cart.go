package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jpcardenas/tienda/internal/models"
)

// ActiveCart returns the most recently updated active cart for the user, with
// its items, or nil when the user has none.
func (r *GormRepo) ActiveCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND status = ?", userID, models.CartStatusActive).
		Order("updated_at DESC").
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// TouchCart bumps last_activity_at; housekeeping uses it for staleness sweeps.
func (r *GormRepo) TouchCart(ctx context.Context, cartID uint) error {
	return r.DB.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("last_activity_at", time.Now()).Error
}

// ReplaceCartItems rewrites the user's active cart wholesale in one
// transaction: find-or-create the active cart, abandon every other active
// cart, delete the old lines, insert the new ones and persist the recomputed
// aggregate totals. Items must already be normalized (positive quantities,
// recomputed line totals). currency is used only when the cart has none yet.
// Any failure rolls the whole replacement back.
func (r *GormRepo) ReplaceCartItems(ctx context.Context, userID uint, items []models.CartItem, currency string) (*models.Cart, error) {
	var cart models.Cart

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND status = ?", userID, models.CartStatusActive).
			Order("updated_at DESC").
			First(&cart).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			cart = models.Cart{UserID: userID, Status: models.CartStatusActive}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		if err := tx.Model(&models.Cart{}).
			Where("user_id = ? AND status = ? AND id <> ?", userID, models.CartStatusActive, cart.ID).
			Update("status", models.CartStatusAbandoned).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		var totalItems, totalCents int64
		for i := range items {
			items[i].ID = 0
			items[i].CartID = cart.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
			totalItems += items[i].Quantity
			totalCents += items[i].LineTotalCents
		}

		cur := cart.Currency
		if cur == "" {
			cur = currency
		}
		if cur == "" {
			cur = models.DefaultCurrency
		}

		cart.TotalItems = totalItems
		cart.TotalCents = totalCents
		cart.Currency = cur
		cart.LastActivityAt = time.Now()
		return tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Updates(map[string]any{
			"total_items":      totalItems,
			"total_cents":      totalCents,
			"currency":         cur,
			"last_activity_at": cart.LastActivityAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	cart.Items = items
	return &cart, nil
}
