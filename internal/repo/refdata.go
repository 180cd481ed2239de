package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jpcardenas/tienda/internal/models"
)

// ActiveShippingOption re-validates a client-supplied shipping option id
// against the reference table. Inactive or unknown ids return nil, nil.
func (r *GormRepo) ActiveShippingOption(ctx context.Context, id uint) (*models.ShippingOption, error) {
	var opt models.ShippingOption
	err := r.DB.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &opt, nil
}

func (r *GormRepo) ActivePaymentMethod(ctx context.Context, id uint) (*models.PaymentMethod, error) {
	var pm models.PaymentMethod
	err := r.DB.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&pm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pm, nil
}

func (r *GormRepo) ShippingOptionsByIDs(ctx context.Context, ids []uint) (map[uint]models.ShippingOption, error) {
	out := make(map[uint]models.ShippingOption, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var opts []models.ShippingOption
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&opts).Error; err != nil {
		return nil, err
	}
	for _, o := range opts {
		out[o.ID] = o
	}
	return out, nil
}

func (r *GormRepo) PaymentMethodsByIDs(ctx context.Context, ids []uint) (map[uint]models.PaymentMethod, error) {
	out := make(map[uint]models.PaymentMethod, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var pms []models.PaymentMethod
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&pms).Error; err != nil {
		return nil, err
	}
	for _, p := range pms {
		out[p.ID] = p
	}
	return out, nil
}

func (r *GormRepo) ListActiveShippingOptions(ctx context.Context) ([]models.ShippingOption, error) {
	var opts []models.ShippingOption
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&opts).Error
	return opts, err
}

func (r *GormRepo) ListActivePaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var pms []models.PaymentMethod
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&pms).Error
	return pms, err
}
