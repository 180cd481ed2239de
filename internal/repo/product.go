package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jpcardenas/tienda/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := r.DB.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductsByIDs loads catalog rows in bulk; ids missing from the catalog are
// simply absent from the map (the product may have been deleted).
func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	out := make(map[int64]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Product
	err := r.DB.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
