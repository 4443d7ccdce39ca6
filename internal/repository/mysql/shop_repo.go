package mysql

import (
	"context"

	"gorm.io/gorm"

	"urbanstyle-registrar/internal/models"
)

type shopRepo struct {
	db *gorm.DB
}

// NewShopRepository creates the shop repository
func NewShopRepository(db *gorm.DB) models.ShopRepository {
	return &shopRepo{db: db}
}

func (r *shopRepo) ListOpen(ctx context.Context) ([]*models.Shop, error) {
	var list []*models.Shop
	if err := r.db.WithContext(ctx).
		Where("shop_open = ?", "Y").
		Order("seq").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *shopRepo) GetByName(ctx context.Context, name string) (*models.Shop, error) {
	var s models.Shop
	if err := r.db.WithContext(ctx).
		Where("shop_name = ?", name).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
