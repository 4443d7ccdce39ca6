package mysql

import (
	"context"

	"gorm.io/gorm"

	"urbanstyle-registrar/internal/models"
)

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository creates the product repository
func NewProductRepository(db *gorm.DB) models.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("product_code = ?", code).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts the product and fills in its assigned Seq.
func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) CreateImages(ctx context.Context, imgs []*models.ProductImage) error {
	if len(imgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(imgs).Error
}
