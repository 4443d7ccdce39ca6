package mysql

import (
	"context"

	"gorm.io/gorm"

	"urbanstyle-registrar/internal/models"
)

type errorLogRepo struct {
	db *gorm.DB
}

// NewErrorLogRepository creates the error log repository
func NewErrorLogRepository(db *gorm.DB) models.ErrorLogRepository {
	return &errorLogRepo{db: db}
}

func (r *errorLogRepo) Create(ctx context.Context, e *models.ErrorLog) error {
	return r.db.WithContext(ctx).Create(e).Error
}
