package gormrepo

import (
	"context"
	"errors"

	"liquor-delivery/internal/domain"
	"liquor-delivery/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type productRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewProductRepository(db *gorm.DB, logger *zap.Logger) repository.ProductRepository {
	return &productRepo{db: db, logger: logger}
}

func (r *productRepo) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("product lookup failed", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
