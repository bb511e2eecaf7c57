package gormrepo

import (
	"context"
	"errors"

	"liquor-delivery/internal/domain"
	"liquor-delivery/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewOrderRepository(db *gorm.DB, logger *zap.Logger) repository.OrderRepository {
	return &orderRepo{db: db, logger: logger}
}

// withItems preloads items in submission order together with their product.
func (r *orderRepo) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Product")
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			order.Items[i].Position = i
		}
		return tx.Omit(clause.Associations).Create(&order.Items).Error
	})
	if err != nil {
		r.logger.Error("order create failed",
			zap.String("order_number", order.OrderNumber),
			zap.Int("items", len(order.Items)),
			zap.Error(err))
		return err
	}

	// The order is committed at this point. A failed reload only costs the
	// product display data, so the in-memory order is returned as is.
	var stored domain.Order
	if err := r.withItems(ctx).First(&stored, "id = ?", order.ID).Error; err != nil {
		r.logger.Warn("order reload failed", zap.String("order_id", order.ID), zap.Error(err))
	} else {
		*order = stored
	}

	r.logger.Info("order saved",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber))
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.withItems(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("FindByID failed", zap.String("order_id", id), zap.Error(err))
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindMany(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	q := r.withItems(ctx)
	if filter.OrderNumber != "" {
		q = q.Where("order_number = ?", filter.OrderNumber)
	}
	if filter.CustomerPhone != "" {
		q = q.Where("customer_phone = ?", filter.CustomerPhone)
	}

	out := []domain.Order{}
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		r.logger.Error("FindMany failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) FindRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	q := r.withItems(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	out := []domain.Order{}
	if err := q.Find(&out).Error; err != nil {
		r.logger.Error("FindRecent failed", zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}
	return out, nil
}

// Update touches only the mutable columns. An empty update is a read.
func (r *orderRepo) Update(ctx context.Context, id string, update repository.OrderUpdate) (*domain.Order, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Order
		if err := tx.Select("id").First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true
		if update.IsEmpty() {
			return nil
		}

		fields := map[string]any{}
		if update.Status != nil {
			fields["status"] = *update.Status
		}
		if update.PaymentStatus != nil {
			fields["payment_status"] = *update.PaymentStatus
		}
		if update.MpesaReceiptNo != nil {
			fields["mpesa_receipt_no"] = *update.MpesaReceiptNo
		}
		return tx.Model(&domain.Order{}).Where("id = ?", id).Updates(fields).Error
	})
	if err != nil {
		r.logger.Error("order update failed", zap.String("order_id", id), zap.Error(err))
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

func (r *orderRepo) Stats(ctx context.Context) (*domain.OrderStats, error) {
	var stats domain.OrderStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&domain.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Order{}).
		Where("status = ?", domain.StatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}

	row := db.Model(&domain.Order{}).
		Where("payment_status = ?", domain.PaymentPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Row()
	if err := row.Scan(&stats.TotalRevenue); err != nil {
		r.logger.Error("revenue query failed", zap.Error(err))
		return nil, err
	}
	return &stats, nil
}
