package repository

import (
	"context"

	"liquor-delivery/internal/domain"
)

// OrderFilter selects orders for the customer lookup. Non-empty fields are
// combined with AND.
type OrderFilter struct {
	OrderNumber   string
	CustomerPhone string
}

// OrderUpdate lists the only fields that may change after intake. Nil fields
// are left untouched.
type OrderUpdate struct {
	Status         *domain.OrderStatus
	PaymentStatus  *domain.PaymentStatus
	MpesaReceiptNo *string
}

func (u OrderUpdate) IsEmpty() bool {
	return u.Status == nil && u.PaymentStatus == nil && u.MpesaReceiptNo == nil
}

// OrderRepository methods return (nil, nil) when the order does not exist.
type OrderRepository interface {
	// Create writes the order and its items atomically and hydrates order
	// with the stored rows and product display data.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindMany(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	// FindRecent returns newest-first orders; limit <= 0 means all.
	FindRecent(ctx context.Context, limit int) ([]domain.Order, error)
	Update(ctx context.Context, id string, update OrderUpdate) (*domain.Order, error)
	Stats(ctx context.Context) (*domain.OrderStats, error)
}

type ProductRepository interface {
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	Count(ctx context.Context) (int64, error)
}

type SettingsRepository interface {
	// Get returns the settings row, creating it with defaults if absent.
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, s *domain.Settings) error
}
