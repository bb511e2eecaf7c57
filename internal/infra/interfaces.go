package infra

import (
	"context"

	"liquor-delivery/internal/domain"
)

// ProductLookup resolves a catalog product by id. A missing product is
// reported as (nil, nil).
type ProductLookup interface {
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
}

var _ ProductLookup = (*ProductClient)(nil)
