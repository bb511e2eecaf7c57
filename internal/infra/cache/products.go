package cache

import (
	"context"
	"time"

	"liquor-delivery/internal/domain"
	"liquor-delivery/internal/infra"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

func ProductKey(id string) string {
	return "product:" + id
}

// ProductLookup is a read-through cache in front of a catalog. Concurrent
// misses for the same product share one upstream call. Prices it returns can
// be up to ttl old, so it must only feed display paths.
type ProductLookup struct {
	next   infra.ProductLookup
	cache  Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

var _ infra.ProductLookup = (*ProductLookup)(nil)

func NewProductLookup(next infra.ProductLookup, cache Cache, ttl time.Duration, logger *zap.Logger) *ProductLookup {
	return &ProductLookup{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (l *ProductLookup) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	key := ProductKey(id)

	var cached domain.Product
	hit, err := l.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		l.logger.Warn("product cache read failed", zap.String("product_id", id), zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		p, err := l.next.GetProductByID(ctx, id)
		if err != nil || p == nil {
			return p, err
		}
		if err := l.cache.SetJSON(ctx, key, p, l.ttl); err != nil {
			l.logger.Warn("product cache write failed", zap.String("product_id", id), zap.Error(err))
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	p, _ := v.(*domain.Product)
	return p, nil
}

