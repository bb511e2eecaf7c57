package services

import (
	"context"

	"liquor-delivery/internal/domain"
	"liquor-delivery/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const recentOrdersOnDashboard = 5

type Dashboard struct {
	TotalProducts int64           `json:"totalProducts"`
	TotalOrders   int64           `json:"totalOrders"`
	PendingOrders int64           `json:"pendingOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	RecentOrders  []domain.Order  `json:"recentOrders"`
}

type DashboardService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewDashboardService(orders repository.OrderRepository, products repository.ProductRepository, logger *zap.Logger) *DashboardService {
	return &DashboardService{orders: orders, products: products, logger: logger}
}

// Dashboard gathers the admin overview. Revenue counts paid orders only.
func (s *DashboardService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		d     Dashboard
		stats *domain.OrderStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.products.Count(gctx)
		d.TotalProducts = n
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.orders.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.RecentOrders, err = s.orders.FindRecent(gctx, recentOrdersOnDashboard)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to build dashboard", zap.Error(err))
		return nil, domain.NewPersistence("Failed to fetch dashboard", err)
	}

	if stats != nil {
		d.TotalOrders = stats.TotalOrders
		d.PendingOrders = stats.PendingOrders
		d.TotalRevenue = stats.TotalRevenue
	}
	if d.RecentOrders == nil {
		d.RecentOrders = []domain.Order{}
	}
	return &d, nil
}
