package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"liquor-delivery/internal/domain"
	"liquor-delivery/internal/infra"
	"liquor-delivery/internal/infra/cache"
	rabbit "liquor-delivery/internal/infra/rabbitmq"
	"liquor-delivery/internal/pricing"
	"liquor-delivery/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrOrderNotFound = errors.New("order not found")

const idempotencyTTL = 24 * time.Hour

type OrderService struct {
	repo      repository.OrderRepository
	products  infra.ProductLookup
	settings  SettingsProvider
	publisher rabbit.PublisherInterface
	logger    *zap.Logger

	cache     cache.Cache
	lookupTTL time.Duration
	// lookupGen counts invalidations; a lookup that raced one does not
	// write its result back.
	lookupGen atomic.Uint64
}

// NewOrderService wires order intake. products must be an uncached source:
// intake prices every line at the live catalog price.
func NewOrderService(r repository.OrderRepository, products infra.ProductLookup, settings SettingsProvider, pub rabbit.PublisherInterface, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:      r,
		products:  products,
		settings:  settings,
		publisher: pub,
		logger:    logger,
	}
}

// SetCache enables the customer lookup cache and idempotency keys.
func (s *OrderService) SetCache(c cache.Cache, lookupTTL time.Duration) {
	s.cache = c
	s.lookupTTL = lookupTTL
}

type OrderLineInput struct {
	ProductID string
	Quantity  int
}

type CreateOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   *string
	CustomerAddress string
	PaymentMethod   string
	Items           []OrderLineInput

	// IdempotencyKey is optional. A repeated key returns the order created
	// by the first request.
	IdempotencyKey string
}

func (in CreateOrderInput) missingFields() bool {
	return strings.TrimSpace(in.CustomerName) == "" ||
		strings.TrimSpace(in.CustomerPhone) == "" ||
		strings.TrimSpace(in.CustomerAddress) == "" ||
		len(in.Items) == 0
}

func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if in.missingFields() {
		return nil, domain.NewValidation(domain.ErrMsgMissingFields)
	}
	method, err := domain.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	if prev := s.replay(ctx, in.IdempotencyKey); prev != nil {
		return prev, nil
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, domain.NewPersistence(domain.ErrMsgCreateFailed, err)
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	subtotal := decimal.Zero
	for _, line := range in.Items {
		if strings.TrimSpace(line.ProductID) == "" {
			return nil, domain.NewValidation(domain.ErrMsgMissingFields)
		}
		if line.Quantity < 1 {
			return nil, domain.NewValidation("Invalid quantity for product: " + line.ProductID)
		}

		prod, err := s.products.GetProductByID(ctx, line.ProductID)
		if err != nil {
			s.logger.Error("product lookup failed", zap.String("product_id", line.ProductID), zap.Error(err))
			return nil, domain.NewPersistence(domain.ErrMsgCreateFailed, err)
		}
		if prod == nil {
			return nil, domain.NewProductNotFound(line.ProductID)
		}
		if !prod.InStock {
			return nil, domain.NewOutOfStock(prod.Name)
		}

		item := domain.OrderItem{
			ProductID: prod.ID,
			Quantity:  line.Quantity,
			Price:     prod.Price,
		}
		subtotal = subtotal.Add(item.LineTotal())
		items = append(items, item)
	}

	quote := pricing.Checkout(subtotal, *settings)

	order := &domain.Order{
		OrderNumber:     NewOrderNumber(time.Now()),
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		CustomerEmail:   normalizeEmail(in.CustomerEmail),
		CustomerAddress: strings.TrimSpace(in.CustomerAddress),
		TotalAmount:     quote.Total,
		PaymentMethod:   method,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentPending,
		Items:           items,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error("failed to create order",
			zap.String("order_number", order.OrderNumber),
			zap.Int("items", len(items)),
			zap.Error(err),
		)
		return nil, domain.NewPersistence(domain.ErrMsgCreateFailed, err)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)

	s.remember(ctx, in.IdempotencyKey, order.ID)
	s.invalidateLookups(ctx, "", order.CustomerPhone)
	s.publish(ctx, rabbit.RoutingOrderCreated, domain.NewOrderCreatedEvent(order))

	return order, nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func idempotencyKey(key string) string {
	return "idempotency:order:" + key
}

func (s *OrderService) replay(ctx context.Context, key string) *domain.Order {
	if key == "" || s.cache == nil {
		return nil
	}
	var orderID string
	hit, err := s.cache.GetJSON(ctx, idempotencyKey(key), &orderID)
	if err != nil {
		s.logger.Warn("idempotency lookup failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !hit {
		return nil
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		s.logger.Warn("idempotent order reload failed", zap.String("order_id", orderID), zap.Error(err))
		return nil
	}
	return order
}

func (s *OrderService) remember(ctx context.Context, key, orderID string) {
	if key == "" || s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, idempotencyKey(key), orderID, idempotencyTTL); err != nil {
		s.logger.Warn("failed to store idempotency key", zap.String("key", key), zap.Error(err))
	}
}

func (s *OrderService) publish(ctx context.Context, routingKey string, evt any) {
	if err := s.publisher.Publish(ctx, routingKey, evt); err != nil {
		s.logger.Warn("failed to publish event", zap.String("routing_key", routingKey), zap.Error(err))
	}
}

func lookupKey(orderNumber, phone string) string {
	return "orders:lookup:" + url.Values{"n": {orderNumber}, "p": {phone}}.Encode()
}

func (s *OrderService) invalidateLookups(ctx context.Context, orderNumber, phone string) {
	if s.cache == nil {
		return
	}
	s.lookupGen.Add(1)
	keys := []string{lookupKey("", phone)}
	if orderNumber != "" {
		keys = append(keys, lookupKey(orderNumber, ""), lookupKey(orderNumber, phone))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("failed to invalidate order lookups", zap.Strings("keys", keys), zap.Error(err))
	}
}

// LookupOrders finds a customer's orders by exact order number and/or phone,
// newest first. Both selectors are ANDed when given.
func (s *OrderService) LookupOrders(ctx context.Context, orderNumber, phone string) ([]domain.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	phone = strings.TrimSpace(phone)
	if orderNumber == "" && phone == "" {
		return nil, domain.NewValidation(domain.ErrMsgSelectorMissing)
	}

	key := lookupKey(orderNumber, phone)
	gen := s.lookupGen.Load()
	if s.cache != nil && s.lookupTTL > 0 {
		var cached []domain.Order
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("order lookup cache read failed", zap.Error(err))
		}
		if hit {
			return cached, nil
		}
	}

	orders, err := s.repo.FindMany(ctx, repository.OrderFilter{OrderNumber: orderNumber, CustomerPhone: phone})
	if err != nil {
		s.logger.Error("order lookup failed", zap.Error(err))
		return nil, domain.NewPersistence(domain.ErrMsgFetchFailed, err)
	}

	// Invalidations from other instances are not seen here; their staleness
	// is bounded by lookupTTL.
	if s.cache != nil && s.lookupTTL > 0 && s.lookupGen.Load() == gen {
		if err := s.cache.SetJSON(ctx, key, orders, s.lookupTTL); err != nil {
			s.logger.Warn("order lookup cache write failed", zap.Error(err))
		}
	}
	return orders, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load order", zap.String("order_id", id), zap.Error(err))
		return nil, domain.NewPersistence(domain.ErrMsgFetchFailed, err)
	}
	if o == nil {
		return nil, domain.NewNotFound(domain.ErrMsgOrderNotFound, ErrOrderNotFound)
	}
	return o, nil
}

// ListOrders returns every order newest first for the admin console.
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.FindRecent(ctx, 0)
	if err != nil {
		s.logger.Error("failed to list orders", zap.Error(err))
		return nil, domain.NewPersistence(domain.ErrMsgFetchFailed, err)
	}
	return orders, nil
}

// UpdateOrder applies an admin fulfillment update. Any enumerated status may
// be set from any other; only the fields present in update change.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, update repository.OrderUpdate) (*domain.Order, error) {
	o, err := s.repo.Update(ctx, id, update)
	if err != nil {
		s.logger.Error("failed to update order", zap.String("order_id", id), zap.Error(err))
		return nil, domain.NewPersistence(domain.ErrMsgUpdateFailed, err)
	}
	if o == nil {
		return nil, domain.NewNotFound(domain.ErrMsgOrderNotFound, ErrOrderNotFound)
	}

	fields := []zap.Field{zap.String("order_id", o.ID), zap.String("order_number", o.OrderNumber)}
	if update.Status != nil {
		fields = append(fields, zap.String("status", string(*update.Status)))
	}
	if update.PaymentStatus != nil {
		fields = append(fields, zap.String("payment_status", string(*update.PaymentStatus)))
	}
	s.logger.Info("order updated", fields...)

	s.invalidateLookups(ctx, o.OrderNumber, o.CustomerPhone)
	s.publish(ctx, rabbit.RoutingOrderUpdated, domain.NewOrderUpdatedEvent(o))

	return o, nil
}
