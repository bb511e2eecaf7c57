package services

import (
	"context"
	"strings"

	"liquor-delivery/internal/cart"
	"liquor-delivery/internal/domain"
	"liquor-delivery/internal/infra"
	"liquor-delivery/internal/pricing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	errMsgSessionMissing = "Cart session required"
	errMsgCartEmpty      = "Cart is empty"
	errMsgCartFailed     = "Failed to update cart"
)

// CartView is a cart as shown on the cart badge and cart page.
type CartView struct {
	Items      []cart.Line     `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func newCartView(c *cart.Cart) *CartView {
	return &CartView{
		Items:      c.Lines,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}

// CheckoutInput carries the customer details collected on the checkout page.
type CheckoutInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   *string
	CustomerAddress string
	PaymentMethod   string
	IdempotencyKey  string
}

// CartService keeps server-held carts keyed by session. products may be a
// cached source since cart prices are display-only.
type CartService struct {
	store    cart.Store
	products infra.ProductLookup
	settings SettingsProvider
	orders   *OrderService
	logger   *zap.Logger
}

func NewCartService(store cart.Store, products infra.ProductLookup, settings SettingsProvider, orders *OrderService, logger *zap.Logger) *CartService {
	return &CartService{
		store:    store,
		products: products,
		settings: settings,
		orders:   orders,
		logger:   logger,
	}
}

func (s *CartService) load(ctx context.Context, session string) (*cart.Cart, error) {
	if strings.TrimSpace(session) == "" {
		return nil, domain.NewValidation(errMsgSessionMissing)
	}
	c, err := s.store.Load(ctx, session)
	if err != nil {
		s.logger.Error("failed to load cart", zap.String("session", session), zap.Error(err))
		return nil, domain.NewPersistence("Failed to load cart", err)
	}
	return c, nil
}

func (s *CartService) save(ctx context.Context, session string, c *cart.Cart) (*CartView, error) {
	if err := s.store.Save(ctx, session, c); err != nil {
		s.logger.Error("failed to save cart", zap.String("session", session), zap.Error(err))
		return nil, domain.NewPersistence(errMsgCartFailed, err)
	}
	return newCartView(c), nil
}

func (s *CartService) View(ctx context.Context, session string) (*CartView, error) {
	c, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	return newCartView(c), nil
}

// AddItem snapshots the product's current name, price and image into the
// cart. Out-of-stock products are accepted; intake rejects them later.
func (s *CartService) AddItem(ctx context.Context, session, productID string, qty int) (*CartView, error) {
	c, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(productID) == "" {
		return nil, domain.NewValidation(domain.ErrMsgMissingFields)
	}

	prod, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		s.logger.Error("product lookup failed", zap.String("product_id", productID), zap.Error(err))
		return nil, domain.NewPersistence(errMsgCartFailed, err)
	}
	if prod == nil {
		return nil, domain.NewProductNotFound(productID)
	}

	c.AddItem(*prod, qty)
	return s.save(ctx, session, c)
}

func (s *CartService) UpdateQuantity(ctx context.Context, session, productID string, qty int) (*CartView, error) {
	c, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	c.UpdateQuantity(productID, qty)
	return s.save(ctx, session, c)
}

func (s *CartService) RemoveItem(ctx context.Context, session, productID string) (*CartView, error) {
	c, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	c.RemoveItem(productID)
	return s.save(ctx, session, c)
}

func (s *CartService) Clear(ctx context.Context, session string) error {
	if strings.TrimSpace(session) == "" {
		return domain.NewValidation(errMsgSessionMissing)
	}
	if err := s.store.Delete(ctx, session); err != nil {
		s.logger.Error("failed to clear cart", zap.String("session", session), zap.Error(err))
		return domain.NewPersistence(errMsgCartFailed, err)
	}
	return nil
}

// Quote prices the cart with the cart-page fee policy.
func (s *CartService) Quote(ctx context.Context, session string) (*pricing.Breakdown, error) {
	c, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	quote := pricing.CartPage(c.TotalPrice(), *settings)
	return &quote, nil
}

// Checkout submits the cart lines, in cart order, to order intake. The cart
// is cleared only when the order was created. A cart below the minimum order
// is refused, as the cart page would not let the customer reach checkout.
func (s *CartService) Checkout(ctx context.Context, session string, in CheckoutInput) (*domain.Order, error) {
	c, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, domain.NewValidation(errMsgCartEmpty)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if quote := pricing.CartPage(c.TotalPrice(), *settings); quote.BelowMinimum {
		return nil, domain.NewValidation("Minimum order is " + quote.MinimumOrder.String())
	}

	lines := make([]OrderLineInput, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, OrderLineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	order, err := s.orders.CreateOrder(ctx, CreateOrderInput{
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerEmail:   in.CustomerEmail,
		CustomerAddress: in.CustomerAddress,
		PaymentMethod:   in.PaymentMethod,
		Items:           lines,
		IdempotencyKey:  in.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, session); err != nil {
		s.logger.Warn("order created but cart not cleared",
			zap.String("session", session),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
	}
	return order, nil
}
