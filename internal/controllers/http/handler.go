package http

import (
	"context"
	"net/http"

	"liquor-delivery/internal/domain"
	"liquor-delivery/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const errMsgInvalidBody = "Invalid request body"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	orders    *services.OrderService
	carts     *services.CartService
	settings  *services.SettingsService
	dashboard *services.DashboardService
	db        Pinger
	adminKey  string
	logger    *zap.Logger
}

func NewHandler(
	orders *services.OrderService,
	carts *services.CartService,
	settings *services.SettingsService,
	dashboard *services.DashboardService,
	db Pinger,
	adminKey string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		orders:    orders,
		carts:     carts,
		settings:  settings,
		dashboard: dashboard,
		db:        db,
		adminKey:  adminKey,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	admin := RequireAdmin(h.adminKey)

	r.GET("/healthz", h.Health)

	r.POST("/orders", h.CreateOrder)
	r.GET("/orders", h.LookupOrders)
	r.PUT("/orders/:id", admin, h.UpdateOrder)

	r.GET("/settings", h.GetPublicSettings)

	c := r.Group("/cart")
	c.GET("", h.ViewCart)
	c.DELETE("", h.ClearCart)
	c.POST("/items", h.AddCartItem)
	c.PUT("/items/:productId", h.UpdateCartItem)
	c.DELETE("/items/:productId", h.RemoveCartItem)
	c.GET("/quote", h.QuoteCart)
	c.POST("/checkout", h.Checkout)

	a := r.Group("/admin", admin)
	a.GET("/orders", h.ListOrders)
	a.GET("/orders/:id", h.GetOrder)
	a.GET("/dashboard", h.Dashboard)
	a.GET("/settings", h.GetSettings)
	a.PUT("/settings", h.UpdateSettings)
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindProductNotFound, domain.KindOutOfStock:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Storage faults never leak their cause;
// fallback is shown instead.
func respondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)
	c.JSON(statusFor(domain.KindOf(err)), gin.H{"error": domain.PublicMessage(err, fallback)})
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsgInvalidBody})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), req.toInput(c.GetHeader(HeaderIdempotencyKey)))
	if err != nil {
		respondError(c, err, domain.ErrMsgCreateFailed)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) LookupOrders(c *gin.Context) {
	orders, err := h.orders.LookupOrders(c.Request.Context(), c.Query("orderNumber"), c.Query("phone"))
	if err != nil {
		respondError(c, err, domain.ErrMsgFetchFailed)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsgInvalidBody})
		return
	}
	update, err := req.toUpdate()
	if err != nil {
		respondError(c, err, domain.ErrMsgUpdateFailed)
		return
	}

	order, err := h.orders.UpdateOrder(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err, domain.ErrMsgUpdateFailed)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err, domain.ErrMsgFetchFailed)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, domain.ErrMsgFetchFailed)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.dashboard.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch dashboard")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) GetPublicSettings(c *gin.Context) {
	s, err := h.settings.Public(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch settings")
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) GetSettings(c *gin.Context) {
	s, err := h.settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch settings")
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsgInvalidBody})
		return
	}
	s, err := h.settings.Update(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err, "Failed to update settings")
		return
	}
	c.JSON(http.StatusOK, s)
}
