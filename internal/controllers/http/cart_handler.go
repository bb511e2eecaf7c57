package http

import (
	"net/http"

	"liquor-delivery/internal/domain"
	"liquor-delivery/internal/services"

	"github.com/gin-gonic/gin"
)

const errMsgCartFailed = "Failed to update cart"

func cartSession(c *gin.Context) (string, bool) {
	session := c.GetHeader(HeaderCartSession)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart session required"})
		return "", false
	}
	return session, true
}

func (h *Handler) ViewCart(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	view, err := h.carts.View(c.Request.Context(), session)
	if err != nil {
		respondError(c, err, errMsgCartFailed)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) AddCartItem(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsgInvalidBody})
		return
	}
	view, err := h.carts.AddItem(c.Request.Context(), session, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err, errMsgCartFailed)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsgInvalidBody})
		return
	}
	view, err := h.carts.UpdateQuantity(c.Request.Context(), session, c.Param("productId"), req.Quantity)
	if err != nil {
		respondError(c, err, errMsgCartFailed)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	view, err := h.carts.RemoveItem(c.Request.Context(), session, c.Param("productId"))
	if err != nil {
		respondError(c, err, errMsgCartFailed)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) ClearCart(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	if err := h.carts.Clear(c.Request.Context(), session); err != nil {
		respondError(c, err, errMsgCartFailed)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) QuoteCart(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	quote, err := h.carts.Quote(c.Request.Context(), session)
	if err != nil {
		respondError(c, err, errMsgCartFailed)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) Checkout(c *gin.Context) {
	session, ok := cartSession(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsgInvalidBody})
		return
	}

	order, err := h.carts.Checkout(c.Request.Context(), session, services.CheckoutInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		PaymentMethod:   req.PaymentMethod,
		IdempotencyKey:  c.GetHeader(HeaderIdempotencyKey),
	})
	if err != nil {
		respondError(c, err, domain.ErrMsgCreateFailed)
		return
	}
	c.JSON(http.StatusCreated, order)
}
