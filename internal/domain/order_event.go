package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderCreatedEvent struct {
	OrderID       string          `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	ItemCount     int             `json:"itemCount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type OrderUpdatedEvent struct {
	OrderID        string        `json:"orderId"`
	OrderNumber    string        `json:"orderNumber"`
	Status         OrderStatus   `json:"status"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	MpesaReceiptNo *string       `json:"mpesaReceiptNo"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func NewOrderCreatedEvent(o *Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		TotalAmount:   o.TotalAmount,
		ItemCount:     len(o.Items),
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
	}
}

func NewOrderUpdatedEvent(o *Order) OrderUpdatedEvent {
	return OrderUpdatedEvent{
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		Status:         o.Status,
		PaymentStatus:  o.PaymentStatus,
		MpesaReceiptNo: o.MpesaReceiptNo,
		UpdatedAt:      o.UpdatedAt,
	}
}
