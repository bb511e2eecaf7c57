package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentManual   PaymentMethod = "manual"
	PaymentMpesaSTK PaymentMethod = "mpesa_stk"
)

// ParseOrderStatus accepts any member of the fulfillment enumeration. No
// transition rules are applied: every status is reachable from every other.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusPreparing:
		return StatusPreparing, nil
	case StatusDelivered:
		return StatusDelivered, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", NewValidation("Invalid order status: " + s)
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case PaymentPending:
		return PaymentPending, nil
	case PaymentPaid:
		return PaymentPaid, nil
	case PaymentFailed:
		return PaymentFailed, nil
	default:
		return "", NewValidation("Invalid payment status: " + s)
	}
}

// ParsePaymentMethod defaults an empty value to manual payment.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(s))) {
	case "", PaymentManual:
		return PaymentManual, nil
	case PaymentMpesaSTK:
		return PaymentMpesaSTK, nil
	default:
		return "", NewValidation("Invalid payment method: " + s)
	}
}

// Order is written once at intake. Only Status, PaymentStatus and
// MpesaReceiptNo change afterwards.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber     string          `json:"orderNumber" gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerName    string          `json:"customerName" gorm:"not null"`
	CustomerPhone   string          `json:"customerPhone" gorm:"type:varchar(32);index;not null"`
	CustomerEmail   *string         `json:"customerEmail"`
	CustomerAddress string          `json:"customerAddress" gorm:"not null"`
	TotalAmount     decimal.Decimal `json:"totalAmount" gorm:"type:decimal(12,2);not null"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" gorm:"type:varchar(20);default:'manual'"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" gorm:"type:varchar(20);default:'pending'"`
	MpesaReceiptNo  *string         `json:"mpesaReceiptNo"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem carries the unit price captured at intake. Position keeps items
// in submission order. Product is loaded for display only and may be nil once
// the product is gone.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"orderId" gorm:"type:varchar(36);index;not null"`
	ProductID string          `json:"productId" gorm:"type:varchar(36);index;not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Position  int             `json:"-" gorm:"not null"`
	Product   *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:-"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// LineTotal is price × quantity for the snapshotted price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OrderStats struct {
	TotalOrders   int64           `json:"totalOrders"`
	PendingOrders int64           `json:"pendingOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}
