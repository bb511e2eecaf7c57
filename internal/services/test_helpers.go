package services

import (
	"time"

	"liquor-delivery/internal/domain"

	"github.com/shopspring/decimal"
)

func CreateMockOrder(id, orderNumber string, total int64, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:              id,
		OrderNumber:     orderNumber,
		CustomerName:    TestCustomerName,
		CustomerPhone:   TestCustomerPhone,
		CustomerAddress: TestCustomerAddress,
		TotalAmount:     decimal.NewFromInt(total),
		PaymentMethod:   domain.PaymentManual,
		Status:          status,
		PaymentStatus:   domain.PaymentPending,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

func CreateMockProduct(id, name string, price int64, inStock bool) *domain.Product {
	return &domain.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.NewFromInt(price),
		InStock:  inStock,
		Quantity: 10,
	}
}

func CreateMockSettings(fee, minimum int64) *domain.Settings {
	s := domain.DefaultSettings()
	s.DeliveryFee = decimal.NewFromInt(fee)
	s.MinimumOrder = decimal.NewFromInt(minimum)
	return &s
}

const (
	TestOrderID         = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	TestOrderNumber     = "ORD-M5X2K1QZ-4F7A9B2C"
	TestProductID       = "P1"
	TestProductName     = "Johnnie Walker Black 750ml"
	TestProductPrice    = int64(1200)
	TestCustomerName    = "Jane Wanjiku"
	TestCustomerPhone   = "0712345678"
	TestCustomerAddress = "Kilimani, Nairobi"
)
