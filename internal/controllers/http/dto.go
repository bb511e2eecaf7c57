package http

import (
	"strings"

	"liquor-delivery/internal/domain"
	"liquor-delivery/internal/repository"
	"liquor-delivery/internal/services"
)

type OrderItemRequest struct {
	ProductID string `json:"productId"`
	// ID is accepted for carts that send the product under "id".
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerName    string             `json:"customerName"`
	CustomerPhone   string             `json:"customerPhone"`
	CustomerEmail   *string            `json:"customerEmail"`
	CustomerAddress string             `json:"customerAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	Items           []OrderItemRequest `json:"items"`
}

func (r CreateOrderRequest) toInput(idempotencyKey string) services.CreateOrderInput {
	items := make([]services.OrderLineInput, 0, len(r.Items))
	for _, it := range r.Items {
		id := it.ProductID
		if id == "" {
			id = it.ID
		}
		items = append(items, services.OrderLineInput{ProductID: id, Quantity: it.Quantity})
	}
	return services.CreateOrderInput{
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CustomerEmail:   r.CustomerEmail,
		CustomerAddress: r.CustomerAddress,
		PaymentMethod:   r.PaymentMethod,
		Items:           items,
		IdempotencyKey:  idempotencyKey,
	}
}

type UpdateOrderRequest struct {
	Status         *string `json:"status"`
	PaymentStatus  *string `json:"paymentStatus"`
	MpesaReceiptNo *string `json:"mpesaReceiptNo"`
}

// toUpdate rejects values outside the enumerations. A blank receipt is
// treated as absent.
func (r UpdateOrderRequest) toUpdate() (repository.OrderUpdate, error) {
	var u repository.OrderUpdate
	if r.Status != nil {
		s, err := domain.ParseOrderStatus(*r.Status)
		if err != nil {
			return u, err
		}
		u.Status = &s
	}
	if r.PaymentStatus != nil {
		p, err := domain.ParsePaymentStatus(*r.PaymentStatus)
		if err != nil {
			return u, err
		}
		u.PaymentStatus = &p
	}
	if r.MpesaReceiptNo != nil {
		if receipt := strings.TrimSpace(*r.MpesaReceiptNo); receipt != "" {
			u.MpesaReceiptNo = &receipt
		}
	}
	return u, nil
}

type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	CustomerEmail   *string `json:"customerEmail"`
	CustomerAddress string  `json:"customerAddress"`
	PaymentMethod   string  `json:"paymentMethod"`
}

// SettingsRequest is a partial update: absent keys leave the stored value
// alone, except the fee amounts which are always rewritten.
type SettingsRequest struct {
	StoreName    *string `json:"storeName"`
	StorePhone   *string `json:"storePhone"`
	StoreEmail   *string `json:"storeEmail"`
	StoreAddress *string `json:"storeAddress"`

	MpesaEnabled        *bool   `json:"mpesaEnabled"`
	MpesaPaybillNumber  *string `json:"mpesaPaybillNumber"`
	MpesaAccountNumber  *string `json:"mpesaAccountNumber"`
	MpesaTillNumber     *string `json:"mpesaTillNumber"`
	MpesaConsumerKey    *string `json:"mpesaConsumerKey"`
	MpesaConsumerSecret *string `json:"mpesaConsumerSecret"`
	MpesaPasskey        *string `json:"mpesaPasskey"`
	MpesaShortcode      *string `json:"mpesaShortcode"`

	ManualPaymentPhone        *string `json:"manualPaymentPhone"`
	ManualPaymentName         *string `json:"manualPaymentName"`
	ManualPaymentInstructions *string `json:"manualPaymentInstructions"`

	// Fee fields arrive as numbers or strings from the admin form.
	DeliveryFee  any `json:"deliveryFee"`
	MinimumOrder any `json:"minimumOrder"`
}

func (r SettingsRequest) toInput() services.SettingsInput {
	return services.SettingsInput{
		StoreName:                 r.StoreName,
		StorePhone:                r.StorePhone,
		StoreEmail:                r.StoreEmail,
		StoreAddress:              r.StoreAddress,
		MpesaEnabled:              r.MpesaEnabled,
		MpesaPaybillNumber:        r.MpesaPaybillNumber,
		MpesaAccountNumber:        r.MpesaAccountNumber,
		MpesaTillNumber:           r.MpesaTillNumber,
		MpesaConsumerKey:          r.MpesaConsumerKey,
		MpesaConsumerSecret:       r.MpesaConsumerSecret,
		MpesaPasskey:              r.MpesaPasskey,
		MpesaShortcode:            r.MpesaShortcode,
		ManualPaymentPhone:        r.ManualPaymentPhone,
		ManualPaymentName:         r.ManualPaymentName,
		ManualPaymentInstructions: r.ManualPaymentInstructions,
		DeliveryFee:               r.DeliveryFee,
		MinimumOrder:              r.MinimumOrder,
	}
}
