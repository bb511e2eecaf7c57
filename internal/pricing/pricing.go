// Package pricing derives price breakdowns from a subtotal and the current
// settings snapshot.
//
// Two fee policies exist and are kept apart on purpose. The cart page waives
// the delivery fee while the subtotal is below the minimum order; checkout and
// order intake always charge it. Callers pick the policy that matches the
// screen they serve.
package pricing

import (
	"liquor-delivery/internal/domain"

	"github.com/shopspring/decimal"
)

type Breakdown struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	Total        decimal.Decimal `json:"total"`
	MinimumOrder decimal.Decimal `json:"minimumOrder"`
	// BelowMinimum blocks navigation to checkout on the cart page.
	BelowMinimum bool `json:"belowMinimum"`
	// Shortfall is how much more must be added to reach the minimum.
	Shortfall decimal.Decimal `json:"shortfall"`
}

// CartPage applies the cart-page policy: the fee is charged only once the
// subtotal reaches the minimum order.
func CartPage(subtotal decimal.Decimal, s domain.Settings) Breakdown {
	fee := decimal.Zero
	if subtotal.GreaterThanOrEqual(s.MinimumOrder) {
		fee = s.DeliveryFee
	}
	return breakdown(subtotal, fee, s)
}

// Checkout applies the checkout policy: the full delivery fee is always added.
func Checkout(subtotal decimal.Decimal, s domain.Settings) Breakdown {
	return breakdown(subtotal, s.DeliveryFee, s)
}

func breakdown(subtotal, fee decimal.Decimal, s domain.Settings) Breakdown {
	below := subtotal.IsPositive() && subtotal.LessThan(s.MinimumOrder)
	shortfall := decimal.Zero
	if below {
		shortfall = s.MinimumOrder.Sub(subtotal)
	}
	return Breakdown{
		Subtotal:     subtotal,
		DeliveryFee:  fee,
		Total:        subtotal.Add(fee),
		MinimumOrder: s.MinimumOrder,
		BelowMinimum: below,
		Shortfall:    shortfall,
	}
}
