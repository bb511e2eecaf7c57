// Package cart holds the in-progress basket. A Cart is a plain value owned by
// whoever holds it; persistence is supplied separately through Store.
package cart

import (
	"liquor-delivery/internal/domain"

	"github.com/shopspring/decimal"
)

// Line is one product in the cart. UnitPrice is captured when the product is
// added and is only ever used for display.
type Line struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	ImageRef  string          `json:"imageRef"`
	Quantity  int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps at most one line per product, in the order products were first
// added.
type Cart struct {
	Lines []Line `json:"items"`
}

func New() *Cart {
	return &Cart{Lines: []Line{}}
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem increments an existing line or appends a new one with the product's
// current price. A qty below 1 adds a single unit. Stock is not checked here.
func (c *Cart) AddItem(p domain.Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	if i := c.indexOf(p.ID); i >= 0 {
		c.Lines[i].Quantity += qty
		return
	}
	c.Lines = append(c.Lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageRef:  p.Image,
		Quantity:  qty,
	})
}

// UpdateQuantity sets the quantity of an existing line, removing it when
// newQty <= 0. Unknown products are ignored.
func (c *Cart) UpdateQuantity(productID string, newQty int) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	if newQty <= 0 {
		c.RemoveItem(productID)
		return
	}
	c.Lines[i].Quantity = newQty
}

func (c *Cart) RemoveItem(productID string) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// TotalPrice is the display subtotal. It never includes a delivery fee.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
