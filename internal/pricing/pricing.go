// Package pricing computes order totals: subtotal, a floored 4% tax and a
// flat shipping fee for small orders.
package pricing

import "math"

const (
	// TaxRate is applied to the pre-tax subtotal; the result is floored.
	TaxRate = 0.04
	// ShippingFee is charged when the subtotal stays under FreeShippingAt.
	ShippingFee    = 20.0
	FreeShippingAt = 150.0
	// MinOnlineAmount is the gateway minimum: online orders totalling less
	// are rejected before anything is persisted.
	MinOnlineAmount = 50.0
)

// Line is one (unit price, quantity) pair of an order.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// Breakdown is the priced view of an order.
type Breakdown struct {
	Subtotal float64
	Tax      float64
	Shipping float64
	Total    float64
}

// Calculate prices a set of lines. Pure: the caller resolves unit prices
// from live catalog state before calling.
func Calculate(lines []Line) Breakdown {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}

	tax := math.Floor(subtotal * TaxRate)
	var shipping float64
	if subtotal < FreeShippingAt {
		shipping = ShippingFee
	}

	return Breakdown{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal + tax + shipping,
	}
}
