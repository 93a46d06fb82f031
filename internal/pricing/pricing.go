// Package pricing computes order totals.
package pricing

import "github.com/shopspring/decimal"

// TaxRate is the flat goods-and-services tax applied at checkout.
var TaxRate = decimal.RequireFromString("0.18")

// Breakdown is the priced summary of an order.
type Breakdown struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Quote applies TaxRate to subtotal. All amounts are rounded half-up to 2 places.
func Quote(subtotal decimal.Decimal) Breakdown {
	sub := subtotal.Round(2)
	tax := sub.Mul(TaxRate).Round(2)
	return Breakdown{
		Subtotal: sub,
		Tax:      tax,
		Total:    sub.Add(tax),
	}
}

// LineTotal is price times quantity.
func LineTotal(price float64, qty int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty)))
}

// Float converts an amount for storage.
func Float(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
