// Package cart holds the line-item rules shared by the server cart and the
// client-side optimistic cart.
package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"styleshop/internal/models"
)

var (
	ErrInvalidQuantity = errors.New("quantity must not be negative")
	ErrLineNotFound    = errors.New("cart line not found")
)

// LineKey identifies a line: the same product in another size or color is another line.
type LineKey struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// Key builds a LineKey.
func Key(productID, size, color string) LineKey {
	return LineKey{ProductID: productID, Size: size, Color: color}
}

// KeyOf returns the key of an existing line.
func KeyOf(item models.CartItem) LineKey {
	return Key(item.ProductID, item.Size, item.Color)
}

// Lines is an ordered list of cart lines. Every operation returns a new
// slice and leaves the receiver untouched.
type Lines []models.CartItem

// Add merges item into the lines, summing quantities for an existing key.
func (l Lines) Add(item models.CartItem) (Lines, error) {
	if item.Quantity < 1 {
		return l.clone(), ErrInvalidQuantity
	}
	out := l.clone()
	key := KeyOf(item)
	for i := range out {
		if KeyOf(out[i]) == key {
			out[i].Quantity += item.Quantity
			return out, nil
		}
	}
	return append(out, item), nil
}

// SetQuantity replaces the quantity of a line. Zero removes the line and a
// negative quantity is rejected without changing anything.
func (l Lines) SetQuantity(key LineKey, qty int) (Lines, error) {
	if qty < 0 {
		return l.clone(), ErrInvalidQuantity
	}
	idx := l.index(key)
	if idx < 0 {
		return l.clone(), ErrLineNotFound
	}
	if qty == 0 {
		return l.Remove(key)
	}
	out := l.clone()
	out[idx].Quantity = qty
	return out, nil
}

// Remove drops the line with key.
func (l Lines) Remove(key LineKey) (Lines, error) {
	idx := l.index(key)
	if idx < 0 {
		return l.clone(), ErrLineNotFound
	}
	out := make(Lines, 0, len(l)-1)
	out = append(out, l[:idx]...)
	return append(out, l[idx+1:]...), nil
}

// Clear returns an empty, non-nil list.
func (l Lines) Clear() Lines {
	return Lines{}
}

// Find returns the line with key.
func (l Lines) Find(key LineKey) (models.CartItem, bool) {
	if idx := l.index(key); idx >= 0 {
		return l[idx], true
	}
	return models.CartItem{}, false
}

// Count is the total number of units across all lines.
func (l Lines) Count() int {
	n := 0
	for _, item := range l {
		n += item.Quantity
	}
	return n
}

// Subtotal sums price times quantity over all lines.
func (l Lines) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (l Lines) index(key LineKey) int {
	for i := range l {
		if KeyOf(l[i]) == key {
			return i
		}
	}
	return -1
}

func (l Lines) clone() Lines {
	out := make(Lines, len(l))
	copy(out, l)
	return out
}
