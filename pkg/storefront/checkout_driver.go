package storefront

import (
	"context"

	"styleshop/internal/checkout"
	"styleshop/internal/models"
)

// CheckoutDriver runs the checkout form against the API for a cart session.
type CheckoutDriver struct {
	flow   *checkout.Flow
	cart   *CartSession
	placer checkout.OrderPlacer
}

// StartCheckout opens checkout. Guests and empty carts are refused.
func StartCheckout(session *CartSession, placer checkout.OrderPlacer) (*CheckoutDriver, error) {
	flow, err := checkout.Start(!session.Guest(), len(session.View()))
	if err != nil {
		return nil, err
	}
	return &CheckoutDriver{flow: flow, cart: session, placer: placer}, nil
}

func (d *CheckoutDriver) Flow() *checkout.Flow { return d.flow }

func (d *CheckoutDriver) SubmitShipping(addr models.ShippingAddress) error {
	return d.flow.SubmitShipping(addr)
}

func (d *CheckoutDriver) Edit() error { return d.flow.Edit() }

// PlaceOrder submits the order and empties the local cart view on success.
func (d *CheckoutDriver) PlaceOrder(ctx context.Context, payment checkout.PaymentOption) (*models.Order, error) {
	order, err := d.flow.PlaceOrder(ctx, d.placer, payment)
	if err != nil {
		return nil, err
	}
	d.cart.forget()
	return order, nil
}
