// Package checkout validates shipping details and drives the multi-step
// checkout form: shipping, then payment, then confirmation.
package checkout

import (
	"context"
	"errors"
	"sync"

	"styleshop/internal/models"
)

// State is a step of the checkout form.
type State int

const (
	ShippingForm State = iota
	PaymentForm
	Confirmed
)

func (s State) String() string {
	switch s {
	case ShippingForm:
		return "shipping"
	case PaymentForm:
		return "payment"
	case Confirmed:
		return "confirmed"
	}
	return "unknown"
}

var (
	ErrSignInRequired = errors.New("sign in to check out")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrWrongState     = errors.New("action not allowed in current checkout step")
	ErrInFlight       = errors.New("order is already being placed")
)

// OrderRequest is what the payment step submits.
type OrderRequest struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentOption          `json:"paymentMethod"`
}

// OrderPlacer submits an order and empties the cart on success.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (*models.Order, error)
}

// Flow is the checkout state machine. It is safe for concurrent use.
type Flow struct {
	mu          sync.Mutex
	state       State
	address     models.ShippingAddress
	fieldErrors FieldErrors
	lastErr     error
	order       *models.Order
	placing     bool
}

// Start opens checkout for a signed-in user with a non-empty cart.
func Start(signedIn bool, cartLines int) (*Flow, error) {
	if !signedIn {
		return nil, ErrSignInRequired
	}
	if cartLines == 0 {
		return nil, ErrEmptyCart
	}
	return &Flow{state: ShippingForm}, nil
}

// State returns the current step.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Address returns the address entered so far.
func (f *Flow) Address() models.ShippingAddress {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.address
}

// FieldErrors returns the validation errors of the last shipping submission.
func (f *Flow) FieldErrors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fieldErrors
}

// Err returns the error of the last failed order placement.
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Order returns the placed order once Confirmed.
func (f *Flow) Order() *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order
}

// SubmitShipping stores the address and moves to the payment step when it is valid.
func (f *Flow) SubmitShipping(addr models.ShippingAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != ShippingForm || f.placing {
		return ErrWrongState
	}
	f.address = addr
	if err := ValidateAddress(addr); err != nil {
		var fe FieldErrors
		if errors.As(err, &fe) {
			f.fieldErrors = fe
		}
		return err
	}
	f.fieldErrors = nil
	f.state = PaymentForm
	return nil
}

// Edit goes back from payment to shipping, keeping the entered address.
func (f *Flow) Edit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != PaymentForm || f.placing {
		return ErrWrongState
	}
	f.state = ShippingForm
	return nil
}

// PlaceOrder submits the order. On failure the flow stays on the payment
// step; the caller may resubmit.
func (f *Flow) PlaceOrder(ctx context.Context, placer OrderPlacer, payment PaymentOption) (*models.Order, error) {
	f.mu.Lock()
	if f.state != PaymentForm {
		f.mu.Unlock()
		return nil, ErrWrongState
	}
	if f.placing {
		f.mu.Unlock()
		return nil, ErrInFlight
	}
	f.placing = true
	req := OrderRequest{ShippingAddress: f.address, PaymentMethod: payment}
	f.mu.Unlock()

	order, err := placer.PlaceOrder(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.placing = false
	if err != nil {
		f.lastErr = err
		return nil, err
	}
	f.lastErr = nil
	f.order = order
	f.state = Confirmed
	return order, nil
}
