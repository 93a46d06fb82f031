package storefront

import (
	"context"
	"sync"

	"styleshop/internal/cart"
	"styleshop/internal/models"
)

// CartBackend is the server side of a signed-in cart.
type CartBackend interface {
	Cart(ctx context.Context) (*models.Cart, error)
	AddToCart(ctx context.Context, key cart.LineKey, quantity int) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, key cart.LineKey, quantity int) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, key cart.LineKey) (*models.Cart, error)
	ClearCart(ctx context.Context) (*models.Cart, error)
}

// LocalStore keeps a guest's state on the device.
type LocalStore[T any] interface {
	Load() T
	Save(T)
}

// MemoryStore is a LocalStore held in memory.
type MemoryStore[T any] struct {
	mu    sync.Mutex
	value T
}

func (m *MemoryStore[T]) Load() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

func (m *MemoryStore[T]) Save(v T) {
	m.mu.Lock()
	m.value = v
	m.mu.Unlock()
}

// CartSession is a cart view that updates immediately and reconciles with
// the server in the background of each call. Guest sessions never talk to
// the server, and signing in does not merge a guest cart.
type CartSession struct {
	backend CartBackend
	store   LocalStore[cart.Lines]
	state   optimistic[cart.Lines]
}

// NewCartSession returns a signed-in session. Call Refresh to load the server cart.
func NewCartSession(backend CartBackend) *CartSession {
	return &CartSession{backend: backend}
}

// NewGuestCartSession returns a session backed only by store.
func NewGuestCartSession(store LocalStore[cart.Lines]) *CartSession {
	return &CartSession{store: store}
}

func (s *CartSession) Guest() bool { return s.backend == nil }

// Refresh replaces the view with the server cart, dropping pending operations.
func (s *CartSession) Refresh(ctx context.Context) error {
	if s.Guest() {
		return nil
	}
	c, err := s.backend.Cart(ctx)
	if err != nil {
		return err
	}
	s.state.reset(cart.Lines(c.Items))
	return nil
}

// View returns the lines the shopper should see.
func (s *CartSession) View() cart.Lines {
	if s.Guest() {
		return s.store.Load()
	}
	return s.state.view()
}

// Pending returns how many changes are still waiting for the server.
func (s *CartSession) Pending() int {
	if s.Guest() {
		return 0
	}
	return s.state.pendingCount()
}

// Add puts item in the cart. Name, price and image are only used for the
// optimistic view; the server snapshots the product itself.
func (s *CartSession) Add(ctx context.Context, item models.CartItem) error {
	apply := func(l cart.Lines) (cart.Lines, error) { return l.Add(item) }
	return s.mutate(ctx, apply, func(ctx context.Context) (*models.Cart, error) {
		return s.backend.AddToCart(ctx, cart.KeyOf(item), item.Quantity)
	})
}

func (s *CartSession) SetQuantity(ctx context.Context, key cart.LineKey, qty int) error {
	apply := func(l cart.Lines) (cart.Lines, error) { return l.SetQuantity(key, qty) }
	return s.mutate(ctx, apply, func(ctx context.Context) (*models.Cart, error) {
		return s.backend.UpdateCartItem(ctx, key, qty)
	})
}

func (s *CartSession) Remove(ctx context.Context, key cart.LineKey) error {
	apply := func(l cart.Lines) (cart.Lines, error) { return l.Remove(key) }
	return s.mutate(ctx, apply, func(ctx context.Context) (*models.Cart, error) {
		return s.backend.RemoveCartItem(ctx, key)
	})
}

func (s *CartSession) Clear(ctx context.Context) error {
	apply := func(l cart.Lines) (cart.Lines, error) { return l.Clear(), nil }
	return s.mutate(ctx, apply, func(ctx context.Context) (*models.Cart, error) {
		return s.backend.ClearCart(ctx)
	})
}

// forget empties the local view after the server emptied the cart itself.
func (s *CartSession) forget() {
	if s.Guest() {
		s.store.Save(nil)
		return
	}
	s.state.reset(nil)
}

func (s *CartSession) mutate(ctx context.Context, apply func(cart.Lines) (cart.Lines, error), send func(context.Context) (*models.Cart, error)) error {
	if s.Guest() {
		next, err := apply(s.store.Load())
		if err != nil {
			return err
		}
		s.store.Save(next)
		return nil
	}
	return s.state.submit(ctx, apply, func(ctx context.Context) (cart.Lines, error) {
		c, err := send(ctx)
		if err != nil {
			return nil, err
		}
		return cart.Lines(c.Items), nil
	})
}
