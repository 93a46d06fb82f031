package storefront

import (
	"context"
)

// WishlistBackend is the server side of a signed-in wishlist.
type WishlistBackend interface {
	Wishlist(ctx context.Context) (*Wishlist, error)
	AddToWishlist(ctx context.Context, productID string) (*Wishlist, error)
	RemoveFromWishlist(ctx context.Context, productID string) (*Wishlist, error)
}

// WishlistSession is the optimistic view of a wishlist, a set of product ids.
type WishlistSession struct {
	backend WishlistBackend
	store   LocalStore[[]string]
	state   optimistic[[]string]
}

func NewWishlistSession(backend WishlistBackend) *WishlistSession {
	return &WishlistSession{backend: backend}
}

func NewGuestWishlistSession(store LocalStore[[]string]) *WishlistSession {
	return &WishlistSession{store: store}
}

func (s *WishlistSession) Guest() bool { return s.backend == nil }

func (s *WishlistSession) Refresh(ctx context.Context) error {
	if s.Guest() {
		return nil
	}
	w, err := s.backend.Wishlist(ctx)
	if err != nil {
		return err
	}
	s.state.reset(w.IDs())
	return nil
}

func (s *WishlistSession) View() []string {
	if s.Guest() {
		return s.store.Load()
	}
	return s.state.view()
}

func (s *WishlistSession) Contains(productID string) bool {
	for _, id := range s.View() {
		if id == productID {
			return true
		}
	}
	return false
}

func (s *WishlistSession) Pending() int {
	if s.Guest() {
		return 0
	}
	return s.state.pendingCount()
}

// Add is idempotent.
func (s *WishlistSession) Add(ctx context.Context, productID string) error {
	return s.mutate(ctx, func(ids []string) ([]string, error) { return addID(ids, productID), nil },
		func(ctx context.Context) (*Wishlist, error) { return s.backend.AddToWishlist(ctx, productID) })
}

func (s *WishlistSession) Remove(ctx context.Context, productID string) error {
	return s.mutate(ctx, func(ids []string) ([]string, error) { return removeID(ids, productID), nil },
		func(ctx context.Context) (*Wishlist, error) { return s.backend.RemoveFromWishlist(ctx, productID) })
}

func (s *WishlistSession) mutate(ctx context.Context, apply func([]string) ([]string, error), send func(context.Context) (*Wishlist, error)) error {
	if s.Guest() {
		next, err := apply(s.store.Load())
		if err != nil {
			return err
		}
		s.store.Save(next)
		return nil
	}
	return s.state.submit(ctx, apply, func(ctx context.Context) ([]string, error) {
		w, err := send(ctx)
		if err != nil {
			return nil, err
		}
		return w.IDs(), nil
	})
}

func addID(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	for _, existing := range ids {
		if existing == id {
			return append(out, ids...)
		}
	}
	out = append(out, ids...)
	return append(out, id)
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
