package services

import (
	"context"
	"errors"

	"styleshop/internal/apperror"
	"styleshop/internal/cart"
	"styleshop/internal/models"
	"styleshop/internal/repositories"

	"github.com/sirupsen/logrus"
)

// CartService keeps the persisted cart of signed-in users.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
	log      logrus.FieldLogger
}

func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository, log logrus.FieldLogger) *CartService {
	return &CartService{carts: carts, products: products, log: log}
}

// Get returns the user's cart, creating it on first use.
func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	c, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("failed to load cart", err)
	}
	return c, nil
}

// Add merges quantity units of the product variant into the cart. Name,
// price and image are taken from the catalog.
func (s *CartService) Add(ctx context.Context, userID string, key cart.LineKey, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apperror.Validation("Quantity must be at least 1")
	}
	p, err := s.products.GetByID(ctx, key.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Product not found")
		}
		return nil, apperror.Internal("failed to load product", err)
	}

	item := models.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.PrimaryImage(),
		Size:      key.Size,
		Color:     key.Color,
		Quantity:  quantity,
	}
	return s.mutate(ctx, userID, func(lines cart.Lines) (cart.Lines, error) {
		return lines.Add(item)
	})
}

// Update sets the quantity of a line; zero removes it.
func (s *CartService) Update(ctx context.Context, userID string, key cart.LineKey, quantity int) (*models.Cart, error) {
	return s.mutate(ctx, userID, func(lines cart.Lines) (cart.Lines, error) {
		return lines.SetQuantity(key, quantity)
	})
}

func (s *CartService) Remove(ctx context.Context, userID string, key cart.LineKey) (*models.Cart, error) {
	return s.mutate(ctx, userID, func(lines cart.Lines) (cart.Lines, error) {
		return lines.Remove(key)
	})
}

func (s *CartService) Clear(ctx context.Context, userID string) (*models.Cart, error) {
	return s.mutate(ctx, userID, func(lines cart.Lines) (cart.Lines, error) {
		return lines.Clear(), nil
	})
}

func (s *CartService) mutate(ctx context.Context, userID string, fn func(cart.Lines) (cart.Lines, error)) (*models.Cart, error) {
	c, err := s.carts.Mutate(ctx, userID, func(items []models.CartItem) ([]models.CartItem, error) {
		next, err := fn(cart.Lines(items))
		if err != nil {
			return nil, err
		}
		return []models.CartItem(next), nil
	})
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, cart.ErrInvalidQuantity):
		return nil, apperror.Validation("Quantity cannot be negative")
	case errors.Is(err, cart.ErrLineNotFound):
		return nil, apperror.NotFound("Item not in cart")
	default:
		return nil, apperror.Internal("failed to update cart", err)
	}
}
