package services

import (
	"context"
	"errors"

	"styleshop/internal/apperror"
	"styleshop/internal/models"
	"styleshop/internal/repositories"
)

// WishlistView is a wishlist with its products resolved.
type WishlistView struct {
	ID       string           `json:"id"`
	UserID   string           `json:"userId"`
	Products []models.Product `json:"products"`
}

type WishlistService struct {
	wishlists repositories.WishlistRepository
	products  repositories.ProductRepository
}

func NewWishlistService(wishlists repositories.WishlistRepository, products repositories.ProductRepository) *WishlistService {
	return &WishlistService{wishlists: wishlists, products: products}
}

// Get returns the wishlist in insertion order. Products that left the
// catalog are skipped.
func (s *WishlistService) Get(ctx context.Context, userID string) (*WishlistView, error) {
	w, err := s.wishlists.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("failed to load wishlist", err)
	}
	return s.view(ctx, w)
}

// Add saves the product; adding it twice is a no-op.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) (*WishlistView, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Product not found")
		}
		return nil, apperror.Internal("failed to load product", err)
	}
	w, err := s.wishlists.AddProduct(ctx, userID, productID)
	if err != nil {
		return nil, apperror.Internal("failed to update wishlist", err)
	}
	return s.view(ctx, w)
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID string) (*WishlistView, error) {
	w, err := s.wishlists.RemoveProduct(ctx, userID, productID)
	if err != nil {
		return nil, apperror.Internal("failed to update wishlist", err)
	}
	return s.view(ctx, w)
}

func (s *WishlistService) view(ctx context.Context, w *models.Wishlist) (*WishlistView, error) {
	ids := w.ProductIDs
	if ids == nil {
		ids = []string{}
	}
	products, err := s.products.List(ctx, repositories.ProductFilter{IDs: ids})
	if err != nil {
		return nil, apperror.Internal("failed to load wishlist products", err)
	}
	return &WishlistView{ID: w.ID, UserID: w.UserID, Products: products}, nil
}
