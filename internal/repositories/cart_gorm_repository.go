package repositories

import (
	"context"
	"fmt"

	"styleshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// GetOrCreate returns the user's cart, creating an empty one on first use.
func (r *GORMCartRepository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	return getOrCreateCart(r.db.WithContext(ctx), userID)
}

// Mutate applies fn to the cart items inside a transaction and saves the
// result. An error from fn aborts without writing.
func (r *GORMCartRepository) Mutate(ctx context.Context, userID string, fn CartMutation) (*models.Cart, error) {
	var saved *models.Cart
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}
		items, err := fn(c.Items)
		if err != nil {
			return err
		}
		if items == nil {
			items = []models.CartItem{}
		}
		c.Items = items
		if err := tx.Save(c).Error; err != nil {
			return fmt.Errorf("failed to save cart of user %s: %w", userID, err)
		}
		saved = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// getOrCreateCart inserts with ON CONFLICT DO NOTHING so a concurrent first
// use never fails a statement; on Postgres that would abort the caller's transaction.
func getOrCreateCart(db *gorm.DB, userID string) (*models.Cart, error) {
	fresh := models.Cart{ID: uuid.New().String(), UserID: userID, Items: []models.CartItem{}}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart for user %s: %w", userID, err)
	}

	var c models.Cart
	if err := db.First(&c, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart of user %s: %w", userID, err)
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return &c, nil
}

// GORMWishlistRepository is a GORM implementation of WishlistRepository.
type GORMWishlistRepository struct {
	db *gorm.DB
}

// NewGORMWishlistRepository creates a new instance of GORMWishlistRepository.
func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{db: db}
}

func (r *GORMWishlistRepository) GetOrCreate(ctx context.Context, userID string) (*models.Wishlist, error) {
	return getOrCreateWishlist(r.db.WithContext(ctx), userID)
}

// AddProduct adds productID once; adding it again leaves the set unchanged.
func (r *GORMWishlistRepository) AddProduct(ctx context.Context, userID, productID string) (*models.Wishlist, error) {
	return r.mutate(ctx, userID, func(w *models.Wishlist) bool {
		if w.Contains(productID) {
			return false
		}
		w.ProductIDs = append(w.ProductIDs, productID)
		return true
	})
}

// RemoveProduct drops productID from the set.
func (r *GORMWishlistRepository) RemoveProduct(ctx context.Context, userID, productID string) (*models.Wishlist, error) {
	return r.mutate(ctx, userID, func(w *models.Wishlist) bool {
		kept := w.ProductIDs[:0:0]
		for _, id := range w.ProductIDs {
			if id != productID {
				kept = append(kept, id)
			}
		}
		changed := len(kept) != len(w.ProductIDs)
		w.ProductIDs = kept
		return changed
	})
}

func (r *GORMWishlistRepository) mutate(ctx context.Context, userID string, fn func(*models.Wishlist) bool) (*models.Wishlist, error) {
	var out *models.Wishlist
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := getOrCreateWishlist(tx, userID)
		if err != nil {
			return err
		}
		if fn(w) {
			if err := tx.Save(w).Error; err != nil {
				return fmt.Errorf("failed to save wishlist of user %s: %w", userID, err)
			}
		}
		out = w
		return nil
	})
	return out, err
}

func getOrCreateWishlist(db *gorm.DB, userID string) (*models.Wishlist, error) {
	fresh := models.Wishlist{ID: uuid.New().String(), UserID: userID, ProductIDs: []string{}}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, fmt.Errorf("failed to create wishlist for user %s: %w", userID, err)
	}

	var w models.Wishlist
	if err := db.First(&w, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get wishlist of user %s: %w", userID, err)
	}
	if w.ProductIDs == nil {
		w.ProductIDs = []string{}
	}
	return &w, nil
}
