package repositories

import (
	"context"

	"styleshop/internal/models"
)

// OrderBuilder turns the current cart lines into the order to insert.
// It is called once per attempt inside the placement transaction.
type OrderBuilder func(items []models.CartItem) (*models.Order, error)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// PlaceOrder inserts the order built from the user's cart and empties the
	// cart in one transaction. It returns ErrCartEmpty when there is nothing
	// to order and ErrDuplicate when the order number is taken.
	PlaceOrder(ctx context.Context, userID string, build OrderBuilder) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByNumber(ctx context.Context, number string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}

// CartMutation computes the new items of a cart from the current ones.
type CartMutation func(items []models.CartItem) ([]models.CartItem, error)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	Mutate(ctx context.Context, userID string, fn CartMutation) (*models.Cart, error)
}

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*models.Wishlist, error)
	AddProduct(ctx context.Context, userID, productID string) (*models.Wishlist, error)
	RemoveProduct(ctx context.Context, userID, productID string) (*models.Wishlist, error)
}

// OutfitRepository defines the interface for saved outfit data access.
type OutfitRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Outfit, error)
	Create(ctx context.Context, outfit *models.Outfit) error
	Delete(ctx context.Context, userID, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// PaymentRepository defines the interface for stored payment method data access.
type PaymentRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.PaymentMethod, error)
	// Create stores the method; the first method of a user, or one marked
	// default, becomes the only default.
	Create(ctx context.Context, method *models.PaymentMethod) error
	// Delete removes the method and promotes the newest remaining one when
	// the default was removed.
	Delete(ctx context.Context, userID, id string) error
}
