package models

import "time"

// CartItem is one line of a cart. Name, price and image are copied from the product when added.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
}

// Cart is the single persisted cart of a user.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"userId" gorm:"uniqueIndex;type:varchar(36);not null"`
	Items     []CartItem `json:"items" gorm:"serializer:json;type:text"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Wishlist is the set of products a user saved for later.
type Wishlist struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `json:"userId" gorm:"uniqueIndex;type:varchar(36);not null"`
	ProductIDs []string  `json:"products" gorm:"column:products;serializer:json;type:text"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Contains reports whether productID is in the wishlist.
func (w *Wishlist) Contains(productID string) bool {
	for _, id := range w.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
