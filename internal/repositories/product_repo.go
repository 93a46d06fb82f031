package repositories

import (
	"context"

	"styleshop/internal/models"
)

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

// ProductFilter narrows a product listing. IDs, when set, restricts the
// result to those products and keeps their order unless Sort is set.
type ProductFilter struct {
	Category string
	Search   string
	IDs      []string
	Sort     string
	Limit    int
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Random(ctx context.Context, n int) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByName(ctx context.Context, name string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

// CollectionRepository defines the interface for collection data access.
type CollectionRepository interface {
	List(ctx context.Context, featuredOnly bool) ([]models.Collection, error)
	GetBySlug(ctx context.Context, slug string) (*models.Collection, error)
	Upsert(ctx context.Context, collection *models.Collection) error
}
