package repositories

import (
	"context"
	"fmt"
	"strings"

	"styleshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves products matching filter.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return []models.Product{}, nil
		}
		q = q.Where("id IN ?", filter.IDs)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?)", like, like, like)
	}
	switch filter.Sort {
	case SortPriceAsc:
		q = q.Order("price ASC")
	case SortPriceDesc:
		q = q.Order("price DESC")
	case SortNewest:
		q = q.Order("created_at DESC")
	default:
		q = q.Order("created_at ASC")
	}
	if filter.Limit > 0 && filter.IDs == nil {
		q = q.Limit(filter.Limit)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if filter.IDs != nil && filter.Sort == "" {
		products = orderByIDs(products, filter.IDs)
	}
	if filter.Limit > 0 && len(products) > filter.Limit {
		products = products[:filter.Limit]
	}
	return products, nil
}

// Random retrieves up to n products in random order.
func (r *GORMProductRepository) Random(ctx context.Context, n int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.OrderBy{Expression: clause.Expr{SQL: "RANDOM()"}}).
		Limit(n).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sample products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetByName retrieves a product by its exact name.
func (r *GORMProductRepository) GetByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "name = ?", name).Error; err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("product named %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by name: %w", err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(&models.Product{ID: product.ID}).
		Select("*").Omit("id", "created_at").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

func orderByIDs(products []models.Product, ids []string) []models.Product {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
			delete(byID, id)
		}
	}
	return out
}

// GORMCollectionRepository is a GORM implementation of CollectionRepository.
type GORMCollectionRepository struct {
	db *gorm.DB
}

// NewGORMCollectionRepository creates a new instance of GORMCollectionRepository.
func NewGORMCollectionRepository(db *gorm.DB) *GORMCollectionRepository {
	return &GORMCollectionRepository{db: db}
}

func (r *GORMCollectionRepository) List(ctx context.Context, featuredOnly bool) ([]models.Collection, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if featuredOnly {
		q = q.Where("featured = ?", true)
	}
	var collections []models.Collection
	if err := q.Find(&collections).Error; err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return collections, nil
}

func (r *GORMCollectionRepository) GetBySlug(ctx context.Context, slug string) (*models.Collection, error) {
	var c models.Collection
	if err := r.db.WithContext(ctx).First(&c, "slug = ?", slug).Error; err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("collection %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get collection %s: %w", slug, err)
	}
	return &c, nil
}

// Upsert inserts the collection or updates the one with the same slug.
func (r *GORMCollectionRepository) Upsert(ctx context.Context, c *models.Collection) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "image_url", "featured"}),
	}).Create(c).Error
	if err != nil {
		return fmt.Errorf("failed to upsert collection %s: %w", c.Slug, err)
	}
	return nil
}
