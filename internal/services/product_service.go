package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"styleshop/internal/apperror"
	"styleshop/internal/models"
	"styleshop/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultRandomCount = 4
	maxRandomCount     = 20
	maxListLimit       = 100
	searchWindow       = 100
)

// ProductIndex is a full-text index over the catalog.
type ProductIndex interface {
	Index(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	// Search returns matching product ids, best match first.
	Search(ctx context.Context, query string, size int) ([]string, error)
}

// ProductCache keeps single products close to the API. Failures are the
// cache's own business; callers treat a miss and an error alike.
type ProductCache interface {
	Get(ctx context.Context, id string) (*models.Product, bool)
	Set(ctx context.Context, product *models.Product)
	Evict(ctx context.Context, id string)
}

// ProductService handles business logic related to products and collections.
type ProductService struct {
	repo        repositories.ProductRepository
	collections repositories.CollectionRepository
	index       ProductIndex
	cache       ProductCache
	validate    *validator.Validate
	log         logrus.FieldLogger
}

// NewProductService creates a new ProductService. index and cache may be nil.
func NewProductService(repo repositories.ProductRepository, collections repositories.CollectionRepository, index ProductIndex, cache ProductCache, log logrus.FieldLogger) *ProductService {
	return &ProductService{
		repo:        repo,
		collections: collections,
		index:       index,
		cache:       cache,
		validate:    validator.New(),
		log:         log,
	}
}

// List returns the catalog narrowed by filter. Searches go to the index when
// one is configured and fall back to the database when it fails.
func (s *ProductService) List(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	if filter.Limit < 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	switch filter.Sort {
	case "", repositories.SortPriceAsc, repositories.SortPriceDesc, repositories.SortNewest:
	default:
		return nil, apperror.Validation("sort must be one of price_asc, price_desc, newest")
	}

	if q := strings.TrimSpace(filter.Search); q != "" && s.index != nil {
		ids, err := s.index.Search(ctx, q, searchWindow)
		if err == nil {
			if ids == nil {
				ids = []string{}
			}
			filter.IDs = ids
			filter.Search = ""
		} else {
			s.log.WithError(err).Warn("product search index unavailable, using database search")
		}
	}

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("failed to list products", err)
	}
	return products, nil
}

// Random returns up to n random products; n defaults to 4 and is capped at 20.
func (s *ProductService) Random(ctx context.Context, n int) ([]models.Product, error) {
	if n <= 0 {
		n = defaultRandomCount
	}
	if n > maxRandomCount {
		n = maxRandomCount
	}
	products, err := s.repo.Random(ctx, n)
	if err != nil {
		return nil, apperror.Internal("failed to sample products", err)
	}
	return products, nil
}

// Get returns a single product, from the cache when possible.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	if s.cache != nil {
		if p, ok := s.cache.Get(ctx, id); ok {
			return p, nil
		}
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Product not found")
		}
		return nil, apperror.Internal("failed to load product", err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, p)
	}
	return p, nil
}

func (s *ProductService) check(p *models.Product) error {
	if err := s.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperror.Validation(fmt.Sprintf("%s failed on the '%s' rule", verrs[0].Field(), verrs[0].Tag()))
		}
		return apperror.Validation(err.Error())
	}
	if !models.ValidCategory(p.Category) {
		return apperror.Validation(fmt.Sprintf("unknown category %q", p.Category))
	}
	return nil
}

// Create adds a product to the catalog and the search index.
func (s *ProductService) Create(ctx context.Context, p *models.Product) error {
	if err := s.check(p); err != nil {
		return err
	}
	p.ID = uuid.New().String()
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return apperror.Internal("failed to create product", err)
	}
	s.reindex(ctx, p)
	return nil
}

// Update replaces the product with the given id.
func (s *ProductService) Update(ctx context.Context, id string, p *models.Product) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("Product not found")
		}
		return apperror.Internal("failed to load product", err)
	}
	if err := s.check(p); err != nil {
		return err
	}
	p.ID = id
	p.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("Product not found")
		}
		return apperror.Internal("failed to update product", err)
	}
	if s.cache != nil {
		s.cache.Evict(ctx, id)
	}
	s.reindex(ctx, p)
	return nil
}

// Delete removes a product from the catalog, the index and the cache.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFound("Product not found")
		}
		return apperror.Internal("failed to delete product", err)
	}
	if s.cache != nil {
		s.cache.Evict(ctx, id)
	}
	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			s.log.WithError(err).WithField("product_id", id).Warn("failed to remove product from index")
		}
	}
	return nil
}

func (s *ProductService) reindex(ctx context.Context, p *models.Product) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, p); err != nil {
		s.log.WithError(err).WithField("product_id", p.ID).Warn("failed to index product")
	}
}

func (s *ProductService) ListCollections(ctx context.Context, featuredOnly bool) ([]models.Collection, error) {
	cols, err := s.collections.List(ctx, featuredOnly)
	if err != nil {
		return nil, apperror.Internal("failed to list collections", err)
	}
	return cols, nil
}

func (s *ProductService) GetCollection(ctx context.Context, slug string) (*models.Collection, error) {
	col, err := s.collections.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFound("Collection not found")
		}
		return nil, apperror.Internal("failed to load collection", err)
	}
	return col, nil
}

// SeedResult counts what Seed wrote.
type SeedResult struct {
	ProductsCreated    int
	ProductsSkipped    int
	CollectionsWritten int
}

// Seed inserts products that do not exist yet (by name) and upserts
// collections by slug. Running it twice changes nothing the second time.
func (s *ProductService) Seed(ctx context.Context, products []models.Product, collections []models.Collection) (SeedResult, error) {
	var res SeedResult
	for i := range products {
		p := products[i]
		_, err := s.repo.GetByName(ctx, p.Name)
		if err == nil {
			res.ProductsSkipped++
			continue
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return res, fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		if err := s.Create(ctx, &p); err != nil {
			return res, fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		res.ProductsCreated++
	}
	for i := range collections {
		c := collections[i]
		if err := s.collections.Upsert(ctx, &c); err != nil {
			return res, fmt.Errorf("seed collection %q: %w", c.Slug, err)
		}
		res.CollectionsWritten++
	}
	s.log.WithFields(logrus.Fields{
		"products_created":    res.ProductsCreated,
		"products_skipped":    res.ProductsSkipped,
		"collections_written": res.CollectionsWritten,
	}).Info("catalog seeded")
	return res, nil
}
