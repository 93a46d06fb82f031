package services_test

import (
	"context"
	"errors"
	"testing"

	"styleshop/internal/apperror"
	"styleshop/internal/logging"
	"styleshop/internal/models"
	"styleshop/internal/repositories"
	"styleshop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductService(repo *MockProductRepository, cols *MockCollectionRepository, index services.ProductIndex, cache services.ProductCache) *services.ProductService {
	return services.NewProductService(repo, cols, index, cache, logging.Discard())
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, new(MockCollectionRepository), nil, nil)

	expectedProducts := []models.Product{
		{ID: "1", Name: "Product A", Price: 10.0, Stock: 100},
		{ID: "2", Name: "Product B", Price: 20.0, Stock: 50},
	}
	filter := repositories.ProductFilter{Category: "Tops", Search: "shirt", Sort: repositories.SortPriceAsc, Limit: 10}
	mockRepo.On("List", ctx, filter).Return(expectedProducts, nil).Once()

	products, err := service.List(ctx, filter)
	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)

	_, err = service.List(ctx, repositories.ProductFilter{Sort: "cheapest"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestProductService_ListUsesSearchIndex(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	index := new(MockIndex)
	service := newProductService(mockRepo, new(MockCollectionRepository), index, nil)

	index.On("Search", ctx, "linen", 100).Return([]string{"p2", "p1"}, nil).Once()
	mockRepo.On("List", ctx, repositories.ProductFilter{IDs: []string{"p2", "p1"}}).
		Return([]models.Product{{ID: "p2"}, {ID: "p1"}}, nil).Once()

	products, err := service.List(ctx, repositories.ProductFilter{Search: "linen"})
	require.NoError(t, err)
	assert.Equal(t, "p2", products[0].ID)

	// no hits must not turn into an unrestricted listing
	index.On("Search", ctx, "nothing", 100).Return(nil, nil).Once()
	mockRepo.On("List", ctx, repositories.ProductFilter{IDs: []string{}}).Return([]models.Product{}, nil).Once()
	products, err = service.List(ctx, repositories.ProductFilter{Search: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, products)

	// index failure falls back to the database search
	index.On("Search", ctx, "silk", 100).Return(nil, errors.New("connection refused")).Once()
	mockRepo.On("List", ctx, repositories.ProductFilter{Search: "silk"}).Return([]models.Product{{ID: "p3"}}, nil).Once()
	products, err = service.List(ctx, repositories.ProductFilter{Search: "silk"})
	require.NoError(t, err)
	assert.Len(t, products, 1)

	index.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Random(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, new(MockCollectionRepository), nil, nil)

	mockRepo.On("Random", ctx, 4).Return([]models.Product{}, nil).Once()
	mockRepo.On("Random", ctx, 20).Return([]models.Product{}, nil).Once()
	mockRepo.On("Random", ctx, 7).Return([]models.Product{}, nil).Once()

	_, err := service.Random(ctx, 0)
	assert.NoError(t, err)
	_, err = service.Random(ctx, 500)
	assert.NoError(t, err)
	_, err = service.Random(ctx, 7)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Get(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	cache := new(MockCache)
	service := newProductService(mockRepo, new(MockCollectionRepository), nil, cache)

	expectedProduct := &models.Product{ID: "1", Name: "Product A", Price: 10.0, Stock: 100}

	// cache miss loads and fills the cache
	cache.On("Get", ctx, "1").Return(nil, false).Once()
	mockRepo.On("GetByID", ctx, "1").Return(expectedProduct, nil).Once()
	cache.On("Set", ctx, expectedProduct).Once()
	product, err := service.Get(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	// cache hit skips the repository
	cache.On("Get", ctx, "1").Return(expectedProduct, true).Once()
	product, err = service.Get(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertNumberOfCalls(t, "GetByID", 1)

	// product not found
	cache.On("Get", ctx, "99").Return(nil, false).Once()
	mockRepo.On("GetByID", ctx, "99").Return(nil, notFoundErr("product")).Once()
	_, err = service.Get(ctx, "99")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	cache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	index := new(MockIndex)
	service := newProductService(mockRepo, new(MockCollectionRepository), index, nil)

	newProduct := &models.Product{Name: "Linen Shirt", Price: 1299, Category: "Tops"}
	mockRepo.On("Create", ctx, newProduct).Return(nil).Once()
	index.On("Index", ctx, newProduct).Return(errors.New("index down")).Once()

	err := service.Create(ctx, newProduct)
	assert.NoError(t, err, "indexing failures do not fail the write")
	assert.NotEmpty(t, newProduct.ID)
	assert.NotNil(t, newProduct.Tags)

	err = service.Create(ctx, &models.Product{Name: "Mystery", Price: 10, Category: "Gadgets"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	err = service.Create(ctx, &models.Product{Name: "Free", Price: 0, Category: "Tops"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	mockRepo.AssertExpectations(t)
	index.AssertExpectations(t)
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	cache := new(MockCache)
	service := newProductService(mockRepo, new(MockCollectionRepository), nil, cache)

	existing := &models.Product{ID: "1", Name: "Old", Price: 10, Category: "Tops"}
	updated := &models.Product{Name: "New", Price: 20, Category: "Tops"}

	mockRepo.On("GetByID", ctx, "1").Return(existing, nil).Once()
	mockRepo.On("Update", ctx, updated).Return(nil).Once()
	cache.On("Evict", ctx, "1").Once()

	err := service.Update(ctx, "1", updated)
	assert.NoError(t, err)
	assert.Equal(t, "1", updated.ID)

	mockRepo.On("GetByID", ctx, "99").Return(nil, notFoundErr("product")).Once()
	err = service.Update(ctx, "99", &models.Product{Name: "X", Price: 1, Category: "Tops"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	mockRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	index := new(MockIndex)
	cache := new(MockCache)
	service := newProductService(mockRepo, new(MockCollectionRepository), index, cache)

	mockRepo.On("Delete", ctx, "1").Return(nil).Once()
	cache.On("Evict", ctx, "1").Once()
	index.On("Delete", ctx, "1").Return(nil).Once()
	assert.NoError(t, service.Delete(ctx, "1"))

	mockRepo.On("Delete", ctx, "99").Return(notFoundErr("product")).Once()
	err := service.Delete(ctx, "99")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	mockRepo.AssertExpectations(t)
	index.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestProductService_Collections(t *testing.T) {
	ctx := context.Background()
	cols := new(MockCollectionRepository)
	service := newProductService(new(MockProductRepository), cols, nil, nil)

	cols.On("List", ctx, true).Return([]models.Collection{{Slug: "casual-wear"}}, nil).Once()
	list, err := service.ListCollections(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	cols.On("GetBySlug", ctx, "nope").Return(nil, notFoundErr("collection")).Once()
	_, err = service.GetCollection(ctx, "nope")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	cols.AssertExpectations(t)
}

func TestProductService_SeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	cols := new(MockCollectionRepository)
	service := newProductService(mockRepo, cols, nil, nil)

	products := []models.Product{
		{Name: "Existing", Price: 10, Category: "Tops"},
		{Name: "Fresh", Price: 20, Category: "Bottoms"},
	}
	collections := []models.Collection{{Name: "Casual Wear", Slug: "casual-wear"}}

	mockRepo.On("GetByName", ctx, "Existing").Return(&models.Product{ID: "p1"}, nil).Once()
	mockRepo.On("GetByName", ctx, "Fresh").Return(nil, notFoundErr("product")).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Product) bool { return p.Name == "Fresh" })).Return(nil).Once()
	cols.On("Upsert", ctx, mock.AnythingOfType("*models.Collection")).Return(nil).Once()

	res, err := service.Seed(ctx, products, collections)
	require.NoError(t, err)
	assert.Equal(t, services.SeedResult{ProductsCreated: 1, ProductsSkipped: 1, CollectionsWritten: 1}, res)
	mockRepo.AssertExpectations(t)
	cols.AssertExpectations(t)
}

func TestDefaultCatalogIsValid(t *testing.T) {
	for _, p := range services.DefaultProducts() {
		assert.True(t, models.ValidCategory(p.Category), p.Name)
		assert.Greater(t, p.Price, 0.0, p.Name)
	}
	slugs := map[string]bool{}
	for _, c := range services.DefaultCollections() {
		assert.False(t, slugs[c.Slug], "duplicate slug %s", c.Slug)
		slugs[c.Slug] = true
	}
}
