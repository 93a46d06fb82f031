//go:build integration
// +build integration

package repositories_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"styleshop/internal/database"
	"styleshop/internal/models"
	"styleshop/internal/repositories"
)

// setupPostgres starts a PostgreSQL container and returns a migrated connection.
func setupPostgres(t *testing.T) *gorm.DB {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("styleshop"),
		postgres.WithUsername("styleshop"),
		postgres.WithPassword("styleshop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open("postgres", dsn, nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestPostgres_PlaceOrderIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := setupPostgres(t)
	carts := repositories.NewGORMCartRepository(db)
	orders := repositories.NewGORMOrderRepository(db)

	_, err := carts.Mutate(ctx, "user-1", replaceWith([]models.CartItem{{ProductID: "p1", Name: "Tee", Price: 500, Size: "M", Color: "Red", Quantity: 2}}))
	require.NoError(t, err)

	order, err := orders.PlaceOrder(ctx, "user-1", orderFrom("ORD-20260101-AAAAAAAA"))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, order.Total)

	c, err := carts.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	_, err = carts.Mutate(ctx, "user-2", replaceWith([]models.CartItem{{ProductID: "p1", Name: "Tee", Price: 500, Quantity: 1}}))
	require.NoError(t, err)
	_, err = orders.PlaceOrder(ctx, "user-2", orderFrom("ORD-20260101-AAAAAAAA"))
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	c, err = carts.GetOrCreate(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

func TestPostgres_ConcurrentCheckoutPlacesOneOrder(t *testing.T) {
	ctx := context.Background()
	db := setupPostgres(t)
	carts := repositories.NewGORMCartRepository(db)
	orders := repositories.NewGORMOrderRepository(db)

	_, err := carts.Mutate(ctx, "user-1", replaceWith([]models.CartItem{{ProductID: "p1", Name: "Tee", Price: 10, Quantity: 1}}))
	require.NoError(t, err)

	var wg sync.WaitGroup
	numbers := []string{"ORD-20260101-BBBBBBB1", "ORD-20260101-BBBBBBB2"}
	for _, n := range numbers {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			_, _ = orders.PlaceOrder(ctx, "user-1", orderFrom(n))
		}(n)
	}
	wg.Wait()

	placed, err := orders.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, placed, 1)

	c, err := carts.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestPostgres_ConcurrentFirstCartUse(t *testing.T) {
	ctx := context.Background()
	db := setupPostgres(t)
	carts := repositories.NewGORMCartRepository(db)
	wishlists := repositories.NewGORMWishlistRepository(db)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := carts.Mutate(ctx, "user-1", func(items []models.CartItem) ([]models.CartItem, error) {
				return items, nil
			})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := wishlists.AddProduct(ctx, "user-1", "p1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	var count int64
	db.Model(&models.Cart{}).Where("user_id = ?", "user-1").Count(&count)
	assert.Equal(t, int64(1), count)
	w, err := wishlists.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, w.ProductIDs)
}
