// Package app assembles the HTTP API.
package app

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"styleshop/internal/apperror"
	"styleshop/internal/handlers"
	"styleshop/internal/middleware"
	"styleshop/internal/services"
	"styleshop/internal/stylist"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Log *logrus.Logger

	Auth      *services.AuthService
	Accounts  *services.AccountService
	Products  *services.ProductService
	Carts     *services.CartService
	Wishlists *services.WishlistService
	Orders    *services.OrderService
	Payments  *services.PaymentService
	Outfits   *services.OutfitService
	Exports   *services.ExportService

	Recommender *stylist.Recommender
	Catalog     *stylist.CatalogRecommender
	Looks       *stylist.LookClient

	// Redis backs the rate limiter; nil disables limiting.
	Redis           *redis.Client
	RateLimitMax    int
	RateLimitWindow time.Duration

	AdminAPIKey string
}

// New builds the Fiber app with every route under /api.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "styleshop",
		ErrorHandler: apperror.Handler(d.Log),
		BodyLimit:    4 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		Output: d.Log.Writer(),
	}))
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	auth := middleware.AuthRequired(d.Auth)
	limitByIP := middleware.RateLimit(d.Redis, d.RateLimitMax, d.RateLimitWindow, middleware.KeyByIPAndPath(), d.Log)
	limitByUser := middleware.RateLimit(d.Redis, d.RateLimitMax, d.RateLimitWindow, middleware.KeyByUserOrIP(), d.Log)

	api := app.Group("/api")
	handlers.NewAuthHandler(d.Auth).RegisterRoutes(api, limitByIP)
	handlers.NewProductHandler(d.Products).RegisterRoutes(api)
	handlers.NewCartHandler(d.Carts).RegisterRoutes(api, auth)
	handlers.NewOrderHandler(d.Orders).RegisterRoutes(api, auth)
	handlers.NewWishlistHandler(d.Wishlists).RegisterRoutes(api, auth)
	handlers.NewUserHandler(d.Accounts, d.Payments).RegisterRoutes(api, auth)
	handlers.NewOutfitHandler(d.Outfits).RegisterRoutes(api, auth)
	handlers.NewStylistHandler(d.Recommender, d.Catalog, d.Looks, d.Products).RegisterRoutes(api, auth, limitByUser)
	handlers.NewAdminHandler(d.Products, d.Orders, d.Exports).RegisterRoutes(api, middleware.AdminAPIKey(d.AdminAPIKey))

	return app
}
