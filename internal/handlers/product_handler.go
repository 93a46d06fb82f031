package handlers

import (
	"github.com/gofiber/fiber/v2"

	"styleshop/internal/repositories"
	"styleshop/internal/services"
)

// ProductHandler serves the public catalog.
type ProductHandler struct {
	service *services.ProductService
}

func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/random", h.HandleRandomProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)

	collectionRoutes := router.Group("/collections")
	collectionRoutes.Get("/", h.HandleListCollections)
	collectionRoutes.Get("/:slug", h.HandleGetCollection)
}

// HandleListProducts supports ?category=, ?search=, ?sort= and ?limit=.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Limit:    c.QueryInt("limit", 0),
	}
	products, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *ProductHandler) HandleRandomProducts(c *fiber.Ctx) error {
	products, err := h.service.Random(c.UserContext(), c.QueryInt("count", 0))
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

func (h *ProductHandler) HandleListCollections(c *fiber.Ctx) error {
	collections, err := h.service.ListCollections(c.UserContext(), c.QueryBool("featured", false))
	if err != nil {
		return err
	}
	return c.JSON(collections)
}

func (h *ProductHandler) HandleGetCollection(c *fiber.Ctx) error {
	collection, err := h.service.GetCollection(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(collection)
}
