package handlers

import (
	"github.com/gofiber/fiber/v2"

	"styleshop/internal/cart"
	"styleshop/internal/middleware"
	"styleshop/internal/services"
)

// CartHandler exposes the caller's cart.
type CartHandler struct {
	service *services.CartService
}

func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart", auth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddItem)
	cartRoutes.Put("/", h.HandleUpdateItem)
	cartRoutes.Delete("/", h.HandleRemoveItem)
}

// CartItemRequest identifies a line by product, size and color.
type CartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	result, err := h.service.Get(c.UserContext(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// HandleAddItem adds a line, merging into an existing line of the same variant.
// A missing quantity means one.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	req := CartItemRequest{Quantity: 1}
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.service.Add(c.UserContext(), who.UserID, cart.Key(req.ProductID, req.Size, req.Color), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// HandleUpdateItem sets a line's quantity; zero removes it.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	var req CartItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.service.Update(c.UserContext(), who.UserID, cart.Key(req.ProductID, req.Size, req.Color), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// HandleRemoveItem removes the line named by ?productId=&size=&color=, or
// empties the cart when no productId is given.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	productID := c.Query("productId")
	if productID == "" {
		result, err := h.service.Clear(c.UserContext(), who.UserID)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
	result, err := h.service.Remove(c.UserContext(), who.UserID, cart.Key(productID, c.Query("size"), c.Query("color")))
	if err != nil {
		return err
	}
	return c.JSON(result)
}
