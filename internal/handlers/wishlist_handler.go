package handlers

import (
	"github.com/gofiber/fiber/v2"

	"styleshop/internal/middleware"
	"styleshop/internal/services"
)

type WishlistHandler struct {
	service *services.WishlistService
}

func NewWishlistHandler(service *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{service: service}
}

func (h *WishlistHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	wishlistRoutes := router.Group("/wishlist", auth)
	wishlistRoutes.Get("/", h.HandleGetWishlist)
	wishlistRoutes.Post("/", h.HandleAddToWishlist)
	wishlistRoutes.Delete("/:productId", h.HandleRemoveFromWishlist)
}

type WishlistRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

func (h *WishlistHandler) HandleGetWishlist(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	view, err := h.service.Get(c.UserContext(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// HandleAddToWishlist is idempotent.
func (h *WishlistHandler) HandleAddToWishlist(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	var req WishlistRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	view, err := h.service.Add(c.UserContext(), who.UserID, req.ProductID)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

func (h *WishlistHandler) HandleRemoveFromWishlist(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	view, err := h.service.Remove(c.UserContext(), who.UserID, c.Params("productId"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}
