package handlers

import (
	"github.com/gofiber/fiber/v2"

	"styleshop/internal/middleware"
	"styleshop/internal/models"
	"styleshop/internal/services"
)

type OutfitHandler struct {
	service *services.OutfitService
}

func NewOutfitHandler(service *services.OutfitService) *OutfitHandler {
	return &OutfitHandler{service: service}
}

func (h *OutfitHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	outfitRoutes := router.Group("/outfits", auth)
	outfitRoutes.Get("/", h.HandleListOutfits)
	outfitRoutes.Post("/", h.HandleSaveOutfit)
	outfitRoutes.Delete("/:id", h.HandleDeleteOutfit)
}

type OutfitRequest struct {
	Name          string              `json:"name"`
	MainProductID string              `json:"mainProductId"`
	Items         []models.OutfitItem `json:"items" validate:"required,min=1"`
	StyleAdvice   string              `json:"styleAdvice"`
}

func (h *OutfitHandler) HandleListOutfits(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	outfits, err := h.service.List(c.UserContext(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(outfits)
}

func (h *OutfitHandler) HandleSaveOutfit(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	var req OutfitRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	outfit, err := h.service.Save(c.UserContext(), who.UserID, models.Outfit{
		Name:          req.Name,
		MainProductID: req.MainProductID,
		Items:         req.Items,
		StyleAdvice:   req.StyleAdvice,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(outfit)
}

func (h *OutfitHandler) HandleDeleteOutfit(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), who.UserID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Outfit deleted successfully"})
}
