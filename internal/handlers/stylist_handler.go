package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"styleshop/internal/apperror"
	"styleshop/internal/middleware"
	"styleshop/internal/services"
	"styleshop/internal/stylist"
)

// StylistHandler serves AI outfit recommendations and try-on looks.
type StylistHandler struct {
	recommender *stylist.Recommender
	catalog     *stylist.CatalogRecommender
	looks       *stylist.LookClient
	products    *services.ProductService
}

func NewStylistHandler(recommender *stylist.Recommender, catalog *stylist.CatalogRecommender, looks *stylist.LookClient, products *services.ProductService) *StylistHandler {
	return &StylistHandler{recommender: recommender, catalog: catalog, looks: looks, products: products}
}

func (h *StylistHandler) RegisterRoutes(router fiber.Router, auth, limit fiber.Handler) {
	router.Post("/recommend", limit, h.HandleRecommend)
	router.Post("/recommend/catalog", limit, h.HandleCatalogRecommend)
	router.Post("/generate-look", auth, limit, h.HandleGenerateLook)
}

// RecommendRequest takes either a product descriptor or a catalog product id.
type RecommendRequest struct {
	Product   *stylist.Product `json:"product"`
	ProductID string           `json:"productId"`
	Occasion  string           `json:"occasion"`
	Gender    string           `json:"gender"`
}

func (h *StylistHandler) HandleRecommend(c *fiber.Ctx) error {
	req, err := h.recommendRequest(c)
	if err != nil {
		return err
	}
	return c.JSON(h.recommender.Recommend(c.UserContext(), req))
}

// HandleCatalogRecommend completes the outfit with products from the catalog.
func (h *StylistHandler) HandleCatalogRecommend(c *fiber.Ctx) error {
	req, err := h.recommendRequest(c)
	if err != nil {
		return err
	}
	rec, err := h.catalog.Recommend(c.UserContext(), req)
	if err != nil {
		return apperror.Internal("failed to build catalog outfit", err)
	}
	return c.JSON(rec)
}

func (h *StylistHandler) recommendRequest(c *fiber.Ctx) (stylist.Request, error) {
	var req RecommendRequest
	if err := bind(c, &req); err != nil {
		return stylist.Request{}, err
	}

	var product stylist.Product
	switch {
	case req.Product != nil && strings.TrimSpace(req.Product.Name) != "":
		product = *req.Product
		// only catalog images are fetched server-side
		product.ImageURL = ""
	case req.ProductID != "":
		p, err := h.products.Get(c.UserContext(), req.ProductID)
		if err != nil {
			return stylist.Request{}, err
		}
		product = stylist.Product{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
		}
	default:
		return stylist.Request{}, apperror.Validation("Product information is required")
	}
	return stylist.Request{Product: product, Occasion: req.Occasion, Gender: req.Gender}, nil
}

type GenerateLookRequest struct {
	MainProductID string             `json:"mainProductId"`
	Items         []stylist.LookItem `json:"items"`
}

// HandleGenerateLook forwards the chosen items to the look backend.
func (h *StylistHandler) HandleGenerateLook(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	var req GenerateLookRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if len(req.Items) == 0 {
		return apperror.Validation("Invalid data: items required")
	}

	imageURL, err := h.looks.Generate(c.UserContext(), stylist.LookRequest{
		UserID:        who.UserID,
		MainProductID: req.MainProductID,
		Items:         req.Items,
	})
	if err != nil {
		return apperror.Upstream("look generation failed", err)
	}
	return c.JSON(fiber.Map{"imageUrl": imageURL})
}
