package handlers

import (
	"github.com/gofiber/fiber/v2"

	"styleshop/internal/checkout"
	"styleshop/internal/middleware"
	"styleshop/internal/models"
	"styleshop/internal/services"
)

// OrderHandler handles HTTP requests for checkout and orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers the checkout and order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/checkout", auth, h.HandleCheckout)

	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Get("/user", h.HandleGetUserOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

// CheckoutRequest is the body of POST /checkout.
type CheckoutRequest struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required"`
}

// HandleCheckout places an order from the caller's cart.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	var req CheckoutRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.service.Checkout(c.UserContext(), who, req.ShippingAddress, checkout.PaymentOption(req.PaymentMethod))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetUserOrders lists the caller's orders, newest first.
func (h *OrderHandler) HandleGetUserOrders(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListForUser(c.UserContext(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// HandleGetOrder accepts either the order id or its order number.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	order, err := h.service.Get(c.UserContext(), who.UserID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(order)
}

func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	order, err := h.service.Cancel(c.UserContext(), who.UserID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(order)
}
