package handlers

import (
	"github.com/gofiber/fiber/v2"

	"styleshop/internal/apperror"
	"styleshop/internal/middleware"
	"styleshop/internal/services"
)

// UserHandler serves account management and stored payment methods.
type UserHandler struct {
	accounts *services.AccountService
	payments *services.PaymentService
}

func NewUserHandler(accounts *services.AccountService, payments *services.PaymentService) *UserHandler {
	return &UserHandler{accounts: accounts, payments: payments}
}

func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/user", auth)
	userRoutes.Get("/profile", h.HandleGetProfile)
	userRoutes.Put("/profile", h.HandleUpdateProfile)
	userRoutes.Put("/change-password", h.HandleChangePassword)
	userRoutes.Delete("/delete", h.HandleDeleteAccount)

	userRoutes.Get("/payments", h.HandleListPayments)
	userRoutes.Post("/payments", h.HandleAddPayment)
	userRoutes.Delete("/payments", h.HandleDeletePayment)
	userRoutes.Delete("/payments/:id", h.HandleDeletePayment)
}

func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	user, err := h.accounts.Profile(c.UserContext(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// ProfileRequest carries only the fields to change.
type ProfileRequest struct {
	Name           *string `json:"name"`
	Image          *string `json:"image"`
	Gender         *string `json:"gender" validate:"omitempty,oneof=Men Women Unisex"`
	PreferredStyle *string `json:"preferredStyle"`
}

func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	var req ProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.accounts.UpdateProfile(c.UserContext(), who.UserID, services.ProfilePatch{
		Name:           req.Name,
		Image:          req.Image,
		Gender:         req.Gender,
		PreferredStyle: req.PreferredStyle,
	})
	if err != nil {
		return err
	}
	return c.JSON(user)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

func (h *UserHandler) HandleChangePassword(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	var req ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.accounts.ChangePassword(c.UserContext(), who.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

func (h *UserHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	if err := h.accounts.DeleteAccount(c.UserContext(), who.UserID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}

func (h *UserHandler) HandleListPayments(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	methods, err := h.payments.List(c.UserContext(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(methods)
}

// PaymentRequest is a card as typed in the form.
type PaymentRequest struct {
	CardNumber     string `json:"cardNumber" validate:"required"`
	ExpiryMonth    string `json:"expiryMonth" validate:"required"`
	ExpiryYear     string `json:"expiryYear" validate:"required"`
	CardHolderName string `json:"cardHolderName" validate:"required"`
	IsDefault      bool   `json:"isDefault"`
}

func (h *UserHandler) HandleAddPayment(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	var req PaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	method, err := h.payments.Add(c.UserContext(), who.UserID, services.PaymentInput{
		CardNumber:     req.CardNumber,
		ExpiryMonth:    req.ExpiryMonth,
		ExpiryYear:     req.ExpiryYear,
		CardHolderName: req.CardHolderName,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(method)
}

// HandleDeletePayment takes the id from the path or from ?id=.
func (h *UserHandler) HandleDeletePayment(c *fiber.Ctx) error {
	who, err := middleware.Caller(c)
	if err != nil {
		return err
	}
	id := c.Params("id")
	if id == "" {
		id = c.Query("id")
	}
	if id == "" {
		return apperror.Validation("Payment method ID is required")
	}
	if err := h.payments.Delete(c.UserContext(), who.UserID, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Payment method deleted successfully"})
}
