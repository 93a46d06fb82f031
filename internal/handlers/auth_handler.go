package handlers

import (
	"github.com/gofiber/fiber/v2"

	"styleshop/internal/models"
	"styleshop/internal/services"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the authentication routes. limit guards both
// endpoints against credential stuffing.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, limit fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", limit, h.HandleSignup)
	authRoutes.Post("/login", limit, h.HandleLogin)
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	Gender         string `json:"gender" validate:"omitempty,oneof=Men Women Unisex"`
	PreferredStyle string `json:"preferredStyle"`
}

// HandleSignup handles new user registration.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.UserContext(), services.SignupInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Gender:         req.Gender,
		PreferredStyle: req.PreferredStyle,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(LoginResponse{Token: token, User: user})
}
