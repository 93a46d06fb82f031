// Package storefront is a Go client for the StyleShop API with optimistic
// cart and wishlist sessions for interactive front ends.
package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"styleshop/internal/cart"
	"styleshop/internal/checkout"
	"styleshop/internal/models"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront: %d %s: %s", e.Status, e.Code, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Wishlist is the API's wishlist view.
type Wishlist struct {
	ID       string           `json:"id"`
	Products []models.Product `json:"products"`
}

// IDs returns the product ids in wishlist order.
func (w *Wishlist) IDs() []string {
	ids := make([]string, 0, len(w.Products))
	for _, p := range w.Products {
		ids = append(ids, p.ID)
	}
	return ids
}

// Client calls the API over Fiber's HTTP agent.
type Client struct {
	baseURL string
	timeout time.Duration

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SignedIn reports whether the client holds a token.
func (c *Client) SignedIn() bool { return c.Token() != "" }

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := c.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if token := c.Token(); token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		a.JSON(body)
	}
	a.Timeout(timeout)
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return fmt.Errorf("storefront: %w", err)
	}

	code, raw, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("storefront: %s %s: %w", method, path, errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		apiErr := &APIError{Status: code}
		var envelope struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &envelope) == nil {
			apiErr.Code, apiErr.Message = envelope.Code, envelope.Message
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("storefront: decode %s %s: %w", method, path, err)
	}
	return nil
}

// SignupRequest mirrors POST /api/auth/signup.
type SignupRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Gender         string `json:"gender,omitempty"`
	PreferredStyle string `json:"preferredStyle,omitempty"`
}

func (c *Client) Signup(ctx context.Context, in SignupRequest) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, fiber.MethodPost, "/api/auth/signup", in, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Login authenticates and keeps the token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var out struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, fiber.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return out.User, nil
}

// Logout forgets the token.
func (c *Client) Logout() { c.SetToken("") }

func (c *Client) Cart(ctx context.Context) (*models.Cart, error) {
	var out models.Cart
	if err := c.do(ctx, fiber.MethodGet, "/api/cart", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type cartLine struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

func (c *Client) AddToCart(ctx context.Context, key cart.LineKey, quantity int) (*models.Cart, error) {
	var out models.Cart
	body := cartLine{ProductID: key.ProductID, Size: key.Size, Color: key.Color, Quantity: quantity}
	if err := c.do(ctx, fiber.MethodPost, "/api/cart", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, key cart.LineKey, quantity int) (*models.Cart, error) {
	var out models.Cart
	body := cartLine{ProductID: key.ProductID, Size: key.Size, Color: key.Color, Quantity: quantity}
	if err := c.do(ctx, fiber.MethodPut, "/api/cart", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, key cart.LineKey) (*models.Cart, error) {
	q := url.Values{}
	q.Set("productId", key.ProductID)
	q.Set("size", key.Size)
	q.Set("color", key.Color)
	var out models.Cart
	if err := c.do(ctx, fiber.MethodDelete, "/api/cart?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClearCart(ctx context.Context) (*models.Cart, error) {
	var out models.Cart
	if err := c.do(ctx, fiber.MethodDelete, "/api/cart", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Wishlist(ctx context.Context) (*Wishlist, error) {
	var out Wishlist
	if err := c.do(ctx, fiber.MethodGet, "/api/wishlist", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddToWishlist(ctx context.Context, productID string) (*Wishlist, error) {
	var out Wishlist
	if err := c.do(ctx, fiber.MethodPost, "/api/wishlist", map[string]string{"productId": productID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveFromWishlist(ctx context.Context, productID string) (*Wishlist, error) {
	var out Wishlist
	if err := c.do(ctx, fiber.MethodDelete, "/api/wishlist/"+url.PathEscape(productID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PlaceOrder implements checkout.OrderPlacer.
func (c *Client) PlaceOrder(ctx context.Context, req checkout.OrderRequest) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, fiber.MethodPost, "/api/checkout", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.do(ctx, fiber.MethodGet, "/api/orders/user", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
