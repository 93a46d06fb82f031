package stylist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrLookBackendUnset is returned when no look backend URL is configured.
var ErrLookBackendUnset = errors.New("look backend URL is not configured")

// LookItem is one garment in a try-on request.
type LookItem struct {
	ProductID string `json:"productId,omitempty"`
	Name      string `json:"name,omitempty"`
	Category  string `json:"category,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Slot      string `json:"slot,omitempty"`
}

type LookRequest struct {
	UserID        string     `json:"userId"`
	MainProductID string     `json:"mainProductId,omitempty"`
	Items         []LookItem `json:"items"`
}

type lookResponse struct {
	ImageURL string `json:"imageUrl"`
}

// LookClient talks to the image generation backend.
type LookClient struct {
	baseURL string
	timeout time.Duration
}

func NewLookClient(baseURL string, timeout time.Duration) *LookClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LookClient{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// Generate returns the URL of the composed look image. Items without a slot
// are bucketed with MapCategory.
func (c *LookClient) Generate(ctx context.Context, req LookRequest) (string, error) {
	if c == nil || c.baseURL == "" {
		return "", ErrLookBackendUnset
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for i := range req.Items {
		if req.Items[i].Slot == "" {
			req.Items[i].Slot = MapCategory(req.Items[i].Category)
		}
	}

	code, body, errs := fiber.Post(c.baseURL + "/generate-look").
		JSON(req).
		Timeout(c.timeout).
		Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("look backend: %w", errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		return "", fmt.Errorf("look backend returned %d: %s", code, truncate(string(body), 200))
	}

	var out lookResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode look response: %w", err)
	}
	if out.ImageURL == "" {
		return "", errors.New("look backend returned no imageUrl")
	}
	return out.ImageURL, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
