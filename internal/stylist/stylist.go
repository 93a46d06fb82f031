// Package stylist produces outfit suggestions for a product and forwards
// virtual try-on requests to the look backend.
package stylist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const maxItems = 3

// Product is the piece the outfit is built around.
type Product struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// Request asks for an outfit around Product.
type Request struct {
	Product  Product `json:"product"`
	Occasion string  `json:"occasion,omitempty"`
	Gender   string  `json:"gender,omitempty"`
}

// Item is one suggested piece.
type Item struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Reason   string `json:"reason"`
}

// Recommendation is the stylist's answer.
type Recommendation struct {
	Items       []Item `json:"items"`
	StyleAdvice string `json:"styleAdvice"`
	Fallback    bool   `json:"-"`
}

// Image is inline image data sent along with the prompt.
type Image struct {
	Data     []byte
	MIMEType string
}

// Generator turns a prompt, and optionally an image, into model text.
type Generator interface {
	Generate(ctx context.Context, prompt string, image *Image) (string, error)
}

// ImageFetcher downloads product images.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*Image, error)
}

// Recommender asks a Generator for an outfit. It never fails: a missing
// generator or any error yields MockRecommendation.
type Recommender struct {
	gen     Generator
	images  ImageFetcher
	timeout time.Duration
	log     logrus.FieldLogger
}

// NewRecommender creates a Recommender. gen and images may be nil.
func NewRecommender(gen Generator, images ImageFetcher, timeout time.Duration, log logrus.FieldLogger) *Recommender {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Recommender{gen: gen, images: images, timeout: timeout, log: log}
}

func (r *Recommender) Recommend(ctx context.Context, req Request) Recommendation {
	if r.gen == nil {
		r.log.Warn("no AI provider configured, returning mock recommendation")
		return MockRecommendation()
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var img *Image
	if req.Product.ImageURL != "" && r.images != nil {
		fetched, err := r.images.Fetch(ctx, req.Product.ImageURL)
		if err != nil {
			r.log.WithError(err).Debug("product image unavailable, continuing with text only")
		} else {
			img = fetched
		}
	}

	text, err := r.gen.Generate(ctx, BuildPrompt(req), img)
	if err != nil {
		r.log.WithError(err).Error("AI provider call failed")
		return MockRecommendation()
	}
	rec, err := Parse(text)
	if err != nil {
		r.log.WithError(err).Warn("unusable AI response")
		return MockRecommendation()
	}
	return rec
}

// BuildPrompt asks for exactly three complementary items and style advice as bare JSON.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("I am a fashion stylist. I have a product:\n")
	fmt.Fprintf(&b, "Name: %s\n", req.Product.Name)
	if req.Product.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", req.Product.Description)
	}
	fmt.Fprintf(&b, "Category: %s\n", req.Product.Category)
	if req.Product.Price > 0 {
		fmt.Fprintf(&b, "Price: %.2f\n", req.Product.Price)
	}
	if req.Occasion != "" {
		fmt.Fprintf(&b, "Occasion: %s\n", req.Occasion)
	}
	if req.Gender != "" {
		fmt.Fprintf(&b, "Wearer: %s\n", req.Gender)
	}
	b.WriteString(`
Please suggest a complete outfit to go with this item.
Suggest exactly 3 matching items from other categories (e.g. if shirt, suggest pants, shoes, accessory).

Return the response in strictly JSON format without markdown code blocks.
The JSON should be an object with:
1. "items": an array of 3 objects, each having "category", "name" (a specific catchy name), "color", and "reason" (why it matches).
2. "styleAdvice": a short paragraph giving overall style advice for this outfit.
`)
	return b.String()
}

// StripFences removes markdown code fences around a JSON answer.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// Parse decodes model output. A response without items is an error.
func Parse(text string) (Recommendation, error) {
	var rec Recommendation
	if err := json.Unmarshal([]byte(StripFences(text)), &rec); err != nil {
		return Recommendation{}, fmt.Errorf("decode recommendation: %w", err)
	}
	items := rec.Items[:0]
	for _, it := range rec.Items {
		if strings.TrimSpace(it.Name) != "" {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return Recommendation{}, fmt.Errorf("recommendation has no items")
	}
	if len(items) > maxItems {
		items = items[:maxItems]
	}
	rec.Items = items
	return rec, nil
}

// MockRecommendation is returned whenever the AI provider cannot answer.
func MockRecommendation() Recommendation {
	return Recommendation{
		Items: []Item{
			{Category: "Pants", Name: "Classic Chinos", Color: "Beige", Reason: "Neutral color matches well with the item."},
			{Category: "Shoes", Name: "Minimalist Sneakers", Color: "White", Reason: "Clean look suitable for casual wear."},
			{Category: "Accessory", Name: "Leather Watch", Color: "Brown", Reason: "Adds a touch of sophistication."},
		},
		StyleAdvice: "This is a mock recommendation because the AI API key is missing or failed. Please configure GEMINI_API_KEY.",
		Fallback:    true,
	}
}
