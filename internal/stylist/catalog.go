package stylist

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"styleshop/internal/models"
	"styleshop/internal/repositories"
)

const (
	catalogPoolSize      = 200
	maxCandidates        = 40
	minCatalogSelection  = 2
	randomSelectionCount = 3
)

// Catalog lists the products outfits are picked from.
type Catalog interface {
	List(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error)
}

// CatalogRecommendation is an outfit made of real catalog products.
type CatalogRecommendation struct {
	Items       []models.Product `json:"items"`
	Explanation string           `json:"explanation"`
	StyleTips   []string         `json:"styleTips"`
	Fallback    bool             `json:"-"`
}

// CatalogRecommender completes an outfit from the catalog. The model chooses
// among complementary products; without a model a random pick is used, and
// when the model fails or picks fewer than two items fixed category rules apply.
type CatalogRecommender struct {
	catalog Catalog
	gen     Generator
	timeout time.Duration
	log     logrus.FieldLogger
	shuffle func(n int) []int
}

func NewCatalogRecommender(catalog Catalog, gen Generator, timeout time.Duration, log logrus.FieldLogger) *CatalogRecommender {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CatalogRecommender{catalog: catalog, gen: gen, timeout: timeout, log: log, shuffle: rand.Perm}
}

// ProductSlot buckets a catalog product. Merchandising categories such as
// "Essentials" say nothing about the garment, so the name decides then.
func ProductSlot(category, name string) string {
	if slot := MapCategory(category); slot != SlotAccessories {
		return slot
	}
	return MapCategory(name)
}

func complementarySlots(slot string) []string {
	switch slot {
	case SlotTops:
		return []string{SlotBottoms, SlotOuterwear}
	case SlotBottoms:
		return []string{SlotTops, SlotOuterwear}
	case SlotOuterwear:
		return []string{SlotTops, SlotBottoms}
	case SlotFullBody:
		return []string{SlotOuterwear, SlotTops}
	}
	return []string{SlotTops, SlotBottoms}
}

// Recommend only fails when the catalog cannot be read.
func (r *CatalogRecommender) Recommend(ctx context.Context, req Request) (CatalogRecommendation, error) {
	pool, err := r.catalog.List(ctx, repositories.ProductFilter{Sort: repositories.SortNewest, Limit: catalogPoolSize})
	if err != nil {
		return CatalogRecommendation{}, fmt.Errorf("load outfit candidates: %w", err)
	}
	slot := ProductSlot(req.Product.Category, req.Product.Name)

	var candidates []models.Product
	for _, p := range pool {
		if p.ID == req.Product.ID || !containsSlot(complementarySlots(slot), ProductSlot(p.Category, p.Name)) {
			continue
		}
		candidates = append(candidates, p)
		if len(candidates) == maxCandidates {
			break
		}
	}
	if len(candidates) == 0 {
		return ruleBased(pool, req.Product.ID, slot,
			"Matched based on simple category rules (fallback).",
			[]string{"Try mixing textures!", "Balance loose and tight fits."}), nil
	}

	ids, tips, err := r.choose(ctx, req, candidates)
	if err != nil {
		r.log.WithError(err).Warn("catalog outfit selection failed, using category rules")
		return ruleBased(pool, req.Product.ID, slot, "Matched based on style rules.", []string{"Classic combination."}), nil
	}

	chosen := make(map[string]bool, len(ids))
	for _, id := range ids {
		chosen[id] = true
	}
	var items []models.Product
	for _, p := range candidates {
		if chosen[p.ID] {
			items = append(items, p)
		}
	}
	if len(items) < minCatalogSelection {
		r.log.WithField("selected", len(items)).Warn("too few catalog items selected, using category rules")
		return ruleBased(pool, req.Product.ID, slot, "Matched based on style rules.", []string{"Classic combination."}), nil
	}
	if len(tips) == 0 {
		tips = []string{"Great look!"}
	}
	return CatalogRecommendation{Items: items, Explanation: strings.Join(tips, " "), StyleTips: tips}, nil
}

type catalogSelection struct {
	SelectedIDs []string `json:"selected_ids"`
	StyleTips   []string `json:"style_tips"`
}

func (r *CatalogRecommender) choose(ctx context.Context, req Request, candidates []models.Product) ([]string, []string, error) {
	if r.gen == nil {
		r.log.Warn("no AI provider configured, picking catalog items at random")
		var ids []string
		for _, i := range r.shuffle(len(candidates)) {
			if len(ids) == randomSelectionCount {
				break
			}
			ids = append(ids, candidates[i].ID)
		}
		return ids, []string{"This is a randomly generated suggestion as API key is missing."}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	prompt, err := BuildCatalogPrompt(req, candidates)
	if err != nil {
		return nil, nil, err
	}
	text, err := r.gen.Generate(ctx, prompt, nil)
	if err != nil {
		return nil, nil, err
	}
	var sel catalogSelection
	if err := json.Unmarshal([]byte(StripFences(text)), &sel); err != nil {
		return nil, nil, fmt.Errorf("decode catalog selection: %w", err)
	}
	return sel.SelectedIDs, sel.StyleTips, nil
}

// BuildCatalogPrompt asks the model to pick 3-4 candidate ids for the occasion.
func BuildCatalogPrompt(req Request, candidates []models.Product) (string, error) {
	type candidate struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Price    float64 `json:"price"`
	}
	list := make([]candidate, 0, len(candidates))
	for _, p := range candidates {
		list = append(list, candidate{ID: p.ID, Name: p.Name, Category: p.Category, Price: p.Price})
	}
	listJSON, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	mainJSON, err := json.Marshal(map[string]string{
		"name":        req.Product.Name,
		"category":    req.Product.Category,
		"description": req.Product.Description,
	})
	if err != nil {
		return "", err
	}
	occasion, gender := req.Occasion, req.Gender
	if occasion == "" {
		occasion = "casual"
	}
	if gender == "" {
		gender = models.GenderUnisex
	}

	return fmt.Sprintf(`You are a professional fashion stylist.
I have a main product: %s

I have a list of candidate products:
%s

Please select 3-4 items from the candidate list that form a complete, stylish outfit with the main product for a '%s' occasion for %s.
The outfit must be color-coordinated and appropriate for the occasion.

Return ONLY a valid JSON object with this structure:
{"selected_ids": ["id1", "id2", "id3"], "style_tips": ["Tip 1", "Tip 2", "Tip 3"]}
Do not include any markdown formatting or explanations outside the JSON.
`, mainJSON, listJSON, occasion, gender), nil
}

// ruleBased pairs tops with bottoms and the reverse; outerwear gets two tops.
func ruleBased(pool []models.Product, exclude, slot, explanation string, tips []string) CatalogRecommendation {
	slots, limit := []string{SlotTops, SlotBottoms}, 3
	switch slot {
	case SlotTops:
		slots = []string{SlotBottoms}
	case SlotBottoms:
		slots = []string{SlotTops}
	case SlotOuterwear:
		slots, limit = []string{SlotTops}, 2
	}
	items := []models.Product{}
	for _, p := range pool {
		if len(items) == limit {
			break
		}
		if p.ID != exclude && containsSlot(slots, ProductSlot(p.Category, p.Name)) {
			items = append(items, p)
		}
	}
	return CatalogRecommendation{Items: items, Explanation: explanation, StyleTips: tips, Fallback: true}
}

func containsSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
