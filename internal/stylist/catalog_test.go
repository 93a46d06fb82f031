package stylist_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"styleshop/internal/logging"
	"styleshop/internal/models"
	"styleshop/internal/repositories"
	"styleshop/internal/stylist"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) List(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

var catalogPool = []models.Product{
	{ID: "top-1", Name: "Linen Shirt", Category: "shirt"},
	{ID: "top-2", Name: "Oxford Shirt", Category: "shirt"},
	{ID: "bot-1", Name: "Slim Chinos", Category: "pants"},
	{ID: "bot-2", Name: "Dark Jeans", Category: "Bottoms"},
	{ID: "bot-3", Name: "Pleated Trousers", Category: "Essentials"},
	{ID: "out-1", Name: "Wool Blazer", Category: "outerwear"},
	{ID: "acc-1", Name: "Leather Belt", Category: "accessory"},
}

var catalogShirt = stylist.Request{
	Product:  stylist.Product{ID: "top-1", Name: "Linen Shirt", Category: "shirt"},
	Occasion: "office",
}

func poolCatalog() *MockCatalog {
	c := new(MockCatalog)
	c.On("List", mock.Anything, mock.MatchedBy(func(f repositories.ProductFilter) bool {
		return f.Limit > 0
	})).Return(catalogPool, nil)
	return c
}

func itemIDs(items []models.Product) []string {
	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestProductSlot(t *testing.T) {
	cases := []struct {
		category, name, want string
	}{
		{"shirt", "Linen Shirt", stylist.SlotTops},
		{"pants", "Slim Chinos", stylist.SlotBottoms},
		{"Essentials", "Royal Blue Silk Kurta Set", stylist.SlotFullBody},
		{"New Arrivals", "Nehru Jacket", stylist.SlotOuterwear},
		{"Seasonal", "Silver Cufflinks", stylist.SlotAccessories},
		{"Outerwear", "Plain Tee", stylist.SlotOuterwear},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, stylist.ProductSlot(tc.category, tc.name), tc.category+"/"+tc.name)
	}
}

func TestCatalogRecommend_UsesModelSelection(t *testing.T) {
	gen := new(MockGenerator)
	answer := "```json\n" + `{"selected_ids":["bot-1","out-1","nope"],"style_tips":["Roll the sleeves.","Tan belt."]}` + "\n```"
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Linen Shirt") &&
			strings.Contains(p, `"id":"bot-1"`) &&
			!strings.Contains(p, `"id":"top-2"`) &&
			!strings.Contains(p, `"id":"acc-1"`) &&
			strings.Contains(p, "'office'")
	}), (*stylist.Image)(nil)).Return(answer, nil)

	r := stylist.NewCatalogRecommender(poolCatalog(), gen, time.Second, logging.Discard())
	rec, err := r.Recommend(context.Background(), catalogShirt)
	require.NoError(t, err)

	assert.False(t, rec.Fallback)
	assert.Equal(t, []string{"bot-1", "out-1"}, itemIDs(rec.Items))
	assert.Equal(t, []string{"Roll the sleeves.", "Tan belt."}, rec.StyleTips)
	assert.Equal(t, "Roll the sleeves. Tan belt.", rec.Explanation)
	gen.AssertExpectations(t)
}

func TestCatalogRecommend_DefaultTip(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"selected_ids":["bot-1","bot-2"],"style_tips":[]}`, nil)

	rec, err := stylist.NewCatalogRecommender(poolCatalog(), gen, time.Second, logging.Discard()).
		Recommend(context.Background(), catalogShirt)
	require.NoError(t, err)
	assert.Equal(t, []string{"Great look!"}, rec.StyleTips)
	assert.Equal(t, "Great look!", rec.Explanation)
}

func TestCatalogRecommend_FallsBackToRules(t *testing.T) {
	cases := map[string]func(*MockGenerator){
		"too few picks": func(g *MockGenerator) {
			g.On("Generate", mock.Anything, mock.Anything, mock.Anything).
				Return(`{"selected_ids":["bot-1"],"style_tips":["x"]}`, nil)
		},
		"malformed": func(g *MockGenerator) {
			g.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("not json", nil)
		},
		"upstream error": func(g *MockGenerator) {
			g.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("quota"))
		},
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			gen := new(MockGenerator)
			setup(gen)
			rec, err := stylist.NewCatalogRecommender(poolCatalog(), gen, time.Second, logging.Discard()).
				Recommend(context.Background(), catalogShirt)
			require.NoError(t, err)

			assert.True(t, rec.Fallback)
			assert.Equal(t, []string{"bot-1", "bot-2", "bot-3"}, itemIDs(rec.Items))
			assert.Equal(t, "Matched based on style rules.", rec.Explanation)
			assert.Equal(t, []string{"Classic combination."}, rec.StyleTips)
		})
	}
}

func TestCatalogRecommend_RandomWithoutGenerator(t *testing.T) {
	r := stylist.NewCatalogRecommender(poolCatalog(), nil, time.Second, logging.Discard())
	rec, err := r.Recommend(context.Background(), catalogShirt)
	require.NoError(t, err)

	require.Len(t, rec.Items, 3)
	for _, p := range rec.Items {
		assert.NotEqual(t, "top-1", p.ID)
		assert.Contains(t, []string{stylist.SlotBottoms, stylist.SlotOuterwear}, stylist.ProductSlot(p.Category, p.Name))
	}
	assert.Equal(t, []string{"This is a randomly generated suggestion as API key is missing."}, rec.StyleTips)
}

func TestCatalogRecommend_NoCandidates(t *testing.T) {
	// a shirt among belts has nothing to pair with
	catalog := new(MockCatalog)
	catalog.On("List", mock.Anything, mock.Anything).Return([]models.Product{
		{ID: "top-1", Name: "Linen Shirt", Category: "shirt"},
		{ID: "acc-1", Name: "Leather Belt", Category: "accessory"},
	}, nil)
	gen := new(MockGenerator)

	rec, err := stylist.NewCatalogRecommender(catalog, gen, time.Second, logging.Discard()).Recommend(context.Background(), catalogShirt)
	require.NoError(t, err)
	assert.True(t, rec.Fallback)
	assert.Empty(t, rec.Items)
	assert.Equal(t, "Matched based on simple category rules (fallback).", rec.Explanation)
	assert.Equal(t, []string{"Try mixing textures!", "Balance loose and tight fits."}, rec.StyleTips)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogRecommend_CatalogError(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := stylist.NewCatalogRecommender(catalog, nil, time.Second, logging.Discard()).Recommend(context.Background(), catalogShirt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
