package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"backend/internal/catalog"
	"backend/internal/search"
)

func testCatalog() []catalog.Product {
	return []catalog.Product{
		{
			Name:        "Sony WH-1000XM5 Wireless Premium Noise Canceling Overhead Headphones",
			Price:       398.00,
			URL:         "https://www.amazon.com/dp/B09XS7JWHH",
			Rating:      4.5,
			Description: "Industry-leading noise canceling with Dual Noise Sensor technology.",
			Category:    "electronics",
		},
		{
			Name:        "Anker Soundcore Life Q30 Hybrid Active Noise Cancelling Headphones",
			Price:       79.99,
			URL:         "https://www.amazon.com/dp/B08HMWZBXC",
			Rating:      4.5,
			Description: "Active Noise Cancelling, Hi-Res Audio, 40H Playtime",
			Category:    "electronics",
		},
		{
			Name:        "Ninja AF101 Air Fryer 4 Quart",
			Price:       99.99,
			URL:         "https://www.amazon.com/dp/B07FDJMC5Q",
			Rating:      4.6,
			Description: "Air Fry, Roast, Bake, Dehydrate, and Reheat.",
			Category:    "home",
		},
		{
			Name:        "Instant Pot Duo 7-in-1 Electric Pressure Cooker",
			Price:       99.95,
			URL:         "https://www.amazon.com/dp/B01NBKTPTS",
			Rating:      4.7,
			Description: "Pressure cooker, slow cooker, rice cooker, steamer.",
			Category:    "home",
		},
	}
}

func newTestRanker() *search.Ranker {
	return search.NewRanker(testCatalog(), zap.NewNop())
}

func TestSearchNoMatchReturnsEmpty(t *testing.T) {
	r := newTestRanker()

	result := r.Search("quantum telescope", search.Options{})

	assert.False(t, result.OK)
	assert.Empty(t, result.Products)
}

func TestSearchNeverReturnsFiller(t *testing.T) {
	r := newTestRanker()

	result := r.Search("headphones", search.Options{})

	assert.True(t, result.OK)
	assert.Len(t, result.Products, 2)
	for _, p := range result.Products {
		assert.Contains(t, p.Name, "Headphones")
	}
}

func TestSearchMaxPriceFilter(t *testing.T) {
	r := newTestRanker()
	maxPrice := 100.0

	result := r.Search("headphones", search.Options{MaxPrice: &maxPrice})

	assert.True(t, result.OK)
	assert.Len(t, result.Products, 1)
	assert.Contains(t, result.Products[0].Name, "Anker Soundcore")
}

func TestSearchCategoryFilter(t *testing.T) {
	r := newTestRanker()

	result := r.Search("cooker", search.Options{Category: "home"})
	assert.True(t, result.OK)
	assert.Len(t, result.Products, 1)
	assert.Contains(t, result.Products[0].Name, "Instant Pot")

	// Category restriction applies before scoring.
	result = r.Search("headphones", search.Options{Category: "home"})
	assert.False(t, result.OK)
	assert.Empty(t, result.Products)
}

func TestSearchOrderingScoreThenRating(t *testing.T) {
	products := []catalog.Product{
		{Name: "wireless mouse", Description: "", Rating: 4.0, URL: "a"},
		{Name: "wireless keyboard", Description: "", Rating: 4.8, URL: "b"},
		{Name: "wireless mouse pro wireless", Description: "wireless", Rating: 3.0, URL: "c"},
	}
	r := search.NewRanker(products, zap.NewNop())

	result := r.Search("wireless", search.Options{})

	assert.True(t, result.OK)
	assert.Len(t, result.Products, 3)
	// "wireless" appears in name and description of the third product,
	// scoring it above both name-only matches.
	assert.Equal(t, "c", result.Products[0].URL)
	// Equal scores fall back to rating.
	assert.Equal(t, "b", result.Products[1].URL)
	assert.Equal(t, "a", result.Products[2].URL)
}

func TestSearchLimitCapsResults(t *testing.T) {
	var products []catalog.Product
	for i := 0; i < 20; i++ {
		products = append(products, catalog.Product{
			Name:   "travel mug",
			URL:    string(rune('a' + i)),
			Rating: 4.0,
		})
	}
	r := search.NewRanker(products, zap.NewNop())

	general := r.Search("mug", search.Options{Limit: search.GeneralLimit})
	assert.Len(t, general.Products, 15)

	curated := r.Search("mug", search.Options{Limit: search.CuratedLimit})
	assert.Len(t, curated.Products, 5)
}

func TestSearchEmptyQueryFindsNothing(t *testing.T) {
	r := newTestRanker()

	result := r.Search("   ", search.Options{})

	assert.False(t, result.OK)
	assert.Empty(t, result.Products)
}
