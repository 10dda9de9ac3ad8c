package search

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"backend/internal/catalog"
)

// Result caps. The general voice search shows up to 15 products; the
// curated path (small hand-picked catalog) shows 5.
const (
	GeneralLimit = 15
	CuratedLimit = 5
)

// Options narrows a search. A nil MaxPrice or empty Category means no
// filter. Limit must be one of the caps above (0 falls back to GeneralLimit).
type Options struct {
	MaxPrice *float64
	Category string
	Limit    int
}

// Result is what the intent layer consumes. OK is false when nothing
// matched or the search could not run; Message is already user-facing.
type Result struct {
	OK       bool
	Message  string
	Products []catalog.Product
}

type scored struct {
	product catalog.Product
	score   int
}

// Ranker scores the in-memory catalog against free-text queries.
type Ranker struct {
	products []catalog.Product
	logger   *zap.Logger
}

func NewRanker(products []catalog.Product, logger *zap.Logger) *Ranker {
	return &Ranker{products: products, logger: logger}
}

// Search tokenizes the query and returns the best matches, most
// relevant first. Category and price filters narrow the candidate set
// before scoring. Products that match no token are never returned;
// an empty result beats unrelated filler.
func (r *Ranker) Search(query string, opts Options) Result {
	query = strings.TrimSpace(query)
	limit := opts.Limit
	if limit <= 0 {
		limit = GeneralLimit
	}

	candidates := r.products
	if cat := strings.ToLower(strings.TrimSpace(opts.Category)); cat != "" {
		filtered := make([]catalog.Product, 0, len(candidates))
		for _, p := range candidates {
			if strings.ToLower(p.Category) == cat || strings.ToLower(p.Subcategory) == cat {
				filtered = append(filtered, p)
			}
		}
		candidates = filtered
	}
	if opts.MaxPrice != nil {
		filtered := make([]catalog.Product, 0, len(candidates))
		for _, p := range candidates {
			if p.Price <= *opts.MaxPrice {
				filtered = append(filtered, p)
			}
		}
		candidates = filtered
	}

	words := strings.Fields(strings.ToLower(query))

	matches := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		s := scoreProduct(p, words)
		if s > 0 {
			matches = append(matches, scored{product: p, score: s})
		}
	}

	if len(matches) == 0 {
		r.logger.Info("search found nothing",
			zap.String("query", query),
			zap.String("category", opts.Category))
		return Result{
			OK:      false,
			Message: fmt.Sprintf("I couldn't find any products matching '%s'", query),
		}
	}

	// Score first, rating as tie-break only.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].product.Rating > matches[j].product.Rating
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	products := make([]catalog.Product, len(matches))
	for i, m := range matches {
		products[i] = m.product
	}

	r.logger.Info("search ranked results",
		zap.String("query", query),
		zap.Int("results", len(products)))

	return Result{
		OK:       true,
		Message:  fmt.Sprintf("I found %d products matching '%s'", len(products), query),
		Products: products,
	}
}

func scoreProduct(p catalog.Product, words []string) int {
	name := strings.ToLower(p.Name)
	desc := strings.ToLower(p.Description)
	cat := strings.ToLower(p.Category)
	subcat := strings.ToLower(p.Subcategory)

	score := 0
	for _, w := range words {
		if strings.Contains(name, w) {
			score += 10
		}
		if strings.Contains(desc, w) {
			score += 5
		}
		if strings.Contains(cat, w) {
			score += 3
		}
		if subcat != "" && strings.Contains(subcat, w) {
			score += 3
		}
	}
	return score
}
