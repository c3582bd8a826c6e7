// Package catalog turns scraped catalog text into product drafts and imports
// them into the store without duplicating existing products.
package catalog

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamde/storefront/internal/domain"
)

const (
	storeName     = "Mamde Jewellers"
	defaultPurity = "22K Gold"

	addToCartMarker  = "ADD TO CART"
	outOfStockMarker = "Out of Stock"
	placeholderName  = "product grid tile image"
)

var (
	imageURLPattern  = regexp.MustCompile(`https://cdn\.quicksell\.co/[^"'\s)]+\.jpg`)
	imageURLJunk     = regexp.MustCompile(`[\\"\s]`)
	bracketedName    = regexp.MustCompile(`\[([^\]]+)\]`)
	quotedName       = regexp.MustCompile(`"([^"]+)"`)
	karatName        = regexp.MustCompile(`([\w\s]+22K?)`)
	escapedLineBreak = regexp.MustCompile(`\\n.*`)
	weightPattern    = regexp.MustCompile(`(\d+\.?\d*)\s*gm`)
)

// Detail is one product block harvested from catalog text. A zero Weight means
// no weight was found.
type Detail struct {
	Name    string
	Weight  decimal.Decimal
	InStock bool
}

// Extractor builds drafts from the keyed catalog format: a page of image links
// followed by ADD TO CART blocks, scraped for one source category.
type Extractor struct {
	mappings Mappings

	mu  sync.Mutex
	rng *rand.Rand
}

// NewExtractor creates an Extractor. A nil rng is seeded from the wall clock.
func NewExtractor(mappings Mappings, rng *rand.Rand) *Extractor {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Extractor{mappings: mappings, rng: rng}
}

// Extract returns the drafts found in raw for the source category key.
//
// Images and detail blocks are paired by position. If the page lists them in
// different orders, names and weights land on the wrong image; nothing here
// can detect that. Details without an image are dropped, and images without a
// detail get a synthesized name and weight.
func (e *Extractor) Extract(raw, categoryKey string) ([]domain.CatalogDraft, error) {
	mapping, err := e.mappings.Lookup(categoryKey)
	if err != nil {
		slog.Warn("catalog: skipping unmapped category", "category", categoryKey)
		return nil, err
	}

	images := HarvestImages(raw)
	details := HarvestDetails(raw)
	slog.Debug("catalog: harvested", "category", categoryKey, "images", len(images), "details", len(details))
	if len(details) > len(images) {
		slog.Warn("catalog: dropping details without an image", "category", categoryKey, "dropped", len(details)-len(images))
	}

	drafts := make([]domain.CatalogDraft, 0, len(images))
	for i, imageURL := range images {
		detail := Detail{InStock: true}
		if i < len(details) {
			detail = details[i]
		}

		name := detail.Name
		if name == "" {
			name = fmt.Sprintf("%s - Design %d", mapping.displayName(), i+1)
		}
		weight := detail.Weight
		if !weight.IsPositive() {
			weight = e.randomWeight(mapping.Category)
		}
		subcategory := mapping.Subcategory
		if subcategory == "" {
			subcategory = subcategoryFromName(mapping.Category, name)
		}

		drafts = append(drafts, domain.CatalogDraft{
			Name:        name,
			Description: fmt.Sprintf("Authentic %s from %s catalog collection. Handcrafted with traditional techniques.", name, storeName),
			ImageURL:    imageURL,
			Category:    mapping.Category,
			Subcategory: subcategory,
			Weight:      weight,
			InStock:     detail.InStock,
			Material:    domain.MaterialGold,
			Purity:      defaultPurity,
			Region:      Region(name),
			Featured:    e.featured(),
		})
	}
	return drafts, nil
}

// HarvestImages returns the product image URLs in raw in first-seen order, without repeats.
func HarvestImages(raw string) []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, match := range imageURLPattern.FindAllString(raw, -1) {
		u := imageURLJunk.ReplaceAllString(match, "")
		if !strings.HasPrefix(u, "https://") {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}

// HarvestDetails scans raw line by line for product names, weights and stock
// markers. A block is closed by a line carrying ADD TO CART or Out of Stock
// once it has a name or a weight.
func HarvestDetails(raw string) []Detail {
	var details []Detail
	cur := Detail{InStock: true}

	for line := range strings.SplitSeq(raw, "\n") {
		line = strings.TrimSpace(line)
		addToCart := strings.Contains(line, addToCartMarker)
		outOfStock := strings.Contains(line, outOfStockMarker)

		if addToCart {
			if name := lineName(line); name != "" {
				cur.Name = name
			}
		}
		if m := weightPattern.FindStringSubmatch(line); m != nil {
			cur.Weight = domain.SafeParse(m[1])
		}
		if outOfStock {
			cur.InStock = false
		}

		if (cur.Name != "" || !cur.Weight.IsZero()) && (addToCart || outOfStock) {
			details = append(details, cur)
			cur = Detail{InStock: true}
		}
	}
	return details
}

func lineName(line string) string {
	m := bracketedName.FindStringSubmatch(line)
	if m == nil {
		m = quotedName.FindStringSubmatch(line)
	}
	if m == nil && strings.Contains(line, "22K") {
		m = karatName.FindStringSubmatch(line)
	}
	if m == nil {
		return ""
	}

	name := strings.TrimSpace(escapedLineBreak.ReplaceAllString(m[1], ""))
	if name == placeholderName {
		return ""
	}
	return name
}

// randomWeight draws a whole-gram weight uniformly from the category's range.
func (e *Extractor) randomWeight(category string) decimal.Decimal {
	r := weightRangeFor(category)
	e.mu.Lock()
	defer e.mu.Unlock()
	return decimal.NewFromInt(int64(r.lo + e.rng.IntN(r.hi-r.lo)))
}

// featured picks roughly one draft in five for the featured shelf.
func (e *Extractor) featured() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64() > 0.8
}
