package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamde/storefront/internal/domain"
)

// FallbackImageURL is used for listings without a harvested image.
const FallbackImageURL = "https://images.unsplash.com/photo-1506630448388-4e683c67ddb0"

var (
	listingUnescape = strings.NewReplacer(`\\`, "", "\\\n", "\n")
	listingImage    = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)\)`)
	listingLink     = regexp.MustCompile(`(\d+)\s+items[^\]]*\]\(([^)\s]+)\s+"([^"]+)"\)`)
	listingWeight   = decimal.RequireFromString("25.0")
)

// Listing is one category tile of a catalog listing page.
type Listing struct {
	Title     string
	ImageURL  string
	URL       string
	ItemCount int
}

// ParseListing extracts the category tiles of a markdown rendered catalog
// listing, where each tile looks like
//
//	[![Title](image.jpg)\\ Title\\ 78 items](/s/store/title/kk7 "Title")
//
// Tiles are paired with images by position; tiles without an item count are skipped.
func ParseListing(raw string) []Listing {
	content := listingUnescape.Replace(raw)

	var images []string
	for _, m := range listingImage.FindAllStringSubmatch(content, -1) {
		images = append(images, m[1])
	}

	var listings []Listing
	for _, m := range listingLink.FindAllStringSubmatch(content, -1) {
		count, err := strconv.Atoi(m[1])
		if err != nil || count <= 0 {
			continue
		}
		imageURL := FallbackImageURL
		if i := len(listings); i < len(images) {
			imageURL = images[i]
		}
		listings = append(listings, Listing{
			Title:     strings.TrimSpace(m[3]),
			ImageURL:  imageURL,
			URL:       m[2],
			ItemCount: count,
		})
	}
	return listings
}

// Draft converts a listing tile into a catalog draft.
func (l Listing) Draft() domain.CatalogDraft {
	category, subcategory := ClassifyTitle(l.Title)

	purity := defaultPurity
	if strings.Contains(l.Title, "20K") && !strings.Contains(l.Title, "22K") {
		purity = "20K Gold"
	}
	var region string
	if strings.Contains(l.Title, "Temple") {
		region = "South Indian"
	}
	imageURL := l.ImageURL
	if imageURL == "" {
		imageURL = FallbackImageURL
	}

	return domain.CatalogDraft{
		Name:        l.Title,
		Description: fmt.Sprintf("Premium %s - %d designs available", l.Title, l.ItemCount),
		ImageURL:    imageURL,
		Category:    category,
		Subcategory: subcategory,
		Weight:      listingWeight,
		InStock:     true,
		Material:    domain.MaterialGold,
		Purity:      purity,
		Region:      region,
		Featured:    l.ItemCount > 50,
	}
}
