package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item as persisted by storage.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Weight      decimal.Decimal `json:"weight"`
	Purity      string          `json:"purity"`
	Material    Material        `json:"material"`
	ImageURL    string          `json:"imageUrl"`
	ImageURLs   []string        `json:"imageUrls,omitempty"`
	Featured    bool            `json:"featured"`
	Region      string          `json:"region,omitempty"`
	InStock     bool            `json:"inStock"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CatalogDraft is a candidate product extracted from scraped catalog text.
// It is neither validated nor persisted until an importer accepts it.
type CatalogDraft struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	ImageURL    string          `json:"imageUrl" validate:"required,url"`
	Category    string          `json:"category" validate:"required"`
	Subcategory string          `json:"subcategory,omitempty"`
	Weight      decimal.Decimal `json:"weight"`
	InStock     bool            `json:"inStock"`
	Material    Material        `json:"material" validate:"required,oneof=gold silver"`
	Purity      string          `json:"purity" validate:"required"`
	Region      string          `json:"region,omitempty"`
	Featured    bool            `json:"featured"`
}

// ToProduct converts an accepted draft into a product without an ID.
func (d CatalogDraft) ToProduct() Product {
	return Product{
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Subcategory: d.Subcategory,
		Weight:      d.Weight,
		Purity:      d.Purity,
		Material:    d.Material,
		ImageURL:    d.ImageURL,
		Featured:    d.Featured,
		Region:      d.Region,
		InStock:     d.InStock,
	}
}
