package catalog

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ErrMappingMissing is returned when a catalog category key has no mapping.
var ErrMappingMissing = errors.New("no category mapping")

// Mapping places a catalog source category into the storefront taxonomy.
type Mapping struct {
	Category    string `toml:"category"`
	Subcategory string `toml:"subcategory"`
	DisplayName string `toml:"display_name"`
}

// Mappings is keyed by the catalog source's category key, e.g. "gents-kada".
type Mappings map[string]Mapping

const defaultDisplayName = "Gold Jewelry"

// DefaultMappings returns the built-in category table.
func DefaultMappings() Mappings {
	return Mappings{
		"turkey-necklace":    {Category: "necklaces", Subcategory: "traditional", DisplayName: "Turkey Necklace"},
		"mohan-mala":         {Category: "necklaces", Subcategory: "traditional", DisplayName: "Mohan Mala"},
		"thushi-har-22k":     {Category: "necklaces", Subcategory: "thushi", DisplayName: "Thushi Har 22K"},
		"make-on-order":      {Category: "custom", Subcategory: "made-to-order", DisplayName: "Custom Design"},
		"antique-poth-22k":   {Category: "necklaces", Subcategory: "antique", DisplayName: "Antique Poth 22K"},
		"gents-kada":         {Category: "bracelets", Subcategory: "kada", DisplayName: "Gents Kada"},
		"yellow-bangles-22k": {Category: "bangles", Subcategory: "plain", DisplayName: "Yellow Bangle 22K"},
		"temple-bangle-22k":  {Category: "bangles", Subcategory: "temple", DisplayName: "Temple Bangle 22K"},
		"antique-bangles":    {Category: "bangles", Subcategory: "antique", DisplayName: "Antique Bangle"},
		"nmj-antique-22k":    {Category: "antique", Subcategory: "nmj", DisplayName: "NMJ Antique 22K"},
	}
}

type mappingFile struct {
	Categories map[string]Mapping `toml:"categories"`
}

// LoadMappings returns the built-in table overlaid with the entries of a TOML
// file. An empty path returns the built-in table.
//
//	[categories.gold-chains]
//	category = "necklaces"
//	subcategory = "chains"
//	display_name = "Gold Chain"
func LoadMappings(path string) (Mappings, error) {
	m := DefaultMappings()
	if path == "" {
		return m, nil
	}

	var f mappingFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decoding category mappings %s: %w", path, err)
	}
	for key, mapping := range f.Categories {
		if mapping.Category == "" {
			return nil, fmt.Errorf("category mapping %q: category is required", key)
		}
		m[key] = mapping
	}
	return m, nil
}

// Lookup returns the mapping for key.
func (m Mappings) Lookup(key string) (Mapping, error) {
	mapping, ok := m[key]
	if !ok {
		return Mapping{}, fmt.Errorf("%w for %q", ErrMappingMissing, key)
	}
	return mapping, nil
}

// displayName is the prefix of synthesized product names.
func (m Mapping) displayName() string {
	if m.DisplayName == "" {
		return defaultDisplayName
	}
	return m.DisplayName
}
