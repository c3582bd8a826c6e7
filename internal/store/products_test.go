package store

import (
	"strings"
	"testing"
)

func TestProductQuery(t *testing.T) {
	tests := []struct {
		name      string
		filter    ProductFilter
		wantWhere string
		wantArgs  int
	}{
		{"all", ProductFilter{}, "", 0},
		{"category", ProductFilter{Category: "bangles"}, "WHERE category = $1", 1},
		{"subcategory", ProductFilter{Category: "bangles", Subcategory: "temple"}, "WHERE category = $1 AND subcategory = $2", 2},
		{"featured", ProductFilter{FeaturedOnly: true}, "WHERE featured", 0},
		{"featured in category", ProductFilter{Category: "necklaces", FeaturedOnly: true}, "WHERE category = $1 AND featured", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := productQuery(tt.filter)
			if len(args) != tt.wantArgs {
				t.Errorf("args = %v, want %d", args, tt.wantArgs)
			}
			if tt.wantWhere == "" && strings.Contains(q, "WHERE") {
				t.Errorf("unexpected WHERE in %q", q)
			}
			if tt.wantWhere != "" && !strings.Contains(q, tt.wantWhere+" ORDER BY") {
				t.Errorf("query %q does not contain %q", q, tt.wantWhere)
			}
		})
	}
}
