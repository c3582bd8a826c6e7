package catalog

import "testing"

func TestClassifyTitle(t *testing.T) {
	tests := []struct {
		title           string
		wantCategory    string
		wantSubcategory string
	}{
		{"Patti Long Poth 22K", "necklaces", "long-chains"},
		{"Short Patta Chain", "necklaces", "short-chains"},
		{"Fancy Poth", "necklaces", "fancy-chains"},
		{"Patta 22K", "necklaces", "chains"},
		{"Temple Necklace 22K", "necklaces", "temple"},
		{"Fancy Necklace", "necklaces", "fancy"},
		{"Arbi Necklace 22K", "necklaces", "arbi"},
		{"Bridal Necklace", "necklaces", "traditional"},
		{"Ruby Choker", "necklaces", "chokers"},
		{"Nath", "necklaces", "traditional"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			cat, sub := ClassifyTitle(tt.title)
			if cat != tt.wantCategory || sub != tt.wantSubcategory {
				t.Errorf("ClassifyTitle(%q) = %s/%s, want %s/%s", tt.title, cat, sub, tt.wantCategory, tt.wantSubcategory)
			}
		})
	}
}

func TestSubcategoryFromName(t *testing.T) {
	tests := []struct {
		category string
		name     string
		want     string
	}{
		{"necklaces", "Temple Haar", "temple"},
		{"necklaces", "Antique Mala", "antique"},
		{"necklaces", "Thushi Har 22K", "thushi"},
		{"necklaces", "Turkey Necklace", "traditional"},
		{"bangles", "Yellow Bangle 22K", "plain"},
		{"bangles", "Antique Bangle", "antique"},
		{"bracelets", "Gents Kada", "kada"},
		{"custom", "Custom Design", "traditional"},
	}

	for _, tt := range tests {
		if got := subcategoryFromName(tt.category, tt.name); got != tt.want {
			t.Errorf("subcategoryFromName(%q, %q) = %q, want %q", tt.category, tt.name, got, tt.want)
		}
	}
}

func TestRegion(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Temple Bangle 22K", "South Indian"},
		{"thushi har", "South Indian"},
		{"NMJ Antique 22K", "Traditional Indian"},
		{"Gents Kada", ""},
	}

	for _, tt := range tests {
		if got := Region(tt.name); got != tt.want {
			t.Errorf("Region(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWeightRangeFor(t *testing.T) {
	if r := weightRangeFor("necklaces"); r.lo != 15 || r.hi != 45 {
		t.Errorf("necklaces = %+v, want 15-45", r)
	}
	if r := weightRangeFor("earrings"); r != defaultWeightRange {
		t.Errorf("earrings = %+v, want default", r)
	}
}
