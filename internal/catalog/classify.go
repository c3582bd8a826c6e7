package catalog

import "strings"

// weightRange is the plausible weight in grams of one piece, [lo, hi).
type weightRange struct{ lo, hi int }

var weightRanges = map[string]weightRange{
	"necklaces": {15, 45},
	"bangles":   {8, 25},
	"bracelets": {12, 35},
	"antique":   {20, 60},
	"custom":    {10, 50},
}

var defaultWeightRange = weightRange{10, 30}

func weightRangeFor(category string) weightRange {
	if r, ok := weightRanges[category]; ok {
		return r
	}
	return defaultWeightRange
}

// ClassifyTitle infers a category and subcategory from a catalog title.
// Titles with no recognized keyword are traditional necklaces.
func ClassifyTitle(title string) (category, subcategory string) {
	t := strings.ToLower(title)

	switch {
	case strings.Contains(t, "patta") || strings.Contains(t, "poth"):
		switch {
		case strings.Contains(t, "long"):
			return "necklaces", "long-chains"
		case strings.Contains(t, "short"):
			return "necklaces", "short-chains"
		case strings.Contains(t, "fancy"):
			return "necklaces", "fancy-chains"
		default:
			return "necklaces", "chains"
		}
	case strings.Contains(t, "necklace"):
		switch {
		case strings.Contains(t, "temple"):
			return "necklaces", "temple"
		case strings.Contains(t, "fancy"):
			return "necklaces", "fancy"
		case strings.Contains(t, "arbi"):
			return "necklaces", "arbi"
		default:
			return "necklaces", "traditional"
		}
	case strings.Contains(t, "choker"):
		return "necklaces", "chokers"
	default:
		return "necklaces", "traditional"
	}
}

// subcategoryFromName refines a category by keywords in a product name.
func subcategoryFromName(category, name string) string {
	n := strings.ToLower(name)

	switch category {
	case "necklaces":
		switch {
		case strings.Contains(n, "temple"):
			return "temple"
		case strings.Contains(n, "antique"):
			return "antique"
		case strings.Contains(n, "thushi"):
			return "thushi"
		}
	case "bangles":
		switch {
		case strings.Contains(n, "temple"):
			return "temple"
		case strings.Contains(n, "antique"):
			return "antique"
		case strings.Contains(n, "yellow"):
			return "plain"
		}
	case "bracelets":
		if strings.Contains(n, "kada") {
			return "kada"
		}
	}
	return "traditional"
}

// Region guesses the regional style of a piece from its name.
func Region(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "temple") || strings.Contains(n, "thushi"):
		return "South Indian"
	case strings.Contains(n, "antique"):
		return "Traditional Indian"
	default:
		return ""
	}
}
