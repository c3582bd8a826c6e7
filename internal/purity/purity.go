// Package purity converts karat and fineness labels into fractions of the
// full-fineness (24K gold, 999 silver) rate.
package purity

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Gold factors are n/24 truncated to three places; pricing depends on these exact values.
var factors = map[string]decimal.Decimal{
	"24K Gold":   decimal.RequireFromString("1.000"),
	"22K Gold":   decimal.RequireFromString("0.916"),
	"20K Gold":   decimal.RequireFromString("0.833"),
	"18K Gold":   decimal.RequireFromString("0.750"),
	"16K Gold":   decimal.RequireFromString("0.667"),
	"999 Silver": decimal.RequireFromString("1.000"),
	"925 Silver": decimal.RequireFromString("0.925"),
	"800 Silver": decimal.RequireFromString("0.800"),
}

// Factor returns the multiplier for a purity label.
//
// Lookup is exact-match. Unknown labels return 1, so a misspelled purity is
// priced at the full base rate instead of failing.
func Factor(label string) decimal.Decimal {
	if f, ok := factors[label]; ok {
		return f
	}
	return decimal.NewFromInt(1)
}

// Known reports whether the label is in the purity table.
func Known(label string) bool {
	_, ok := factors[label]
	return ok
}

// Apply scales a base per-gram rate by the purity factor of label.
func Apply(base decimal.Decimal, label string) decimal.Decimal {
	return base.Mul(Factor(label))
}

// Labels returns all known labels sorted by descending factor, then by name.
func Labels() []string {
	labels := make([]string, 0, len(factors))
	for l := range factors {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		fi, fj := factors[labels[i]], factors[labels[j]]
		if !fi.Equal(fj) {
			return fi.GreaterThan(fj)
		}
		return labels[i] < labels[j]
	})
	return labels
}

// GoldKarats lists the gold labels in descending purity.
func GoldKarats() []string {
	return []string{"24K Gold", "22K Gold", "20K Gold", "18K Gold", "16K Gold"}
}

// SilverGrades lists the silver labels in descending purity.
func SilverGrades() []string {
	return []string{"999 Silver", "925 Silver", "800 Silver"}
}
