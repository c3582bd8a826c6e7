package rates

import (
	"github.com/shopspring/decimal"

	"github.com/mamde/storefront/internal/domain"
	"github.com/mamde/storefront/internal/purity"
)

// PurityRate is the per-gram rate of one purity grade.
type PurityRate struct {
	Purity      string          `json:"purity"`
	RatePerGram decimal.Decimal `json:"ratePerGram"`
}

// Breakdown derives the per-gram rate of every purity grade of the quote's material.
// Grades derived from a live page quote are rounded to whole rupees like the
// page itself; other sources keep paise.
func Breakdown(q domain.RateQuote) []PurityRate {
	round := domain.RoundMoney
	if q.Source == livePageName {
		round = func(d decimal.Decimal) decimal.Decimal { return d.Round(0) }
	}

	var labels []string
	switch q.Material {
	case domain.MaterialGold:
		labels = purity.GoldKarats()
	case domain.MaterialSilver:
		labels = purity.SilverGrades()
	}

	out := make([]PurityRate, 0, len(labels))
	for _, l := range labels {
		out = append(out, PurityRate{
			Purity:      l,
			RatePerGram: round(purity.Apply(q.RatePerGram, l)),
		})
	}
	return out
}
