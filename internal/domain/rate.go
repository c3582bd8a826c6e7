package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceFallback marks a quote that was not observed from any market source.
const SourceFallback = "fallback"

// RateQuote is a per-gram spot price for a full-fineness material (24K gold, 999 silver).
// Quotes are values: a newer observation supersedes an older one, nothing mutates it.
type RateQuote struct {
	Material    Material        `json:"material"`
	RatePerGram decimal.Decimal `json:"rate"`
	Change      decimal.Decimal `json:"change"`
	ObservedAt  time.Time       `json:"updatedAt"`
	Source      string          `json:"source,omitempty"`
}

// IsFallback reports whether the quote is a hardcoded default rather than an observation.
func (q RateQuote) IsFallback() bool {
	return q.Source == SourceFallback
}

// Valid reports whether the quote satisfies the positive-rate invariant.
func (q RateQuote) Valid() bool {
	return q.Material != "" && q.RatePerGram.IsPositive()
}

// ProductPriceQuote is the derived, never persisted price of a product at the current rate.
type ProductPriceQuote struct {
	ProductID   string          `json:"productId"`
	Weight      decimal.Decimal `json:"weight"`
	Purity      string          `json:"purity"`
	Material    Material        `json:"material"`
	RatePerGram decimal.Decimal `json:"ratePerGram"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	ObservedAt  time.Time       `json:"updatedAt"`
}
