package rates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/shopspring/decimal"

	"github.com/mamde/storefront/internal/domain"
)

const (
	livePageName  = "livepage"
	liveUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var (
	gold24kSelectors = []string{"#gold24k", `[data-rate="24k"]`}
	silverSelectors  = []string{"#silver", `[data-rate="silver"]`}
)

var rateTextCleaner = strings.NewReplacer("₹", "", ",", "", " ", "", "\t", "", "\n", "", "\u00a0", "")

// LivePageSource scrapes 24K gold and silver rates from a jeweller's live rates page.
type LivePageSource struct {
	history
	url      string
	ttl      time.Duration
	timeout  time.Duration
	fallback map[domain.Material]decimal.Decimal
	now      func() time.Time
}

// NewLivePageSource creates a source that scrapes pageURL.
func NewLivePageSource(pageURL string, ttl, timeout time.Duration) *LivePageSource {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &LivePageSource{
		url:      pageURL,
		ttl:      ttl,
		timeout:  timeout,
		fallback: fallbackRates("6800", "85"),
		now:      time.Now,
	}
}

func (s *LivePageSource) Name() string { return livePageName }

func (s *LivePageSource) TTL() time.Duration { return s.ttl }

// Fetch scrapes the page. A rate missing from the page is served from history or fallback.
func (s *LivePageSource) Fetch(ctx context.Context) []domain.RateQuote {
	observed, err := s.scrape(ctx)
	if err != nil {
		s.failed(s.Name(), err)
		return s.resolve(s.Name(), s.now(), nil, s.fallback)
	}
	return s.resolve(s.Name(), s.now(), observed, s.fallback)
}

func (s *LivePageSource) scrape(ctx context.Context) (map[domain.Material]decimal.Decimal, error) {
	c := colly.NewCollector(
		colly.UserAgent(liveUserAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(s.timeout)

	var observed map[domain.Material]decimal.Decimal
	c.OnHTML("html", func(e *colly.HTMLElement) {
		observed = parseRatesDocument(e.DOM)
	})

	if err := c.Visit(s.url); err != nil {
		return nil, fmt.Errorf("visiting live rates page: %w", err)
	}
	if len(observed) == 0 {
		return nil, fmt.Errorf("no numeric rate found on live rates page")
	}
	return observed, nil
}

// parseRatesDocument extracts the whole-rupee 24K gold and silver rates from the page.
func parseRatesDocument(doc *goquery.Selection) map[domain.Material]decimal.Decimal {
	observed := make(map[domain.Material]decimal.Decimal, 2)
	if gold, ok := firstRate(doc, gold24kSelectors); ok {
		observed[domain.MaterialGold] = gold
	}
	if silver, ok := firstRate(doc, silverSelectors); ok {
		observed[domain.MaterialSilver] = silver
	}
	return observed
}

func firstRate(doc *goquery.Selection, selectors []string) (decimal.Decimal, bool) {
	for _, sel := range selectors {
		if rate, ok := ParseRateText(doc.Find(sel).First().Text()); ok {
			return rate, true
		}
	}
	return decimal.Zero, false
}

// ParseRateText parses a displayed price such as "₹ 6,812.40" into a whole-rupee rate.
func ParseRateText(text string) (decimal.Decimal, bool) {
	cleaned := rateTextCleaner.Replace(text)
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d.Round(0), true
}
