package domain

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// SourceExtractor turns a query into a request target and a fetched page into listings
type SourceExtractor interface {
	ID() string
	Name() string
	BaseURL() string
	SupportedCountries() []string
	Supports(country string) bool
	// BuildRequestTarget is pure. Callers check Supports first.
	BuildRequestTarget(query, country string, page int) string
	// Parse is best-effort and only emits listings with a link, a name and a non-zero price.
	// defaultCurrency is the searched country's currency. It applies to prices whose
	// symbol is missing or shared when the page's storefront does not fix the currency.
	Parse(doc *goquery.Document, defaultCurrency string) []Listing
}

// ExtractorRegistry looks extractors up by source id
type ExtractorRegistry interface {
	Get(id string) (SourceExtractor, bool)
	Info() []SourceInfo
}

// FetchTransport fetches and parses one page within a bounded timeout
type FetchTransport interface {
	Fetch(ctx context.Context, uri string) (*goquery.Document, error)
}

// SourceRegistry is the static country reference data
type SourceRegistry interface {
	SourcesFor(country string) []string
	CurrencyFor(country string) string
	Country(code string) (Country, bool)
	Countries() []Country
	IsSupported(code string) bool
}

// RateProvider returns USD-based exchange rates (units of currency per 1 USD)
type RateProvider interface {
	FetchRates(ctx context.Context) (map[string]float64, error)
}

// RateTable converts amounts between currencies
type RateTable interface {
	EnsureFresh(ctx context.Context) error
	Convert(amount float64, from, to string) (float64, error)
}

// Clock abstracts time for cache expiry
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time { return time.Now() }
