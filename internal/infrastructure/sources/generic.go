package sources

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/backend/internal/domain"
)

// Generic queries the Google Shopping aggregator and is the fallback for every
// country. Each listing's display Source is the merchant that sells it.
type Generic struct {
	layout pageLayout
}

// NewGeneric creates the aggregator extractor
func NewGeneric() *Generic {
	return &Generic{layout: pageLayout{
		sourceID:        "generic",
		sourceName:      "Generic",
		baseURL:         "https://www.google.com",
		defaultCurrency: "USD",
		items:           []string{".sh-dgr__content", ".sh-dlr__list-result", ".sh-pr__product-results-grid > div"},
		name:            []string{".sh-np__product-title", "h3", ".tAxDx"},
		price:           []string{".sh-np__price", ".a8Pemb", ".kHxwFf"},
		link:            []string{"a"},
		image:           []string{"img"},
		rating:          []string{".Rsc7Yb", `[aria-label*="out of 5"]`},
		reviews:         []string{".NzUzee", ".QIrs8"},
		shipping:        []string{".vEjMR", ".bONr3b"},
		merchant:        []string{".sh-np__seller-container", ".aULzUe", ".IuHnof"},

		defaultAvailability: "Available",
	}}
}

func (g *Generic) ID() string      { return g.layout.sourceID }
func (g *Generic) Name() string    { return g.layout.sourceName }
func (g *Generic) BaseURL() string { return g.layout.baseURL }

func (g *Generic) SupportedCountries() []string { return allCountryCodes() }

func (g *Generic) Supports(country string) bool { return isCountryCode(country) }

// BuildRequestTarget pages by result offset, ten results per page
func (g *Generic) BuildRequestTarget(query, country string, page int) string {
	target := fmt.Sprintf("https://www.google.com/search?q=%s&tbm=shop&gl=%s",
		url.QueryEscape(query), strings.ToLower(country))
	if page > 1 {
		target += fmt.Sprintf("&start=%d", (page-1)*10)
	}
	return target
}

func (g *Generic) Parse(doc *goquery.Document, defaultCurrency string) []domain.Listing {
	return g.layout.extract(doc, defaultCurrency)
}
