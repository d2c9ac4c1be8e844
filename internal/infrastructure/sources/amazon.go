package sources

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/backend/internal/domain"
)

var amazonCountries = countrySet(
	"US", "IN", "GB", "CA", "AU", "DE", "FR", "JP", "BR", "MX",
	"IT", "ES", "NL", "SE", "PL", "TR", "AE", "SA", "SG", "EG",
	"AR", "AT", "BE", "BG", "BO", "CH", "CL", "CN", "CO", "CR",
	"CY", "CZ", "DK", "EC", "EE", "FI", "GR", "GT", "HK", "HR",
	"HU", "ID", "IE", "IL", "IS", "KR", "LT", "LU", "LV", "MT",
	"MY", "NO", "NZ", "PA", "PE", "PH", "PT", "RO", "SI", "SK",
	"TH", "TW", "UY", "VE", "VN", "ZA",
)

// local storefronts; countries without one are served by the closest regional store
var amazonDomains = map[string]string{
	"US": "amazon.com", "IN": "amazon.in", "GB": "amazon.co.uk", "CA": "amazon.ca",
	"AU": "amazon.com.au", "DE": "amazon.de", "FR": "amazon.fr", "JP": "amazon.co.jp",
	"BR": "amazon.com.br", "MX": "amazon.com.mx", "IT": "amazon.it", "ES": "amazon.es",
	"NL": "amazon.nl", "SE": "amazon.se", "PL": "amazon.pl", "TR": "amazon.com.tr",
	"AE": "amazon.ae", "SA": "amazon.sa", "SG": "amazon.sg", "EG": "amazon.eg",
	"BE": "amazon.com.be", "CN": "amazon.cn",

	"AT": "amazon.de", "CH": "amazon.de", "GR": "amazon.de", "CY": "amazon.de",
	"MT": "amazon.de", "CZ": "amazon.de", "SK": "amazon.de", "HU": "amazon.de",
	"RO": "amazon.de", "BG": "amazon.de", "HR": "amazon.de", "SI": "amazon.de",
	"EE": "amazon.de", "LV": "amazon.de", "LT": "amazon.de",
	"NO": "amazon.se", "DK": "amazon.se", "FI": "amazon.se",
	"IE": "amazon.co.uk", "IS": "amazon.co.uk", "PT": "amazon.es", "LU": "amazon.fr",
	"TH": "amazon.sg", "MY": "amazon.sg", "ID": "amazon.sg", "PH": "amazon.sg", "VN": "amazon.sg",
	"NZ": "amazon.com.au",
}

var amazonStorefronts = map[string]string{
	"amazon.com": "USD", "amazon.in": "INR", "amazon.co.uk": "GBP", "amazon.ca": "CAD",
	"amazon.com.au": "AUD", "amazon.de": "EUR", "amazon.fr": "EUR", "amazon.co.jp": "JPY",
	"amazon.com.br": "BRL", "amazon.com.mx": "MXN", "amazon.it": "EUR", "amazon.es": "EUR",
	"amazon.nl": "EUR", "amazon.se": "SEK", "amazon.pl": "PLN", "amazon.com.tr": "TRY",
	"amazon.ae": "AED", "amazon.sa": "SAR", "amazon.sg": "SGD", "amazon.eg": "EGP",
	"amazon.com.be": "EUR", "amazon.cn": "CNY",
}

// Amazon extracts listings from Amazon search result pages
type Amazon struct {
	layout pageLayout
}

// NewAmazon creates the Amazon extractor
func NewAmazon() *Amazon {
	return &Amazon{layout: pageLayout{
		sourceID:        "amazon",
		sourceName:      "Amazon",
		baseURL:         "https://www.amazon.com",
		defaultCurrency: "USD",
		storefronts:     amazonStorefronts,
		items: []string{
			`[data-component-type="s-search-result"]`,
			`.s-result-item[data-asin]`,
			`[data-asin]`,
		},
		name: []string{
			"h2 a span",
			"h2 span",
			".s-size-mini span",
			`[data-cy="title-recipe"] span`,
		},
		price: []string{
			".a-price .a-offscreen",
			".a-price-range .a-offscreen",
			".a-price-whole",
		},
		link:         []string{"h2 a", "a.s-link-style", "a.a-link-normal"},
		image:        []string{"img.s-image", "img"},
		rating:       []string{".a-icon-alt", `[aria-label*="out of 5"]`},
		reviews:      []string{`[aria-label$="ratings"]`, ".s-underline-text", ".a-size-base.s-underline-text"},
		availability: []string{`[aria-label*="in stock"]`, ".a-color-price"},
		shipping:     []string{`[data-cy="delivery-recipe"]`, ".s-align-children-center .a-color-base"},
		skip: func(item *goquery.Selection, _ string) bool {
			asin, ok := item.Attr("data-asin")
			return ok && asin == ""
		},
		defaultAvailability: "In Stock",
	}}
}

func (a *Amazon) ID() string      { return a.layout.sourceID }
func (a *Amazon) Name() string    { return a.layout.sourceName }
func (a *Amazon) BaseURL() string { return a.layout.baseURL }

func (a *Amazon) SupportedCountries() []string { return sortedCodes(amazonCountries) }

func (a *Amazon) Supports(country string) bool { return amazonCountries[country] }

func (a *Amazon) domainFor(country string) string {
	if d, ok := amazonDomains[country]; ok {
		return d
	}
	return "amazon.com"
}

// BuildRequestTarget returns the storefront search URL for the given page
func (a *Amazon) BuildRequestTarget(query, country string, page int) string {
	return fmt.Sprintf("https://www.%s/s?k=%s&page=%d&ref=sr_pg_%d",
		a.domainFor(country), url.QueryEscape(query), page, page)
}

func (a *Amazon) Parse(doc *goquery.Document, defaultCurrency string) []domain.Listing {
	return a.layout.extract(doc, defaultCurrency)
}
