package sources

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/backend/internal/domain"
)

var lazadaCountries = countrySet(
	"SG", "MY", "TH", "ID", "VN", "PH",
	"HK", "TW", "KR", "JP", "AU", "NZ", "IN", "BD", "LK", "MM", "KH", "LA", "BN", "CN",
)

var lazadaDomains = map[string]string{
	"SG": "www.lazada.sg", "MY": "www.lazada.com.my", "TH": "www.lazada.co.th",
	"ID": "www.lazada.co.id", "VN": "www.lazada.vn", "PH": "www.lazada.com.ph",
}

var lazadaStorefronts = map[string]string{
	"lazada.sg": "SGD", "lazada.com.my": "MYR", "lazada.co.th": "THB",
	"lazada.co.id": "IDR", "lazada.vn": "VND", "lazada.com.ph": "PHP",
}

// Lazada extracts listings from Lazada catalog pages
type Lazada struct {
	layout pageLayout
}

// NewLazada creates the Lazada extractor
func NewLazada() *Lazada {
	return &Lazada{layout: pageLayout{
		sourceID:        "lazada",
		sourceName:      "Lazada",
		baseURL:         "https://www.lazada.sg",
		defaultCurrency: "SGD",
		storefronts:     lazadaStorefronts,
		items:           []string{`[data-qa-locator="product-item"]`, ".Bm3ON"},
		name:            []string{`[data-qa-locator="product-name"]`, ".RfADt"},
		nameAttr:        "title",
		price:           []string{`[data-qa-locator="product-price"]`, ".aBrP0", ".ooOxS"},
		link:            []string{"a"},
		image:           []string{"img"},
		rating:          []string{`[data-qa-locator="product-rating"]`},
		reviews:         []string{`[data-qa-locator="product-review-count"]`, ".qzqFw"},
		shipping:        []string{`[data-qa-locator="product-shipping"]`},

		defaultAvailability: "Available",
	}}
}

func (l *Lazada) ID() string      { return l.layout.sourceID }
func (l *Lazada) Name() string    { return l.layout.sourceName }
func (l *Lazada) BaseURL() string { return l.layout.baseURL }

func (l *Lazada) SupportedCountries() []string { return sortedCodes(lazadaCountries) }

func (l *Lazada) Supports(country string) bool { return lazadaCountries[country] }

func (l *Lazada) BuildRequestTarget(query, country string, page int) string {
	domainName, ok := lazadaDomains[country]
	if !ok {
		domainName = "www.lazada.sg"
	}
	target := fmt.Sprintf("https://%s/catalog/?q=%s", domainName, url.QueryEscape(query))
	if page > 1 {
		target += fmt.Sprintf("&page=%d", page)
	}
	return target
}

func (l *Lazada) Parse(doc *goquery.Document, defaultCurrency string) []domain.Listing {
	return l.layout.extract(doc, defaultCurrency)
}
