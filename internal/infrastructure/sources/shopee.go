package sources

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/backend/internal/domain"
)

var shopeeCountries = countrySet(
	"SG", "MY", "TH", "ID", "VN", "PH", "TW", "BR", "MX", "CO", "CL", "AR",
	"HK", "KR", "JP", "AU", "NZ", "IN", "BD", "LK", "MM", "KH", "LA", "BN",
	"CN", "MO", "PK", "NP", "BT", "MV", "AF", "UZ", "KZ", "KG", "TJ", "TM",
)

var shopeeDomains = map[string]string{
	"SG": "shopee.sg", "MY": "shopee.com.my", "TH": "shopee.co.th", "ID": "shopee.co.id",
	"VN": "shopee.vn", "PH": "shopee.ph", "TW": "shopee.tw", "BR": "shopee.com.br",
	"MX": "shopee.com.mx", "CO": "shopee.com.co", "CL": "shopee.cl", "AR": "shopee.com.ar",
}

var shopeeStorefronts = map[string]string{
	"shopee.sg": "SGD", "shopee.com.my": "MYR", "shopee.co.th": "THB", "shopee.co.id": "IDR",
	"shopee.vn": "VND", "shopee.ph": "PHP", "shopee.tw": "TWD", "shopee.com.br": "BRL",
	"shopee.com.mx": "MXN", "shopee.com.co": "COP", "shopee.cl": "CLP", "shopee.com.ar": "ARS",
}

// Shopee extracts listings from Shopee search pages. The sold counter stands in for review count.
type Shopee struct {
	layout pageLayout
}

// NewShopee creates the Shopee extractor
func NewShopee() *Shopee {
	return &Shopee{layout: pageLayout{
		sourceID:        "shopee",
		sourceName:      "Shopee",
		baseURL:         "https://shopee.sg",
		defaultCurrency: "SGD",
		storefronts:     shopeeStorefronts,
		items:           []string{`[data-sqe="item"]`, ".shopee-search-item-result__item"},
		name:            []string{`[data-sqe="name"]`, ".shopee-search-item-result__text"},
		price:           []string{`[data-sqe="price"]`, ".shopee-search-item-result__price"},
		link:            []string{"a"},
		image:           []string{"img"},
		rating:          []string{`[data-sqe="rating"]`},
		reviews:         []string{`[data-sqe="sold"]`},
		shipping:        []string{`[data-sqe="shipping"]`},

		defaultAvailability: "Available",
	}}
}

func (s *Shopee) ID() string      { return s.layout.sourceID }
func (s *Shopee) Name() string    { return s.layout.sourceName }
func (s *Shopee) BaseURL() string { return s.layout.baseURL }

func (s *Shopee) SupportedCountries() []string { return sortedCodes(shopeeCountries) }

func (s *Shopee) Supports(country string) bool { return shopeeCountries[country] }

// BuildRequestTarget uses Shopee's 0-based page parameter
func (s *Shopee) BuildRequestTarget(query, country string, page int) string {
	domainName, ok := shopeeDomains[country]
	if !ok {
		domainName = "shopee.sg"
	}
	target := fmt.Sprintf("https://%s/search?keyword=%s", domainName, url.QueryEscape(query))
	if page > 1 {
		target += fmt.Sprintf("&page=%d", page-1)
	}
	return target
}

func (s *Shopee) Parse(doc *goquery.Document, defaultCurrency string) []domain.Listing {
	return s.layout.extract(doc, defaultCurrency)
}
