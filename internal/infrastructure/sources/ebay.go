package sources

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/backend/internal/domain"
)

var ebayDomains = map[string]string{
	"US": "ebay.com", "GB": "ebay.co.uk", "CA": "ebay.ca", "AU": "ebay.com.au",
	"DE": "ebay.de", "FR": "ebay.fr", "IT": "ebay.it", "ES": "ebay.es",
	"NL": "ebay.nl", "BE": "ebay.be", "AT": "ebay.at", "CH": "ebay.ch",
	"IE": "ebay.ie", "PL": "ebay.pl", "IN": "ebay.in", "SG": "ebay.com.sg",
	"MY": "ebay.com.my", "PH": "ebay.ph", "HK": "ebay.com.hk",

	"NO": "ebay.de", "DK": "ebay.de", "SE": "ebay.de", "FI": "ebay.de",
	"GR": "ebay.de", "CY": "ebay.de", "MT": "ebay.de", "CZ": "ebay.de",
	"SK": "ebay.de", "HU": "ebay.de", "RO": "ebay.de", "BG": "ebay.de",
	"HR": "ebay.de", "SI": "ebay.de", "EE": "ebay.de", "LV": "ebay.de", "LT": "ebay.de",
	"PT": "ebay.es", "LU": "ebay.fr", "IS": "ebay.co.uk",
	"TH": "ebay.com.sg", "ID": "ebay.com.sg", "VN": "ebay.com.sg",
	"NZ": "ebay.com.au", "PK": "ebay.in", "BD": "ebay.in", "LK": "ebay.in",
}

var ebayStorefronts = map[string]string{
	"ebay.com": "USD", "ebay.co.uk": "GBP", "ebay.ca": "CAD", "ebay.com.au": "AUD",
	"ebay.de": "EUR", "ebay.fr": "EUR", "ebay.it": "EUR", "ebay.es": "EUR",
	"ebay.nl": "EUR", "ebay.be": "EUR", "ebay.at": "EUR", "ebay.ch": "CHF",
	"ebay.ie": "EUR", "ebay.pl": "PLN", "ebay.in": "INR", "ebay.com.sg": "SGD",
	"ebay.com.my": "MYR", "ebay.ph": "PHP", "ebay.com.hk": "HKD",
}

// Ebay extracts listings from eBay search result pages. eBay ships worldwide,
// so every country code is supported.
type Ebay struct {
	layout pageLayout
}

// NewEbay creates the eBay extractor
func NewEbay() *Ebay {
	return &Ebay{layout: pageLayout{
		sourceID:        "ebay",
		sourceName:      "eBay",
		baseURL:         "https://www.ebay.com",
		defaultCurrency: "USD",
		storefronts:     ebayStorefronts,
		items:           []string{"li.s-item", ".s-item", "li.s-card"},
		name:            []string{".s-item__title span", ".s-item__title", ".s-card__title"},
		price:           []string{".s-item__price", ".s-card__price"},
		link:            []string{"a.s-item__link", ".s-item__info a", "a"},
		image:           []string{".s-item__image img", "img"},
		rating:          []string{".x-star-rating .clipped", ".s-item__reviews .clipped"},
		reviews:         []string{".s-item__reviews-count span", ".s-item__reviews-count"},
		shipping:        []string{".s-item__shipping", ".s-item__logisticsCost", ".s-item__freeXDays"},
		condition:       []string{".s-item__subtitle .SECONDARY_INFO", ".s-item__subtitle"},
		availability:    []string{".s-item__hotness", ".s-item__quantitySold"},
		skip: func(item *goquery.Selection, name string) bool {
			if name == "Shop on eBay" {
				return true
			}
			return strings.Contains(item.Find(".s-item__subtitle, .s-item__sep").Text(), "Sponsored")
		},
		defaultAvailability: "Available",
	}}
}

func (e *Ebay) ID() string      { return e.layout.sourceID }
func (e *Ebay) Name() string    { return e.layout.sourceName }
func (e *Ebay) BaseURL() string { return e.layout.baseURL }

func (e *Ebay) SupportedCountries() []string { return allCountryCodes() }

func (e *Ebay) Supports(country string) bool { return isCountryCode(country) }

// BuildRequestTarget returns the regional search URL; page 1 carries no page parameter
func (e *Ebay) BuildRequestTarget(query, country string, page int) string {
	domainName, ok := ebayDomains[country]
	if !ok {
		domainName = "ebay.com"
	}
	target := fmt.Sprintf("https://www.%s/sch/i.html?_nkw=%s&_sacat=0", domainName, url.QueryEscape(query))
	if page > 1 {
		target += fmt.Sprintf("&_pgn=%d", page)
	}
	return target
}

func (e *Ebay) Parse(doc *goquery.Document, defaultCurrency string) []domain.Listing {
	listings := e.layout.extract(doc, defaultCurrency)
	for i := range listings {
		listings[i].Name = strings.TrimSpace(strings.TrimPrefix(listings[i].Name, "New Listing"))
	}
	return listings
}
