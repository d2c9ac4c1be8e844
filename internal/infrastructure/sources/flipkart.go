package sources

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/backend/internal/domain"
)

var flipkartCountries = countrySet(
	"IN",
	"US", "GB", "CA", "AU", "AE", "SG", "MY", "BD", "LK", "NP", "BT", "MV",
	"PK", "AF", "MM", "TH", "ID", "PH", "VN", "KH", "LA", "BN", "CN", "HK",
	"TW", "KR", "JP", "MN", "KZ", "UZ", "KG", "TJ", "TM",
)

// Flipkart extracts listings from flipkart.com. Prices without a symbol are rupees.
type Flipkart struct {
	layout pageLayout
}

// NewFlipkart creates the Flipkart extractor
func NewFlipkart() *Flipkart {
	return &Flipkart{layout: pageLayout{
		sourceID:        "flipkart",
		sourceName:      "Flipkart",
		baseURL:         "https://www.flipkart.com",
		defaultCurrency: "INR",
		storefronts:     map[string]string{"flipkart.com": "INR"},
		items:           []string{"[data-id]", "._1AtVbE", "._13oc-S"},
		name:            []string{".KzDlHZ", "._4rR01T", ".s1Q9rs", ".wjcEIp", "._2WkVRV", "a[title]"},
		nameAttr:        "title",
		price:           []string{".Nx9bqj", "._30jeq3", "._1_WHN1"},
		link:            []string{`a[href*="/p/"]`, "a.CGtC98", "._1fQZEK", "._2rpwqI", "a"},
		image:           []string{"img.DByuf4", "img._396cs4", "img"},
		rating:          []string{".XQDdHH", "._3LWZlK"},
		reviews:         []string{".Wphh3N", "._2_R_DZ"},
		shipping:        []string{".yiggsN", "._2Tpdn3"},
		availability:    []string{"._2JzHTl", ".Wqq8gw"},

		defaultAvailability: "In Stock",
	}}
}

func (f *Flipkart) ID() string      { return f.layout.sourceID }
func (f *Flipkart) Name() string    { return f.layout.sourceName }
func (f *Flipkart) BaseURL() string { return f.layout.baseURL }

func (f *Flipkart) SupportedCountries() []string { return sortedCodes(flipkartCountries) }

func (f *Flipkart) Supports(country string) bool { return flipkartCountries[country] }

// BuildRequestTarget ignores country: Flipkart has a single storefront
func (f *Flipkart) BuildRequestTarget(query, _ string, page int) string {
	target := fmt.Sprintf("https://www.flipkart.com/search?q=%s", url.QueryEscape(query))
	if page > 1 {
		target += fmt.Sprintf("&page=%d", page)
	}
	return target
}

func (f *Flipkart) Parse(doc *goquery.Document, defaultCurrency string) []domain.Listing {
	return f.layout.extract(doc, defaultCurrency)
}
