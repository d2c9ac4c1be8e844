// Package sources holds one extractor per marketplace and the lookup table that selects them.
package sources

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/currency"
)

var (
	ratingRegex = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	countRegex  = regexp.MustCompile(`(\d[\d,.]*)\s*([kKmM])?\b`)
	spaceRegex  = regexp.MustCompile(`\s+`)
)

// pageLayout is the ordered list of candidate selectors for each field of a
// result card. The first selector that yields a non-empty value wins.
type pageLayout struct {
	sourceID        string
	sourceName      string
	baseURL         string
	defaultCurrency string

	// storefronts maps a host without "www." to the currency its prices are listed in
	storefronts map[string]string

	items        []string
	name         []string
	nameAttr     string // attribute checked before text, e.g. "title"
	price        []string
	link         []string
	image        []string
	rating       []string
	reviews      []string
	availability []string
	shipping     []string
	condition    []string
	merchant     []string // overrides the display name for aggregator results

	defaultAvailability string

	// skip drops cards such as ads before any field is read
	skip func(item *goquery.Selection, name string) bool
}

// extract applies the layout to every result card in doc. Cards without a
// name, a link or a positive price are dropped silently.
func (l *pageLayout) extract(doc *goquery.Document, defaultCurrency string) []domain.Listing {
	if doc == nil {
		return nil
	}

	base := l.baseURL
	if doc.Url != nil {
		base = doc.Url.String()
	}
	fallbackCurrency := l.currencyFor(doc, defaultCurrency)

	var listings []domain.Listing
	findItems(doc.Selection, l.items).Each(func(_ int, item *goquery.Selection) {
		name := cleanText(firstValue(item, l.nameAttr, l.name))
		if name == "" {
			return
		}
		if l.skip != nil && l.skip(item, name) {
			return
		}

		priceText := firstText(item, l.price)
		rawPrice, _, ok := currency.ExtractPrice(priceText)
		if !ok {
			return
		}

		link := resolveURL(base, firstAttr(item, "href", l.link))
		if link == "" {
			return
		}

		listing := domain.Listing{
			Link:         link,
			RawPrice:     rawPrice,
			Currency:     currency.DetectCurrency(priceText, fallbackCurrency),
			Name:         name,
			SourceID:     l.sourceID,
			Source:       l.sourceName,
			ImageURL:     resolveURL(base, firstImage(item, l.image)),
			Rating:       parseRating(firstText(item, l.rating)),
			ReviewCount:  parseCount(firstText(item, l.reviews)),
			Availability: cleanText(firstText(item, l.availability)),
			Shipping:     cleanText(firstText(item, l.shipping)),
			Condition:    cleanText(firstText(item, l.condition)),
		}
		if listing.Availability == "" {
			listing.Availability = l.defaultAvailability
		}
		if merchant := cleanText(firstText(item, l.merchant)); merchant != "" {
			listing.Source = merchant
		}

		listings = append(listings, listing)
	})

	return listings
}

// currencyFor picks the currency of prices that carry no unambiguous symbol.
// The storefront the page was served from comes first, then the caller's
// country currency, then the extractor's own default.
func (l *pageLayout) currencyFor(doc *goquery.Document, defaultCurrency string) string {
	if doc.Url != nil {
		host := strings.TrimPrefix(strings.ToLower(doc.Url.Hostname()), "www.")
		if code, ok := l.storefronts[host]; ok {
			return code
		}
	}
	if defaultCurrency != "" {
		return defaultCurrency
	}
	return l.defaultCurrency
}

// findItems returns the matches of the first selector that finds anything
func findItems(root *goquery.Selection, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		if found := root.Find(selector); found.Length() > 0 {
			return found
		}
	}
	return root.Slice(0, 0)
}

func firstText(item *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(item.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func firstAttr(item *goquery.Selection, attr string, selectors []string) string {
	for _, selector := range selectors {
		if value, ok := item.Find(selector).First().Attr(attr); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func firstValue(item *goquery.Selection, attr string, selectors []string) string {
	for _, selector := range selectors {
		node := item.Find(selector).First()
		if attr != "" {
			if value, ok := node.Attr(attr); ok && strings.TrimSpace(value) != "" {
				return value
			}
		}
		if text := strings.TrimSpace(node.Text()); text != "" {
			return text
		}
	}
	return ""
}

func firstImage(item *goquery.Selection, selectors []string) string {
	if src := firstAttr(item, "src", selectors); src != "" && !strings.HasPrefix(src, "data:") {
		return src
	}
	return firstAttr(item, "data-src", selectors)
}

func resolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	b, err := url.Parse(base)
	if err != nil || b.Host == "" {
		return ""
	}
	return b.ResolveReference(ref).String()
}

func cleanText(s string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}

// parseRating reads "4.5 out of 5 stars" style text; values outside 0..5 are ignored
func parseRating(text string) *float64 {
	match := ratingRegex.FindString(text)
	if match == "" {
		return nil
	}
	value, err := strconv.ParseFloat(strings.Replace(match, ",", ".", 1), 64)
	if err != nil || value < 0 || value > 5 {
		return nil
	}
	return &value
}

// parseCount reads "(1,234)", "2.3k sold" or "5 reviews"
func parseCount(text string) *int {
	m := countRegex.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	digits := m[1]
	if m[2] != "" {
		value, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", "."), 64)
		if err != nil {
			return nil
		}
		multiplier := 1000.0
		if strings.EqualFold(m[2], "m") {
			multiplier = 1000000
		}
		count := int(math.Round(value * multiplier))
		return &count
	}

	count, err := strconv.Atoi(strings.NewReplacer(",", "", ".", "").Replace(digits))
	if err != nil || count < 0 {
		return nil
	}
	return &count
}

// countrySet builds a lookup set from ISO codes
func countrySet(codes ...string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}

func sortedCodes(set map[string]bool) []string {
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
