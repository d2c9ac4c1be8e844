package usecase

import (
	"regexp"
	"strings"

	"github.com/pricelens/backend/internal/logger"
)

// Compiled patterns for attribute extraction. All are case-insensitive and
// matched against the raw query.
var (
	modelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bairdopes\s*\d+\s*(?:pro|max|plus|mini|air|ultra)?\b`),         // boAt Airdopes 141, Airdopes 311 Pro
		regexp.MustCompile(`(?i)\b\d+\s*(?:gb|tb|pro|max|plus|mini|air|ultra)\b`),               // 128GB, 15 Pro
		regexp.MustCompile(`(?i)\b(?:iphone|galaxy|pixel|oneplus)\s*\d+\s*(?:pro|max|plus|mini|air|ultra)?\b`),
		regexp.MustCompile(`(?i)\b\w+\s*\d{3,4}\s*(?:pro|max|plus|mini|air|ultra)?\b`),         // generic model numbers
		regexp.MustCompile(`(?i)\b(?:pro|max|plus|mini|air|ultra)\s*\d+\b`),                    // Max 2
	}

	productLinePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bairdopes\s*\d+\s*pro\b`),
		regexp.MustCompile(`(?i)\bairpods\s*pro\b`),
		regexp.MustCompile(`(?i)\bgalaxy\s*buds\b`),
	}

	specPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b\d+\s*(?:gb|tb|mb)\b`),                                       // storage
		regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:inch(?:es)?\b|")`),                        // screen size
		regexp.MustCompile(`(?i)\b(?:black|white|blue|red|green|gold|silver|gray|grey|pink|purple|yellow|orange)\b`),
		regexp.MustCompile(`(?i)\b(?:pro|max|plus|mini|air|ultra|lite|standard)\b`),             // variant word
		regexp.MustCompile(`(?i)\b\d+\s*(?:mp|megapixels?)\b`),                                 // camera
		regexp.MustCompile(`(?i)\b\d+\s*(?:mah|watts?|w)\b`),                                   // battery, power
	}

	wordSplitRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// knownBrands is a closed vocabulary; product lines that people search for
// like brands (iphone, galaxy, pixel) are included
var knownBrands = []string{
	"apple", "samsung", "google", "oneplus", "xiaomi", "huawei", "oppo", "vivo",
	"sony", "lg", "motorola", "nokia", "realme", "boat", "jbl", "bose",
	"nike", "adidas", "puma", "reebok", "dell", "hp", "lenovo", "asus",
	"acer", "msi", "razer", "logitech", "corsair", "steelseries", "sennheiser",
	"skullcandy", "beats", "airpods", "galaxy", "iphone", "pixel", "redmi",
}

// QueryAttributes are the structured parts of a search query
type QueryAttributes struct {
	Brands []string
	Models []string
	Specs  []string
}

// AttributeExtractor pulls brands, model identifiers and specification
// tokens out of free-text queries
type AttributeExtractor struct {
	enableDebugLogging bool
}

// NewAttributeExtractor creates a new attribute extractor
func NewAttributeExtractor(enableDebugLogging bool) *AttributeExtractor {
	return &AttributeExtractor{enableDebugLogging: enableDebugLogging}
}

// Extract returns the lowercase, de-duplicated attributes found in query
func (e *AttributeExtractor) Extract(query string) QueryAttributes {
	attrs := QueryAttributes{
		Brands: extractBrands(query),
		Models: matchAll(query, modelPatterns, productLinePatterns),
		Specs:  matchAll(query, specPatterns),
	}

	if e.enableDebugLogging {
		logger.Log.Debugf("[MATCH] Attributes for %q: brands=%v models=%v specs=%v",
			query, attrs.Brands, attrs.Models, attrs.Specs)
	}

	return attrs
}

// extractBrands returns vocabulary brands that appear as whole words in query
func extractBrands(query string) []string {
	words := wordSet(query)

	var brands []string
	for _, brand := range knownBrands {
		if words[brand] {
			brands = append(brands, brand)
		}
	}
	return brands
}

func matchAll(query string, groups ...[]*regexp.Regexp) []string {
	seen := make(map[string]bool)
	var out []string

	for _, patterns := range groups {
		for _, pattern := range patterns {
			for _, m := range pattern.FindAllString(query, -1) {
				m = strings.ToLower(strings.TrimSpace(m))
				if m == "" || seen[m] {
					continue
				}
				seen[m] = true
				out = append(out, m)
			}
		}
	}

	return out
}

// wordSet splits text into lowercase words on anything that is not a letter or digit
func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range wordSplitRegex.Split(strings.ToLower(text), -1) {
		if w != "" {
			set[w] = true
		}
	}
	return set
}
