package usecase

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/currency"
	"github.com/pricelens/backend/internal/logger"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex = regexp.MustCompile(`[^\w\s]`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
)

// Confidence assigned by each matching path
const (
	confidenceExact      = 1.0
	confidenceNormalized = 0.95
	confidenceSemantic   = 0.9
	confidenceComplete   = 0.95 // brand + model + specs
	confidenceBrandModel = 0.85
	confidenceBrandSpec  = 0.75
	confidencePartial    = 0.6 // brand only or model only
	phraseConfidenceCap  = 0.9
)

// Thresholds. Structured and semantic results need matchThreshold to count as
// a match; the phrase fallback reports a match from phraseMatchThreshold.
const (
	matchThreshold       = 0.7
	phraseMatchThreshold = 0.5

	semanticCoverage = 0.8
	semanticMinRun   = 3

	exactBucket  = 0.95
	highBucket   = 0.8
	mediumBucket = 0.5
	lowBucket    = 0.3

	minStrongResults   = 5
	maxAdmittedResults = 10
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	EnableDebugLogging bool
}

// MatchingService decides whether scraped listings answer a search query
type MatchingService struct {
	attributes         *AttributeExtractor
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	return &MatchingService{
		attributes:         NewAttributeExtractor(config.EnableDebugLogging),
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Match scores one listing against the query. It depends only on the query
// and the listing's name and link. Paths are tried in order and the first
// one that produces a result wins:
//   - exact containment of the query in name and link
//   - containment after stripping punctuation
//   - a long in-order run of query words in the name
//   - brand, model and specification attributes
//   - 2 and 3 word phrase overlap
func (s *MatchingService) Match(query string, listing domain.Listing) domain.MatchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return domain.MatchResult{Reason: "Empty query", Strategy: domain.StrategyNone}
	}

	name := strings.ToLower(listing.Name)
	fullText := name + " " + strings.ToLower(listing.Link)

	if strings.Contains(fullText, q) {
		return domain.MatchResult{
			IsMatch:    true,
			Confidence: confidenceExact,
			Reason:     "Exact query match",
			Strategy:   domain.StrategyExact,
		}
	}

	if result, ok := normalizedMatch(q, name); ok {
		return result
	}

	if result, ok := semanticMatch(q, name); ok {
		return result
	}

	attrs := s.attributes.Extract(query)
	if result, ok := structuredMatch(attrs, name); ok {
		return result
	}

	return phraseMatch(q, fullText, attrs.Brands)
}

// normalizedMatch compares query and name with punctuation removed and whitespace collapsed
func normalizedMatch(query, name string) (domain.MatchResult, bool) {
	cleanQuery := normalizeText(query)
	if cleanQuery == "" || !strings.Contains(normalizeText(name), cleanQuery) {
		return domain.MatchResult{}, false
	}

	return domain.MatchResult{
		IsMatch:    true,
		Confidence: confidenceNormalized,
		Reason:     "Near-exact query match (normalized)",
		Strategy:   domain.StrategyNormalized,
	}, true
}

func normalizeText(s string) string {
	s = punctuationRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// semanticMatch looks for the longest run of consecutive query words that
// each appear, in the same order, among the listing words
func semanticMatch(query, name string) (domain.MatchResult, bool) {
	queryWords := longWords(query)
	if len(queryWords) == 0 {
		return domain.MatchResult{}, false
	}

	run := longestOrderedRun(queryWords, longWords(name))
	ratio := float64(run) / float64(len(queryWords))

	if ratio < semanticCoverage || run < semanticMinRun {
		return domain.MatchResult{}, false
	}

	return domain.MatchResult{
		IsMatch:    true,
		Confidence: confidenceSemantic,
		Reason:     fmt.Sprintf("High semantic similarity (%d/%d words in sequence)", run, len(queryWords)),
		Strategy:   domain.StrategySemantic,
	}, true
}

// longWords splits on whitespace and keeps words longer than two characters
func longWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(s) {
		if utf8.RuneCountInString(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}

// longestOrderedRun counts consecutive query words that match listing words at
// strictly increasing positions. A word matches when either contains the other.
func longestOrderedRun(queryWords, listingWords []string) int {
	best, run, last := 0, 0, -1

	for _, qw := range queryWords {
		pos := -1
		if run > 0 {
			pos = indexOfWord(listingWords, qw, last+1)
		}
		if pos < 0 {
			run = 0
			pos = indexOfWord(listingWords, qw, 0)
		}
		if pos < 0 {
			last = -1
			continue
		}

		run++
		last = pos
		best = max(best, run)
	}

	return best
}

func indexOfWord(words []string, word string, from int) int {
	for i := from; i < len(words); i++ {
		if strings.Contains(words[i], word) || strings.Contains(word, words[i]) {
			return i
		}
	}
	return -1
}

// structuredMatch applies the brand gate and the brand/model/spec ladder.
// ok is false when the listing fails the gate or nothing matched, in which
// case the caller falls through to the phrase path.
func structuredMatch(attrs QueryAttributes, name string) (domain.MatchResult, bool) {
	words := wordSet(name)

	brandMatch := false
	for _, brand := range attrs.Brands {
		if words[brand] {
			brandMatch = true
			break
		}
	}
	if len(attrs.Brands) > 0 && !brandMatch {
		return domain.MatchResult{}, false
	}

	modelMatch := false
	for _, model := range attrs.Models {
		if strings.Contains(name, model) {
			modelMatch = true
			break
		}
	}

	matchedSpecs := 0
	for _, spec := range attrs.Specs {
		if strings.Contains(name, spec) {
			matchedSpecs++
		}
	}
	specMatch := len(attrs.Specs) > 0 && matchedSpecs >= int(math.Ceil(float64(len(attrs.Specs))*0.5))

	var confidence float64
	var reason string

	switch {
	case brandMatch && modelMatch && specMatch:
		confidence, reason = confidenceComplete, "Complete match: brand, model, and specifications"
	case brandMatch && modelMatch:
		confidence, reason = confidenceBrandModel, "Strong match: brand and model"
	case brandMatch && specMatch:
		confidence, reason = confidenceBrandSpec, "Good match: brand and specifications"
	case brandMatch:
		confidence, reason = confidencePartial, "Partial match: brand only"
	case modelMatch:
		confidence, reason = confidencePartial, "Partial match: model only"
	default:
		return domain.MatchResult{}, false
	}

	return domain.MatchResult{
		IsMatch:    confidence >= matchThreshold,
		Confidence: confidence,
		Reason:     reason,
		Strategy:   domain.StrategyStructured,
	}, true
}

// phraseMatch is the last resort. It counts query phrases found in the
// listing text and reports a match from phraseMatchThreshold.
func phraseMatch(query, text string, brands []string) domain.MatchResult {
	phrases := extractPhrases(query)

	var matched []string
	for _, phrase := range phrases {
		if len(phrase) > 3 && strings.Contains(text, phrase) {
			matched = append(matched, phrase)
		}
	}

	if len(matched) == 0 {
		reason := "No significant matches"
		if len(brands) > 0 {
			reason = fmt.Sprintf("No brand match found. Expected: %s", strings.Join(brands, ", "))
		}
		return domain.MatchResult{Reason: reason, Strategy: domain.StrategyNone}
	}

	confidence := math.Min(phraseConfidenceCap, float64(len(matched))/float64(len(phrases))*0.8+0.1)
	confidence = roundConfidence(confidence)

	return domain.MatchResult{
		IsMatch:    confidence >= phraseMatchThreshold,
		Confidence: confidence,
		Reason:     fmt.Sprintf("Matched phrases: %s", strings.Join(matched, ", ")),
		Strategy:   domain.StrategyPhrase,
	}
}

// extractPhrases returns 2-word windows longer than 4 characters followed by
// 3-word windows longer than 8 characters
func extractPhrases(query string) []string {
	words := strings.Fields(query)
	var phrases []string

	for i := 0; i+1 < len(words); i++ {
		if phrase := words[i] + " " + words[i+1]; len(phrase) > 4 {
			phrases = append(phrases, phrase)
		}
	}
	for i := 0; i+2 < len(words); i++ {
		if phrase := words[i] + " " + words[i+1] + " " + words[i+2]; len(phrase) > 8 {
			phrases = append(phrases, phrase)
		}
	}

	return phrases
}

func roundConfidence(c float64) float64 {
	return math.Round(c*100) / 100
}

// MatchEach scores every listing independently, preserving input order
func (s *MatchingService) MatchEach(query string, listings []domain.Listing) []domain.MatchedListing {
	results := make([]domain.MatchedListing, len(listings))
	for i, l := range listings {
		results[i] = domain.MatchedListing{Listing: l, Match: s.Match(query, l)}
	}
	return results
}

// Admit applies the batch admission policy to scored results. Every match at
// or above matchThreshold is kept. When fewer than minStrongResults survive,
// weaker matches are admitted most-confident first, skipping links already
// kept, until maxAdmittedResults is reached. The result is ordered by
// confidence descending, then by ascending price.
func (s *MatchingService) Admit(results []domain.MatchedListing) []domain.MatchedListing {
	var admitted []domain.MatchedListing
	kept := make(map[string]bool)

	for _, r := range results {
		if r.Match.IsMatch && r.Match.Confidence >= matchThreshold {
			admitted = append(admitted, r)
			kept[r.Link] = true
		}
	}

	if len(admitted) < minStrongResults {
		var medium []domain.MatchedListing
		for _, r := range results {
			c := r.Match.Confidence
			if r.Match.IsMatch && c >= phraseMatchThreshold && c < matchThreshold && !kept[r.Link] {
				medium = append(medium, r)
			}
		}
		sort.SliceStable(medium, func(i, j int) bool {
			return medium[i].Match.Confidence > medium[j].Match.Confidence
		})

		for _, r := range medium {
			if len(admitted) >= maxAdmittedResults {
				break
			}
			if kept[r.Link] {
				continue
			}
			kept[r.Link] = true
			admitted = append(admitted, r)
		}
	}

	sort.SliceStable(admitted, func(i, j int) bool {
		ci, cj := admitted[i].Match.Confidence, admitted[j].Match.Confidence
		if ci != cj {
			return ci > cj
		}
		return currency.ParsePrice(admitted[i].RawPrice) < currency.ParsePrice(admitted[j].RawPrice)
	})

	if s.enableDebugLogging {
		logger.Log.Debugf("[MATCH] Admitted %d of %d listings", len(admitted), len(results))
	}

	return admitted
}

// MatchAll scores listings and returns the admitted subset
func (s *MatchingService) MatchAll(query string, listings []domain.Listing) []domain.MatchedListing {
	return s.Admit(s.MatchEach(query, listings))
}

// Statistics buckets match results by confidence: exact from 0.95, high from
// 0.8, medium from 0.5, low from 0.3 and none below that
func (s *MatchingService) Statistics(results []domain.MatchedListing) domain.MatchStatistics {
	stats := domain.MatchStatistics{Total: len(results)}
	if len(results) == 0 {
		return stats
	}

	var sum float64
	for _, r := range results {
		if r.Match.IsMatch {
			stats.Matches++
		}
		c := r.Match.Confidence
		sum += c

		switch {
		case c >= exactBucket:
			stats.Exact++
		case c >= highBucket:
			stats.HighConfidence++
		case c >= mediumBucket:
			stats.MediumConfidence++
		case c >= lowBucket:
			stats.LowConfidence++
		default:
			stats.NoMatch++
		}
	}

	stats.AverageConfidence = roundConfidence(sum / float64(len(results)))
	return stats
}
