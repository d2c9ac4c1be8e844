package usecase

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/currency"
	"github.com/pricelens/backend/internal/logger"
)

// DefaultDedupThreshold is the similarity above which two listings are duplicates
const DefaultDedupThreshold = 0.8

// Quality score caps per factor
const (
	ratingPoints       = 40.0
	reviewPoints       = 20.0
	reviewSaturation   = 1000.0
	availabilityPoints = 20
	reputationDefault  = 5
)

// Similarity weights for duplicate detection
const (
	nameWeight       = 0.6
	priceWeight      = 0.3
	sameSourceWeight = 0.1
	priceTolerance   = 0.1 // prices within 10% count as close
)

// sourceReputation scores well-known marketplaces. Keys are source ids or
// merchant names lowercased with non-letters removed.
var sourceReputation = map[string]int{
	"amazon":   10,
	"flipkart": 9,
	"walmart":  9,
	"ebay":     8,
	"bestbuy":  8,
	"target":   8,
}

var (
	outOfStockPhrases   = []string{"out of stock", "unavailable", "sold out"}
	limitedStockPhrases = []string{"limited", "few left", "left in stock"}
	inStockPhrases      = []string{"in stock", "available"}
)

// ResultProcessor normalizes, scores, filters, sorts and deduplicates matched listings
type ResultProcessor struct {
	rates domain.RateTable
}

// NewResultProcessor creates a processor. rates may be nil, in which case no
// currency conversion happens.
func NewResultProcessor(rates domain.RateTable) *ResultProcessor {
	return &ResultProcessor{rates: rates}
}

// Process turns matched listings into scored listings filtered and ordered per opts.
// It never fails: a stale or incomplete rate table only leaves prices unconverted.
func (p *ResultProcessor) Process(ctx context.Context, matched []domain.MatchedListing, opts domain.SearchOptions) []domain.ScoredListing {
	opts = opts.Normalize()

	if p.rates != nil && opts.TargetCurrency != "" {
		if err := p.rates.EnsureFresh(ctx); err != nil {
			logger.Log.Warnf("[RATES] Using cached exchange rates: %v", err)
		}
	}

	scored := make([]domain.ScoredListing, 0, len(matched))
	for _, m := range matched {
		s := p.normalize(m, opts.TargetCurrency)
		if keep(s, opts) {
			scored = append(scored, s)
		}
	}

	sortListings(scored, opts.SortBy, opts.SortOrder)
	return scored
}

func (p *ResultProcessor) normalize(m domain.MatchedListing, target string) domain.ScoredListing {
	s := domain.ScoredListing{
		MatchedListing:  m,
		NormalizedPrice: currency.ParsePrice(m.RawPrice),
		TargetCurrency:  target,
	}

	displayCurrency := m.Currency
	if target != "" && !strings.EqualFold(target, m.Currency) && p.rates != nil {
		converted, err := p.rates.Convert(s.NormalizedPrice, m.Currency, target)
		if err != nil {
			logger.Log.WithField("link", m.Link).Warnf("[RATES] Keeping %s price: %v", m.Currency, err)
		} else {
			converted = math.Round(converted*100) / 100
			s.ConvertedPrice = &converted
			displayCurrency = target
		}
	}

	s.FormattedPrice = currency.Format(s.EffectivePrice(), displayCurrency)
	s.QualityScore = qualityScore(m.Listing)
	return s
}

// qualityScore blends rating, review volume, availability, source reputation
// and shipping terms into an integer in [0, 100]
func qualityScore(l domain.Listing) int {
	score := 0.0

	if l.Rating != nil {
		score += clamp(*l.Rating/5, 0, 1) * ratingPoints
	}
	if l.ReviewCount != nil {
		score += clamp(float64(*l.ReviewCount)/reviewSaturation, 0, 1) * reviewPoints
	}

	score += float64(availabilityScore(l.Availability))
	score += float64(reputation(l))
	score += float64(shippingScore(l.Shipping))

	return int(clamp(math.Round(score), 0, 100))
}

func availabilityScore(text string) int {
	text = strings.ToLower(text)
	switch {
	case containsAny(text, outOfStockPhrases):
		return 0
	case containsAny(text, limitedStockPhrases):
		return 15
	case containsAny(text, inStockPhrases):
		return availabilityPoints
	default:
		return 10
	}
}

func reputation(l domain.Listing) int {
	if score, ok := sourceReputation[l.SourceID]; ok {
		return score
	}
	if score, ok := sourceReputation[lettersOnly(l.Source)]; ok {
		return score
	}
	return reputationDefault
}

func shippingScore(text string) int {
	text = strings.ToLower(strings.TrimSpace(text))
	switch {
	case text == "":
		return 0
	case strings.Contains(text, "free"):
		return 10
	case strings.Contains(text, "fast"), strings.Contains(text, "express"):
		return 8
	default:
		return 5
	}
}

// keep reports whether a listing passes every active filter
func keep(s domain.ScoredListing, opts domain.SearchOptions) bool {
	if opts.MinRating != nil && s.Rating != nil && *s.Rating < *opts.MinRating {
		return false
	}
	if opts.MaxPrice != nil && s.EffectivePrice() > *opts.MaxPrice {
		return false
	}
	if len(opts.SourceAllowlist) > 0 && !allowed(s.Listing, opts.SourceAllowlist) {
		return false
	}
	if !opts.IncludeOutOfStock && containsAny(strings.ToLower(s.Availability), outOfStockPhrases) {
		return false
	}
	return true
}

func allowed(l domain.Listing, allowlist []string) bool {
	for _, src := range allowlist {
		if strings.EqualFold(src, l.SourceID) || strings.EqualFold(src, l.Source) {
			return true
		}
	}
	return false
}

// sortListings orders in place. The sort is stable so equal keys keep their
// post-match order; desc inverts the comparator. Rating sorts highest first
// under asc.
func sortListings(listings []domain.ScoredListing, sortBy, order string) {
	sign := 1
	if order == domain.SortDesc {
		sign = -1
	}

	compare := func(a, b domain.ScoredListing) int {
		switch sortBy {
		case domain.SortByRating:
			return compareFloat(b.RatingValue(), a.RatingValue())
		case domain.SortBySource:
			return strings.Compare(strings.ToLower(a.Source), strings.ToLower(b.Source))
		case domain.SortByName:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		default:
			return compareFloat(a.EffectivePrice(), b.EffectivePrice())
		}
	}

	sort.SliceStable(listings, func(i, j int) bool {
		return sign*compare(listings[i], listings[j]) < 0
	})
}

// RemoveDuplicates keeps a listing unless an already kept listing is more
// similar to it than threshold. threshold <= 0 uses DefaultDedupThreshold.
// Applying it to its own output returns the same listings.
func (p *ResultProcessor) RemoveDuplicates(listings []domain.ScoredListing, threshold float64) []domain.ScoredListing {
	if threshold <= 0 {
		threshold = DefaultDedupThreshold
	}

	unique := make([]domain.ScoredListing, 0, len(listings))
	for _, candidate := range listings {
		duplicate := false
		for _, existing := range unique {
			if similarity(existing, candidate) > threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, candidate)
		}
	}

	if removed := len(listings) - len(unique); removed > 0 {
		logger.Log.Debugf("[SEARCH] Removed %d duplicate listings", removed)
	}
	return unique
}

// similarity blends name word overlap, price closeness and a same-source bonus
func similarity(a, b domain.ScoredListing) float64 {
	score := nameOverlap(a.Name, b.Name)*nameWeight + priceCloseness(a.EffectivePrice(), b.EffectivePrice())*priceWeight
	if a.SourceID == b.SourceID && a.Source == b.Source {
		score += sameSourceWeight
	}
	return score
}

// nameOverlap is shared distinct words over the larger distinct word count
func nameOverlap(name1, name2 string) float64 {
	words1 := distinctWords(name1)
	words2 := distinctWords(name2)
	larger := max(len(words1), len(words2))
	if larger == 0 {
		return 0
	}

	shared := 0
	for w := range words1 {
		if words2[w] {
			shared++
		}
	}
	return float64(shared) / float64(larger)
}

func distinctWords(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}

func priceCloseness(p1, p2 float64) float64 {
	avg := (p1 + p2) / 2
	if avg <= 0 {
		return 1
	}
	return math.Max(0, 1-(math.Abs(p1-p2)/avg)/priceTolerance)
}

// BuildStatistics summarizes the final listing set
func BuildStatistics(listings []domain.ScoredListing) domain.Statistics {
	stats := domain.Statistics{
		SourceBreakdown:   make(map[string]int),
		CurrencyBreakdown: make(map[string]int),
		PriceRanges:       make(map[string]domain.PriceRange),
	}
	if len(listings) == 0 {
		return stats
	}

	type acc struct {
		min, max, sum float64
		n             int
	}
	perCurrency := make(map[string]*acc)

	var priceSum, ratingSum float64
	var priced, rated int

	for _, l := range listings {
		stats.SourceBreakdown[l.Source]++
		stats.CurrencyBreakdown[l.Currency]++

		if l.NormalizedPrice > 0 {
			a, ok := perCurrency[l.Currency]
			if !ok {
				a = &acc{min: l.NormalizedPrice, max: l.NormalizedPrice}
				perCurrency[l.Currency] = a
			}
			a.min = math.Min(a.min, l.NormalizedPrice)
			a.max = math.Max(a.max, l.NormalizedPrice)
			a.sum += l.NormalizedPrice
			a.n++
		}

		if price := l.EffectivePrice(); price > 0 {
			priceSum += price
			priced++
		}
		if l.Rating != nil {
			ratingSum += *l.Rating
			rated++
		}
	}

	for code, a := range perCurrency {
		stats.PriceRanges[code] = domain.PriceRange{Min: a.min, Max: a.max, Avg: round2(a.sum / float64(a.n))}
	}
	if priced > 0 {
		stats.AveragePrice = round2(priceSum / float64(priced))
	}
	if rated > 0 {
		stats.AverageRating = round2(ratingSum / float64(rated))
	}

	return stats
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func lettersOnly(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
