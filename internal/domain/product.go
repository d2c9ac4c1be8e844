package domain

// Listing is one candidate product observation extracted from one source page.
// Link, RawPrice, Currency, Name and SourceID are always set; the rest is best-effort.
type Listing struct {
	Link         string   `json:"link"`
	RawPrice     string   `json:"price"`
	Currency     string   `json:"currency"`
	Name         string   `json:"productName"`
	SourceID     string   `json:"sourceId"`
	Source       string   `json:"website"` // display name, merchant name for aggregator sources
	ImageURL     string   `json:"imageUrl,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	ReviewCount  *int     `json:"reviewCount,omitempty"`
	Availability string   `json:"availability,omitempty"`
	Shipping     string   `json:"shippingInfo,omitempty"`
	Condition    string   `json:"condition,omitempty"`
}

// MatchStrategy names the matcher path that produced a confidence
type MatchStrategy string

const (
	StrategyExact      MatchStrategy = "exact"
	StrategyNormalized MatchStrategy = "normalized"
	StrategySemantic   MatchStrategy = "semantic"
	StrategyStructured MatchStrategy = "structured"
	StrategyPhrase     MatchStrategy = "phrase"
	StrategyNone       MatchStrategy = "none"
)

// MatchResult represents how well a listing answers the user's query
type MatchResult struct {
	IsMatch    bool          `json:"isMatch"`
	Confidence float64       `json:"confidence"` // 0..1, two decimals
	Reason     string        `json:"reason"`
	Strategy   MatchStrategy `json:"strategy"`
}

// MatchedListing pairs a listing with its match decision
type MatchedListing struct {
	Listing
	Match MatchResult `json:"matchResult"`
}

// ScoredListing is a matched listing after normalization and quality scoring.
// It lives only for the duration of one search request.
type ScoredListing struct {
	MatchedListing
	NormalizedPrice float64  `json:"normalizedPrice"`
	ConvertedPrice  *float64 `json:"convertedPrice,omitempty"`
	TargetCurrency  string   `json:"targetCurrency,omitempty"`
	FormattedPrice  string   `json:"formattedPrice"`
	QualityScore    int      `json:"qualityScore"`
}

// EffectivePrice returns the converted price when one was computed, else the normalized price
func (s ScoredListing) EffectivePrice() float64 {
	if s.ConvertedPrice != nil {
		return *s.ConvertedPrice
	}
	return s.NormalizedPrice
}

// RatingValue returns the rating or 0 when the source did not expose one
func (l Listing) RatingValue() float64 {
	if l.Rating == nil {
		return 0
	}
	return *l.Rating
}
