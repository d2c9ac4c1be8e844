package domain

// Sort keys accepted in SearchOptions.SortBy
const (
	SortByPrice  = "price"
	SortByRating = "rating"
	SortBySource = "source"
	SortByName   = "name"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// SearchOptions configures one search request
type SearchOptions struct {
	MaxPages          int      `json:"maxPages"`
	Comprehensive     bool     `json:"comprehensive"`
	RetryFailedSites  bool     `json:"retryFailedSites"`
	SortBy            string   `json:"sortBy"`
	SortOrder         string   `json:"sortOrder"`
	TargetCurrency    string   `json:"targetCurrency,omitempty"`
	MinRating         *float64 `json:"minRating,omitempty"`
	MaxPrice          *float64 `json:"maxPrice,omitempty"`
	SourceAllowlist   []string `json:"sources,omitempty"`
	IncludeOutOfStock bool     `json:"includeOutOfStock"`
}

// DefaultSearchOptions returns the options used when a caller specifies nothing
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		MaxPages:         3,
		Comprehensive:    true,
		RetryFailedSites: true,
		SortBy:           SortByPrice,
		SortOrder:        SortAsc,
	}
}

// Normalize fills zero-valued fields that have non-zero defaults
func (o SearchOptions) Normalize() SearchOptions {
	if o.MaxPages < 1 {
		o.MaxPages = 3
	}
	if o.SortBy == "" {
		o.SortBy = SortByPrice
	}
	if o.SortOrder == "" {
		o.SortOrder = SortAsc
	}
	return o
}

// FetchOutcome is the result of running one source across its pages
type FetchOutcome struct {
	SourceID       string    `json:"sourceId"`
	SourceName     string    `json:"website"`
	Succeeded      bool      `json:"success"`
	Listings       []Listing `json:"products"`
	Error          string    `json:"error,omitempty"`
	PagesAttempted int       `json:"pagesAttempted"`
}

// Summary describes how a search went across sources
type Summary struct {
	TotalListings       int      `json:"totalProducts"`
	SuccessfulSources   int      `json:"successfulSites"`
	FailedSources       int      `json:"failedSites"`
	SourceNames         []string `json:"websites"`
	TotalPagesAttempted int      `json:"totalPages"`
	RetryAttempts       int      `json:"retryAttempts,omitempty"`
}

// PriceRange is min/max/avg of normalized prices within one currency
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Statistics is a breakdown of the final listing set
type Statistics struct {
	SourceBreakdown   map[string]int        `json:"websiteBreakdown"`
	CurrencyBreakdown map[string]int        `json:"currencyBreakdown"`
	PriceRanges       map[string]PriceRange `json:"priceRanges"`
	AveragePrice      float64               `json:"averagePrice"`
	AverageRating     float64               `json:"averageRating"`
}

// MatchStatistics counts match results by confidence bucket
type MatchStatistics struct {
	Total             int     `json:"total"`
	Matches           int     `json:"matches"`
	Exact             int     `json:"exactMatches"`
	HighConfidence    int     `json:"highConfidence"`
	MediumConfidence  int     `json:"mediumConfidence"`
	LowConfidence     int     `json:"lowConfidence"`
	NoMatch           int     `json:"noMatches"`
	AverageConfidence float64 `json:"averageConfidence"`
}

// SearchResponse is the complete answer to one search request
type SearchResponse struct {
	SearchID   string          `json:"searchId"`
	Query      string          `json:"query"`
	Country    string          `json:"country"`
	Listings   []ScoredListing `json:"products"`
	Errors     []string        `json:"errors"`
	Summary    Summary         `json:"summary"`
	Statistics Statistics      `json:"statistics"`
	Matching   MatchStatistics `json:"matching"`
}

// Country describes one supported market
type Country struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Currency string   `json:"currency"`
	Sources  []string `json:"websites"`
}

// SourceInfo describes one registered extractor
type SourceInfo struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	BaseURL            string   `json:"baseUrl"`
	SupportedCountries []string `json:"supportedCountries"`
}
