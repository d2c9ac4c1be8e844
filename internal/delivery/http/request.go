package http

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pricelens/backend/internal/domain"
)

var validate = validator.New()

// SearchRequest is the search payload, read from a JSON body or the query string
type SearchRequest struct {
	Query             string   `json:"query" form:"query" validate:"required,min=2"`
	Country           string   `json:"country" form:"country" validate:"required,len=2"`
	MaxPages          int      `json:"maxPages" form:"maxPages" validate:"omitempty,min=1,max=10"`
	Comprehensive     *bool    `json:"comprehensive" form:"comprehensive"`
	RetryFailedSites  *bool    `json:"retryFailedSites" form:"retryFailedSites"`
	SortBy            string   `json:"sortBy" form:"sortBy" validate:"omitempty,oneof=price rating source name"`
	SortOrder         string   `json:"sortOrder" form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	TargetCurrency    string   `json:"targetCurrency" form:"targetCurrency" validate:"omitempty,len=3"`
	MinRating         *float64 `json:"minRating" form:"minRating" validate:"omitempty,min=0,max=5"`
	MaxPrice          *float64 `json:"maxPrice" form:"maxPrice" validate:"omitempty,gt=0"`
	Sources           []string `json:"sources" form:"sources"`
	IncludeOutOfStock bool     `json:"includeOutOfStock" form:"includeOutOfStock"`
}

// Normalize trims the query and upper-cases the country and currency codes
func (r *SearchRequest) Normalize() {
	r.Query = strings.TrimSpace(r.Query)
	r.Country = strings.ToUpper(strings.TrimSpace(r.Country))
	r.TargetCurrency = strings.ToUpper(strings.TrimSpace(r.TargetCurrency))
	r.SortBy = strings.ToLower(r.SortBy)
	r.SortOrder = strings.ToLower(r.SortOrder)
}

// Validate validates the SearchRequest using the validator
func (r *SearchRequest) Validate() error {
	return validate.Struct(r)
}

// Options overlays the request on defaults
func (r *SearchRequest) Options(defaults domain.SearchOptions) domain.SearchOptions {
	opts := defaults

	if r.MaxPages > 0 {
		opts.MaxPages = r.MaxPages
	}
	if r.Comprehensive != nil {
		opts.Comprehensive = *r.Comprehensive
	}
	if r.RetryFailedSites != nil {
		opts.RetryFailedSites = *r.RetryFailedSites
	}
	if r.SortBy != "" {
		opts.SortBy = r.SortBy
	}
	if r.SortOrder != "" {
		opts.SortOrder = r.SortOrder
	}

	opts.TargetCurrency = r.TargetCurrency
	opts.MinRating = r.MinRating
	opts.MaxPrice = r.MaxPrice
	opts.SourceAllowlist = r.Sources
	opts.IncludeOutOfStock = r.IncludeOutOfStock

	return opts
}
