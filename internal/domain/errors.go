package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnsupportedCountry is returned when a country or a source does not cover the requested market
	ErrUnsupportedCountry = errors.New("country not supported")

	// ErrSourceNotFound is returned when no extractor is registered under a source id
	ErrSourceNotFound = errors.New("source not found")

	// ErrNoSources is reported when a country resolves to zero usable sources
	ErrNoSources = errors.New("no sources available for country")

	// ErrFetchFailed is returned when a page could not be fetched
	ErrFetchFailed = errors.New("fetch failed")

	// ErrNoProducts is reported when every page of a source came back empty
	ErrNoProducts = errors.New("no products found across all pages")

	// ErrRateUnavailable is returned when an exchange rate is unknown for a currency
	ErrRateUnavailable = errors.New("exchange rate not available")

	// ErrRateRefreshFailed is returned when the rate provider could not deliver a usable table
	ErrRateRefreshFailed = errors.New("exchange rate refresh failed")
)
