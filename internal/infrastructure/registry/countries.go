// Package registry holds the static reference data describing which
// marketplaces serve each country and which currency the country uses.
package registry

import (
	"sort"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// CountryRegistry is read-only after construction and safe for concurrent use
type CountryRegistry struct {
	countries map[string]domain.Country
}

// New builds the registry. Every id in universal is appended to each country's
// list after its local marketplaces, without duplicates.
func New(universal ...string) *CountryRegistry {
	r := &CountryRegistry{countries: make(map[string]domain.Country, len(countryTable))}

	for _, row := range countryTable {
		sites := mergeUnique(row.sites, universal)
		r.countries[row.code] = domain.Country{
			Code:     row.code,
			Name:     row.name,
			Currency: row.currency,
			Sources:  sites,
		}
	}

	return r
}

func mergeUnique(lists ...[]string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, list := range lists {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				merged = append(merged, id)
			}
		}
	}
	return merged
}

// SourcesFor returns the ordered source ids for a country, nil when unknown
func (r *CountryRegistry) SourcesFor(country string) []string {
	c, ok := r.Country(country)
	if !ok {
		return nil
	}
	return c.Sources
}

// CurrencyFor returns the local currency, USD when the country is unknown
func (r *CountryRegistry) CurrencyFor(country string) string {
	c, ok := r.Country(country)
	if !ok {
		return "USD"
	}
	return c.Currency
}

// Country looks a country up by code, case-insensitively. The returned
// source slice is a copy.
func (r *CountryRegistry) Country(code string) (domain.Country, bool) {
	c, ok := r.countries[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return domain.Country{}, false
	}
	c.Sources = append([]string(nil), c.Sources...)
	return c, true
}

// Countries returns every country sorted by name
func (r *CountryRegistry) Countries() []domain.Country {
	out := make([]domain.Country, 0, len(r.countries))
	for code := range r.countries {
		c, _ := r.Country(code)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *CountryRegistry) IsSupported(code string) bool {
	_, ok := r.Country(code)
	return ok
}
