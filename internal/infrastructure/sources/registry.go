package sources

import (
	"fmt"

	"github.com/pricelens/backend/internal/domain"
)

// Registry is the lookup table of extractors keyed by source id. It is built
// once at startup and read concurrently afterwards.
type Registry struct {
	extractors map[string]domain.SourceExtractor
	order      []string
}

// NewRegistry registers extractors in the given order. A later extractor with
// a duplicate id replaces the earlier one.
func NewRegistry(extractors ...domain.SourceExtractor) *Registry {
	r := &Registry{extractors: make(map[string]domain.SourceExtractor, len(extractors))}
	for _, e := range extractors {
		if _, exists := r.extractors[e.ID()]; !exists {
			r.order = append(r.order, e.ID())
		}
		r.extractors[e.ID()] = e
	}
	return r
}

// Default returns a registry holding every built-in marketplace
func Default() *Registry {
	return NewRegistry(
		NewAmazon(),
		NewEbay(),
		NewFlipkart(),
		NewShopee(),
		NewLazada(),
		NewGeneric(),
	)
}

func (r *Registry) Get(id string) (domain.SourceExtractor, bool) {
	e, ok := r.extractors[id]
	return e, ok
}

// IDs returns the registered ids in registration order
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

func (r *Registry) Info() []domain.SourceInfo {
	infos := make([]domain.SourceInfo, 0, len(r.order))
	for _, id := range r.order {
		infos = append(infos, describe(r.extractors[id]))
	}
	return infos
}

// Describe returns the catalog entry for one source
func (r *Registry) Describe(id string) (domain.SourceInfo, error) {
	e, ok := r.extractors[id]
	if !ok {
		return domain.SourceInfo{}, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, id)
	}
	return describe(e), nil
}

func describe(e domain.SourceExtractor) domain.SourceInfo {
	return domain.SourceInfo{
		ID:                 e.ID(),
		Name:               e.Name(),
		BaseURL:            e.BaseURL(),
		SupportedCountries: e.SupportedCountries(),
	}
}
