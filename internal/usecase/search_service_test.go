package usecase

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

const bottleQuery = "stainless steel water bottle"

func newTestSearchService(sources map[string][]string, transport *MockTransport, extractors ...domain.SourceExtractor) *SearchService {
	countries := &MockCountries{sources: sources}
	return NewSearchService(
		countries,
		NewMockExtractors(extractors...),
		NewOrchestrator(transport, countries, OrchestratorConfig{}),
		NewMatchingService(MatchConfig{}),
		NewResultProcessor(nil),
		SearchServiceConfig{},
	)
}

func bottleSources() []domain.SourceExtractor {
	return []domain.SourceExtractor{
		NewMockExtractor("amazon", "US").
			WithPage(1, listing("Stainless Steel Water Bottle 750ml", "20.00"), listing("Plastic lunch box", "5.00")),
		NewMockExtractor("ebay", "US").
			WithPage(1, listing("Stainless Steel Water Bottle Insulated Blue", "35.00")),
		NewMockExtractor("walmart", "US").
			WithPage(1, listing("Stainless Steel Water Bottle Kids", "12.00")),
	}
}

func comprehensive(maxPages int) domain.SearchOptions {
	return domain.SearchOptions{MaxPages: maxPages, Comprehensive: true, RetryFailedSites: true}
}

func TestSearch_Validation(t *testing.T) {
	svc := newTestSearchService(map[string][]string{"US": {"amazon"}}, NewMockTransport(), bottleSources()...)

	testCases := []struct {
		name    string
		query   string
		country string
		wantErr error
	}{
		{"query too short", " a ", "US", domain.ErrInvalidRequest},
		{"missing country", bottleQuery, "  ", domain.ErrInvalidRequest},
		{"unknown country", bottleQuery, "ZZ", domain.ErrUnsupportedCountry},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := svc.Search(context.Background(), tc.query, tc.country, domain.SearchOptions{})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
			if resp != nil {
				t.Errorf("response = %+v, want nil", resp)
			}
		})
	}
}

func TestSearch_NoSourcesForCountry(t *testing.T) {
	svc := newTestSearchService(map[string][]string{"US": {"amazon"}, "NZ": {}}, NewMockTransport(), bottleSources()...)

	resp, err := svc.Search(context.Background(), bottleQuery, "nz", comprehensive(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Listings) != 0 {
		t.Errorf("len(Listings) = %d, want 0", len(resp.Listings))
	}
	if !slices.Equal(resp.Errors, []string{"no sources available for country"}) {
		t.Errorf("Errors = %v", resp.Errors)
	}
	if resp.Summary.SourceNames == nil || len(resp.Summary.SourceNames) != 0 {
		t.Errorf("SourceNames = %#v, want empty", resp.Summary.SourceNames)
	}
	if resp.Country != "NZ" {
		t.Errorf("Country = %q, want NZ", resp.Country)
	}
}

func TestSearch_OneSourceDown(t *testing.T) {
	transport := NewMockTransport().FailHost("walmart.test", -1)
	svc := newTestSearchService(map[string][]string{"US": {"amazon", "ebay", "walmart"}}, transport, bottleSources()...)

	resp, err := svc.Search(context.Background(), bottleQuery, "US", comprehensive(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Summary.SuccessfulSources != 2 || resp.Summary.FailedSources != 1 {
		t.Errorf("Summary = %+v, want 2 successful and 1 failed", resp.Summary)
	}
	if resp.Summary.RetryAttempts != 1 {
		t.Errorf("RetryAttempts = %d, want 1", resp.Summary.RetryAttempts)
	}
	if !slices.Contains(resp.Errors, "Walmart: connection refused") {
		t.Errorf("Errors = %v, want the walmart failure", resp.Errors)
	}

	var sources []string
	for _, l := range resp.Listings {
		sources = append(sources, l.SourceID)
	}
	slices.Sort(sources)
	if !slices.Equal(sources, []string{"amazon", "ebay"}) {
		t.Errorf("listing sources = %v, want amazon and ebay", sources)
	}
	if resp.Summary.TotalListings != len(resp.Listings) {
		t.Errorf("TotalListings = %d, want %d", resp.Summary.TotalListings, len(resp.Listings))
	}

	// two pages in the first pass, one in the retry
	if calls := transport.Calls("walmart.test"); calls != 3 {
		t.Errorf("walmart calls = %d, want 3", calls)
	}
}

func TestSearch_RetryRecoversFlakySource(t *testing.T) {
	transport := NewMockTransport().FailHost("ebay.test", 2)
	svc := newTestSearchService(map[string][]string{"US": {"amazon", "ebay"}}, transport, bottleSources()...)

	resp, err := svc.Search(context.Background(), bottleQuery, "US", comprehensive(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Summary.SuccessfulSources != 2 || resp.Summary.FailedSources != 0 {
		t.Errorf("Summary = %+v, want both sources successful", resp.Summary)
	}
	if resp.Summary.RetryAttempts != 1 {
		t.Errorf("RetryAttempts = %d, want 1", resp.Summary.RetryAttempts)
	}
	// amazon: listings then empty page; ebay: two failed pages then one retry page
	if resp.Summary.TotalPagesAttempted != 5 {
		t.Errorf("TotalPagesAttempted = %d, want 5", resp.Summary.TotalPagesAttempted)
	}
	if !slices.Contains(resp.Errors, "Ebay: connection refused") {
		t.Errorf("Errors = %v, want the first-pass failure kept", resp.Errors)
	}

	found := false
	for _, l := range resp.Listings {
		if l.SourceID == "ebay" {
			found = true
		}
	}
	if !found {
		t.Error("no ebay listing after retry")
	}
}

func TestSearch_RetryDisabled(t *testing.T) {
	transport := NewMockTransport().FailHost("ebay.test", 2)
	svc := newTestSearchService(map[string][]string{"US": {"amazon", "ebay"}}, transport, bottleSources()...)

	opts := comprehensive(2)
	opts.RetryFailedSites = false

	resp, err := svc.Search(context.Background(), bottleQuery, "US", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Summary.RetryAttempts != 0 || resp.Summary.FailedSources != 1 {
		t.Errorf("Summary = %+v, want one failure and no retry", resp.Summary)
	}
	if calls := transport.Calls("ebay.test"); calls != 2 {
		t.Errorf("ebay calls = %d, want 2", calls)
	}
}

func TestSearch_SinglePass(t *testing.T) {
	transport := NewMockTransport().FailHost("ebay.test", 2)
	svc := newTestSearchService(map[string][]string{"US": {"amazon", "ebay"}}, transport, bottleSources()...)

	resp, err := svc.Search(context.Background(), bottleQuery, "US", domain.SearchOptions{MaxPages: 2, RetryFailedSites: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Summary.RetryAttempts != 0 {
		t.Errorf("RetryAttempts = %d, want 0", resp.Summary.RetryAttempts)
	}
	if resp.Summary.FailedSources != 1 {
		t.Errorf("FailedSources = %d, want 1", resp.Summary.FailedSources)
	}
}

func TestSearch_MatchingStatisticsCoverEveryListing(t *testing.T) {
	svc := newTestSearchService(map[string][]string{"US": {"amazon"}}, NewMockTransport(), bottleSources()...)

	resp, err := svc.Search(context.Background(), bottleQuery, "US", comprehensive(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Matching.Total != 2 || resp.Matching.Matches != 1 {
		t.Errorf("Matching = %+v, want 2 scored and 1 match", resp.Matching)
	}
	if len(resp.Listings) != 1 || resp.Listings[0].Name != "Stainless Steel Water Bottle 750ml" {
		t.Errorf("Listings = %+v, want only the bottle", resp.Listings)
	}
	if resp.SearchID == "" {
		t.Error("SearchID is empty")
	}
	if resp.Errors == nil {
		t.Error("Errors is nil, want empty slice")
	}
}

func TestSearchSource(t *testing.T) {
	transport := NewMockTransport()
	extractors := append(bottleSources(),
		NewMockExtractor("flipkart", "IN").WithPage(1, listing("Stainless Steel Water Bottle 1L", "₹499")))
	svc := newTestSearchService(map[string][]string{"US": {"amazon", "ebay"}}, transport, extractors...)

	t.Run("unknown source", func(t *testing.T) {
		_, err := svc.SearchSource(context.Background(), "nosuch", bottleQuery, "US", domain.SearchOptions{})
		if !errors.Is(err, domain.ErrSourceNotFound) {
			t.Errorf("error = %v, want ErrSourceNotFound", err)
		}
	})

	t.Run("source does not serve country", func(t *testing.T) {
		_, err := svc.SearchSource(context.Background(), "flipkart", bottleQuery, "US", domain.SearchOptions{})
		if !errors.Is(err, domain.ErrUnsupportedCountry) {
			t.Errorf("error = %v, want ErrUnsupportedCountry", err)
		}
	})

	t.Run("invalid query", func(t *testing.T) {
		_, err := svc.SearchSource(context.Background(), "amazon", "x", "US", domain.SearchOptions{})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("fetches the first page only", func(t *testing.T) {
		resp, err := svc.SearchSource(context.Background(), "AMAZON", bottleQuery, "us", domain.SearchOptions{MaxPages: 5})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Summary.TotalPagesAttempted != 1 || resp.Summary.SuccessfulSources != 1 {
			t.Errorf("Summary = %+v, want one page from one source", resp.Summary)
		}
		if calls := transport.Calls("amazon.test"); calls != 1 {
			t.Errorf("amazon calls = %d, want 1", calls)
		}
		if len(resp.Listings) != 1 {
			t.Errorf("len(Listings) = %d, want 1", len(resp.Listings))
		}
	})

	t.Run("country outside the registry", func(t *testing.T) {
		resp, err := svc.SearchSource(context.Background(), "flipkart", bottleQuery, "IN", domain.SearchOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Listings) != 1 {
			t.Errorf("len(Listings) = %d, want 1", len(resp.Listings))
		}
	})
}

func TestSearchService_Catalog(t *testing.T) {
	svc := newTestSearchService(map[string][]string{"US": {"amazon", "ebay"}}, NewMockTransport(), bottleSources()...)

	if got := len(svc.Sources()); got != 3 {
		t.Errorf("len(Sources) = %d, want 3", got)
	}
	if got := len(svc.Countries()); got != 1 {
		t.Errorf("len(Countries) = %d, want 1", got)
	}
	if c, ok := svc.Country("US"); !ok || len(c.Sources) != 2 {
		t.Errorf("Country(US) = %+v, %v", c, ok)
	}
}

func TestSearch_StaggersSourceStarts(t *testing.T) {
	const stagger = 40 * time.Millisecond

	transport := NewMockTransport()
	countries := &MockCountries{sources: map[string][]string{"US": {"amazon", "ebay", "walmart"}}}
	svc := NewSearchService(
		countries,
		NewMockExtractors(bottleSources()...),
		NewOrchestrator(transport, countries, OrchestratorConfig{}),
		NewMatchingService(MatchConfig{}),
		NewResultProcessor(nil),
		SearchServiceConfig{SourceStagger: stagger},
	)

	start := time.Now()
	if _, err := svc.Search(context.Background(), bottleQuery, "US", domain.SearchOptions{MaxPages: 1}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	for i, host := range []string{"amazon.test", "ebay.test", "walmart.test"} {
		times := transport.FetchTimes(host)
		if len(times) == 0 {
			t.Fatalf("%s was never fetched", host)
		}
		want := time.Duration(i) * stagger
		if got := times[0].Sub(start); got < want || got >= want+stagger {
			t.Errorf("%s first request after %v, want within [%v, %v)", host, got, want, want+stagger)
		}
	}
}
