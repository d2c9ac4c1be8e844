package usecase

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

func newTestOrchestrator(transport *MockTransport) *Orchestrator {
	return NewOrchestrator(transport, &MockCountries{currencies: map[string]string{"IN": "INR"}}, OrchestratorConfig{})
}

func TestOrchestrator_Run(t *testing.T) {
	testCases := []struct {
		name          string
		extractor     *MockExtractor
		failures      int
		maxPages      int
		wantSucceeded bool
		wantListings  int
		wantPages     int
		wantError     string
	}{
		{
			name: "stops at the first empty page",
			extractor: NewMockExtractor("shop", "US").
				WithPage(1, listing("Kettle A", "10"), listing("Kettle B", "12")).
				WithPage(2, listing("Kettle C", "14")),
			maxPages:      5,
			wantSucceeded: true,
			wantListings:  3,
			wantPages:     3,
		},
		{
			name: "stops at max pages",
			extractor: NewMockExtractor("shop", "US").
				WithPage(1, listing("Kettle A", "10")).
				WithPage(2, listing("Kettle B", "12")).
				WithPage(3, listing("Kettle C", "14")),
			maxPages:      2,
			wantSucceeded: true,
			wantListings:  2,
			wantPages:     2,
		},
		{
			name: "continues after a failed page",
			extractor: NewMockExtractor("shop", "US").
				WithPage(2, listing("Kettle B", "12")),
			failures:      1,
			maxPages:      3,
			wantSucceeded: true,
			wantListings:  1,
			wantPages:     3,
		},
		{
			name:          "every page fails",
			extractor:     NewMockExtractor("shop", "US").WithPage(1, listing("Kettle A", "10")),
			failures:      -1,
			maxPages:      3,
			wantSucceeded: false,
			wantPages:     3,
			wantError:     "connection refused",
		},
		{
			name:          "fetched but empty",
			extractor:     NewMockExtractor("shop", "US"),
			maxPages:      3,
			wantSucceeded: false,
			wantPages:     1,
			wantError:     domain.ErrNoProducts.Error(),
		},
		{
			name:          "max pages below one fetches one page",
			extractor:     NewMockExtractor("shop", "US").WithPage(1, listing("Kettle A", "10")),
			maxPages:      0,
			wantSucceeded: true,
			wantListings:  1,
			wantPages:     1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			transport := NewMockTransport()
			if tc.failures != 0 {
				transport.FailHost("shop.test", tc.failures)
			}

			got := newTestOrchestrator(transport).Run(context.Background(), tc.extractor, "kettle", "US", tc.maxPages)

			if got.Succeeded != tc.wantSucceeded {
				t.Errorf("Succeeded = %v, want %v (error: %s)", got.Succeeded, tc.wantSucceeded, got.Error)
			}
			if len(got.Listings) != tc.wantListings {
				t.Errorf("len(Listings) = %d, want %d", len(got.Listings), tc.wantListings)
			}
			if got.PagesAttempted != tc.wantPages {
				t.Errorf("PagesAttempted = %d, want %d", got.PagesAttempted, tc.wantPages)
			}
			if got.Error != tc.wantError {
				t.Errorf("Error = %q, want %q", got.Error, tc.wantError)
			}
			if got.SourceID != "shop" || got.SourceName != "Shop" {
				t.Errorf("source = %s/%s, want shop/Shop", got.SourceID, got.SourceName)
			}
		})
	}
}

func TestOrchestrator_RecoversFromPanickingParser(t *testing.T) {
	extractor := NewMockExtractor("broken", "US")
	extractor.panicOnParse = true

	got := newTestOrchestrator(NewMockTransport()).Run(context.Background(), extractor, "kettle", "US", 2)

	if got.Succeeded {
		t.Fatal("Succeeded = true, want false")
	}
	if got.PagesAttempted != 2 {
		t.Errorf("PagesAttempted = %d, want 2", got.PagesAttempted)
	}
	if !strings.Contains(got.Error, "unexpected markup") {
		t.Errorf("Error = %q, want the parser panic", got.Error)
	}
}

func TestOrchestrator_UnsupportedCountry(t *testing.T) {
	transport := NewMockTransport()
	extractor := NewMockExtractor("shop", "IN").WithPage(1, listing("Kettle", "10"))

	got := newTestOrchestrator(transport).Run(context.Background(), extractor, "kettle", "US", 3)

	if got.Succeeded || got.PagesAttempted != 0 {
		t.Errorf("outcome = %+v, want no attempt", got)
	}
	if !strings.Contains(got.Error, domain.ErrUnsupportedCountry.Error()) {
		t.Errorf("Error = %q, want unsupported country", got.Error)
	}
	if calls := transport.Calls("shop.test"); calls != 0 {
		t.Errorf("transport calls = %d, want 0", calls)
	}
}

func TestOrchestrator_RunSingleMatchesOnePageRun(t *testing.T) {
	extractor := NewMockExtractor("shop", "US").
		WithPage(1, listing("Kettle A", "10")).
		WithPage(2, listing("Kettle B", "12"))
	orch := newTestOrchestrator(NewMockTransport())

	single := orch.RunSingle(context.Background(), extractor, "kettle", "US")
	onePage := orch.Run(context.Background(), extractor, "kettle", "US", 1)

	if single.Succeeded != onePage.Succeeded || single.PagesAttempted != onePage.PagesAttempted ||
		len(single.Listings) != len(onePage.Listings) || single.Error != onePage.Error {
		t.Errorf("RunSingle = %+v, Run(1) = %+v", single, onePage)
	}
	if single.PagesAttempted != 1 || len(single.Listings) != 1 {
		t.Errorf("RunSingle = %+v, want one page with one listing", single)
	}
}

func TestOrchestrator_StopsWhenContextIsCancelled(t *testing.T) {
	transport := NewMockTransport()
	extractor := NewMockExtractor("shop", "US").
		WithPage(1, listing("Kettle A", "10")).
		WithPage(2, listing("Kettle B", "12"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := newTestOrchestrator(transport).Run(ctx, extractor, "kettle", "US", 3)

	if !got.Succeeded || len(got.Listings) != 1 {
		t.Errorf("outcome = %+v, want only the first page", got)
	}
	if calls := transport.Calls("shop.test"); calls != 1 {
		t.Errorf("transport calls = %d, want 1", calls)
	}
}

func TestOrchestrator_PassesCountryCurrencyToParser(t *testing.T) {
	extractor := NewMockExtractor("shop", "IN", "US").WithPage(1, listing("Kettle", "799"))
	orch := newTestOrchestrator(NewMockTransport())

	orch.Run(context.Background(), extractor, "kettle", "IN", 1)
	orch.Run(context.Background(), extractor, "kettle", "US", 1)

	if want := []string{"INR", "USD"}; !slices.Equal(extractor.currencies, want) {
		t.Errorf("parser currencies = %v, want %v", extractor.currencies, want)
	}
}

func TestOrchestrator_PageDelays(t *testing.T) {
	const (
		minDelay = 30 * time.Millisecond
		maxDelay = 60 * time.Millisecond
		slack    = 25 * time.Millisecond
	)

	transport := NewMockTransport()
	extractor := NewMockExtractor("shop", "US").
		WithPage(1, listing("Kettle A", "10")).
		WithPage(2, listing("Kettle B", "12")).
		WithPage(3, listing("Kettle C", "14"))
	orch := NewOrchestrator(transport, nil, OrchestratorConfig{PageDelayMin: minDelay, PageDelayMax: maxDelay})

	start := time.Now()
	got := orch.Run(context.Background(), extractor, "kettle", "US", 3)

	if !got.Succeeded || len(got.Listings) != 3 {
		t.Fatalf("outcome = %+v, want three pages of listings", got)
	}

	times := transport.FetchTimes("shop.test")
	if len(times) != 3 {
		t.Fatalf("fetches = %d, want 3", len(times))
	}
	if first := times[0].Sub(start); first >= minDelay {
		t.Errorf("page 1 started after %v, want no delay", first)
	}
	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		if gap < minDelay || gap >= maxDelay+slack {
			t.Errorf("gap before page %d = %v, want within [%v, %v)", i+1, gap, minDelay, maxDelay)
		}
	}
}

func TestOrchestrator_PageDelayRange(t *testing.T) {
	testCases := []struct {
		name     string
		min, max time.Duration
	}{
		{"randomized", time.Second, 2 * time.Second},
		{"fixed", 500 * time.Millisecond, 500 * time.Millisecond},
		{"inverted bounds use min", 2 * time.Second, time.Second},
		{"disabled", 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orch := NewOrchestrator(NewMockTransport(), nil, OrchestratorConfig{PageDelayMin: tc.min, PageDelayMax: tc.max})

			for range 200 {
				d := orch.pageDelay()
				if d < tc.min {
					t.Fatalf("pageDelay() = %v, below %v", d, tc.min)
				}
				if tc.max > tc.min && d >= tc.max {
					t.Fatalf("pageDelay() = %v, want below %v", d, tc.max)
				}
				if tc.max <= tc.min && d != tc.min {
					t.Fatalf("pageDelay() = %v, want exactly %v", d, tc.min)
				}
			}
		})
	}
}
