package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/backend/internal/domain"
)

// MockExtractor is a mock implementation of domain.SourceExtractor. Listings
// are served per page number, read back from the fetched document URL.
type MockExtractor struct {
	id           string
	countries    map[string]bool
	pages        map[int][]domain.Listing
	panicOnParse bool
	currencies   []string // defaultCurrency of every Parse call
}

func NewMockExtractor(id string, countries ...string) *MockExtractor {
	set := make(map[string]bool)
	for _, c := range countries {
		set[c] = true
	}
	return &MockExtractor{id: id, countries: set, pages: make(map[int][]domain.Listing)}
}

// WithPage sets the listings returned for one page
func (m *MockExtractor) WithPage(page int, listings ...domain.Listing) *MockExtractor {
	for i := range listings {
		listings[i].SourceID = m.id
		listings[i].Source = m.Name()
	}
	m.pages[page] = listings
	return m
}

func (m *MockExtractor) ID() string      { return m.id }
func (m *MockExtractor) Name() string    { return strings.ToUpper(m.id[:1]) + m.id[1:] }
func (m *MockExtractor) BaseURL() string { return "https://" + m.id + ".test" }

func (m *MockExtractor) SupportedCountries() []string {
	var out []string
	for c := range m.countries {
		out = append(out, c)
	}
	return out
}

func (m *MockExtractor) Supports(country string) bool { return m.countries[country] }

func (m *MockExtractor) BuildRequestTarget(query, _ string, page int) string {
	return fmt.Sprintf("https://%s.test/search?q=%s&page=%d", m.id, url.QueryEscape(query), page)
}

func (m *MockExtractor) Parse(doc *goquery.Document, defaultCurrency string) []domain.Listing {
	m.currencies = append(m.currencies, defaultCurrency)
	if m.panicOnParse {
		panic("unexpected markup")
	}
	page, _ := strconv.Atoi(doc.Url.Query().Get("page"))
	return m.pages[page]
}

// MockTransport is a mock implementation of domain.FetchTransport. failures
// maps a host to the number of leading calls that fail for it; -1 fails forever.
type MockTransport struct {
	mu        sync.Mutex
	failures  map[string]int
	calls     map[string]int
	fetchedAt map[string][]time.Time
	targets   []string
}

func NewMockTransport() *MockTransport {
	return &MockTransport{
		failures:  make(map[string]int),
		calls:     make(map[string]int),
		fetchedAt: make(map[string][]time.Time),
	}
}

func (m *MockTransport) FailHost(host string, times int) *MockTransport {
	m.failures[host] = times
	return m
}

func (m *MockTransport) Fetch(ctx context.Context, uri string) (*goquery.Document, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls[u.Host]++
	m.fetchedAt[u.Host] = append(m.fetchedAt[u.Host], time.Now())
	n := m.calls[u.Host]
	m.targets = append(m.targets, uri)
	limit, failing := m.failures[u.Host]
	m.mu.Unlock()

	if failing && (limit < 0 || n <= limit) {
		return nil, errors.New("connection refused")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		return nil, err
	}
	doc.Url = u
	return doc, nil
}

func (m *MockTransport) Calls(host string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[host]
}

// FetchTimes returns when each request to host started
func (m *MockTransport) FetchTimes(host string) []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Time(nil), m.fetchedAt[host]...)
}

// MockCountries is a mock implementation of domain.SourceRegistry. Countries
// missing from currencies use USD.
type MockCountries struct {
	sources    map[string][]string
	currencies map[string]string
}

func (m *MockCountries) SourcesFor(country string) []string { return m.sources[country] }

func (m *MockCountries) CurrencyFor(country string) string {
	if c, ok := m.currencies[country]; ok {
		return c
	}
	return "USD"
}

func (m *MockCountries) Country(code string) (domain.Country, bool) {
	s, ok := m.sources[code]
	return domain.Country{Code: code, Name: code, Currency: m.CurrencyFor(code), Sources: s}, ok
}

func (m *MockCountries) Countries() []domain.Country {
	var out []domain.Country
	for code := range m.sources {
		c, _ := m.Country(code)
		out = append(out, c)
	}
	return out
}

func (m *MockCountries) IsSupported(code string) bool {
	_, ok := m.sources[code]
	return ok
}

// MockExtractors is a mock implementation of domain.ExtractorRegistry
type MockExtractors map[string]domain.SourceExtractor

func NewMockExtractors(extractors ...domain.SourceExtractor) MockExtractors {
	m := make(MockExtractors)
	for _, e := range extractors {
		m[e.ID()] = e
	}
	return m
}

func (m MockExtractors) Get(id string) (domain.SourceExtractor, bool) {
	e, ok := m[id]
	return e, ok
}

func (m MockExtractors) Info() []domain.SourceInfo {
	var out []domain.SourceInfo
	for _, e := range m {
		out = append(out, domain.SourceInfo{ID: e.ID(), Name: e.Name()})
	}
	return out
}

// MockRateTable is a mock implementation of domain.RateTable with USD-based rates
type MockRateTable struct {
	rates        map[string]float64
	refreshError error
	refreshCalls int
}

func (m *MockRateTable) EnsureFresh(ctx context.Context) error {
	m.refreshCalls++
	return m.refreshError
}

func (m *MockRateTable) Convert(amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}
	fromRate, ok1 := m.rates[from]
	toRate, ok2 := m.rates[to]
	if !ok1 || !ok2 {
		return amount, domain.ErrRateUnavailable
	}
	return amount / fromRate * toRate, nil
}

func listing(name, price string) domain.Listing {
	return domain.Listing{
		Name:     name,
		RawPrice: price,
		Currency: "USD",
		Link:     "https://shop.test/p/" + url.PathEscape(strings.ToLower(strings.ReplaceAll(name, " ", "-"))),
	}
}
