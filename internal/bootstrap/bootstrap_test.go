package bootstrap

import (
	"testing"
	"time"

	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/infrastructure/currency"
	"github.com/pricelens/backend/internal/infrastructure/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Search: config.SearchConfig{
			MaxPages:         2,
			Comprehensive:    true,
			RetryFailedSites: false,
			DedupThreshold:   0.8,
			DefaultSortBy:    "rating",
			DefaultSortOrder: "desc",
		},
		Fetch:    config.FetchConfig{Mode: "http", Timeout: 5 * time.Second},
		Currency: config.CurrencyConfig{RefreshInterval: time.Hour},
	}
}

func TestNew(t *testing.T) {
	app := New(testConfig())
	require.NotNil(t, app.Search)

	assert.Equal(t, []string{"amazon", "ebay", "flipkart", "shopee", "lazada", "generic"}, app.Sources.IDs())

	in, ok := app.Countries.Country("IN")
	require.True(t, ok)
	assert.Contains(t, in.Sources, "flipkart")
	assert.Contains(t, in.Sources, "generic")

	assert.Equal(t, 2, app.Defaults.MaxPages)
	assert.False(t, app.Defaults.RetryFailedSites)
	assert.Equal(t, "rating", app.Defaults.SortBy)
	assert.Equal(t, "desc", app.Defaults.SortOrder)

	assert.Len(t, app.Search.Sources(), 6)
	assert.NotZero(t, app.Rates.Size())
}

func TestTransport(t *testing.T) {
	t.Run("http by default", func(t *testing.T) {
		_, ok := Transport(config.FetchConfig{Mode: "http"}).(*fetch.HTTPTransport)
		assert.True(t, ok)
	})

	t.Run("browser on request", func(t *testing.T) {
		_, ok := Transport(config.FetchConfig{Mode: "browser", BrowserWait: time.Second}).(*fetch.BrowserTransport)
		assert.True(t, ok)
	})
}

func TestRateProvider(t *testing.T) {
	t.Run("built-in table without a URL", func(t *testing.T) {
		_, ok := RateProvider(config.CurrencyConfig{}).(currency.StaticProvider)
		assert.True(t, ok)
	})

	t.Run("API client with a URL", func(t *testing.T) {
		_, ok := RateProvider(config.CurrencyConfig{APIURL: "https://rates.example.com/latest/USD"}).(*currency.Client)
		assert.True(t, ok)
	})
}
