// Package bootstrap wires configuration into the search pipeline. The HTTP
// server and the CLI share it.
package bootstrap

import (
	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/cache"
	"github.com/pricelens/backend/internal/infrastructure/currency"
	"github.com/pricelens/backend/internal/infrastructure/fetch"
	"github.com/pricelens/backend/internal/infrastructure/registry"
	"github.com/pricelens/backend/internal/infrastructure/sources"
	"github.com/pricelens/backend/internal/logger"
	"github.com/pricelens/backend/internal/usecase"
)

// App is the wired search pipeline
type App struct {
	Search    *usecase.SearchService
	Sources   *sources.Registry
	Countries *registry.CountryRegistry
	Rates     *cache.RateCache
	Defaults  domain.SearchOptions
}

// New builds the pipeline from cfg
func New(cfg *config.Config) *App {
	extractors := sources.Default()
	countries := registry.New(extractors.IDs()...)
	rates := cache.NewRateCache(RateProvider(cfg.Currency), domain.SystemClock{}, cfg.Currency.RefreshInterval)

	orchestrator := usecase.NewOrchestrator(Transport(cfg.Fetch), countries, usecase.OrchestratorConfig{
		PageDelayMin: cfg.Search.PageDelayMin,
		PageDelayMax: cfg.Search.PageDelayMax,
	})

	search := usecase.NewSearchService(
		countries,
		extractors,
		orchestrator,
		usecase.NewMatchingService(usecase.MatchConfig{EnableDebugLogging: cfg.Matching.EnableDebugLogging}),
		usecase.NewResultProcessor(rates),
		usecase.SearchServiceConfig{
			SourceStagger:  cfg.Search.SourceStagger,
			DedupThreshold: cfg.Search.DedupThreshold,
		},
	)

	return &App{
		Search:    search,
		Sources:   extractors,
		Countries: countries,
		Rates:     rates,
		Defaults:  DefaultOptions(cfg.Search),
	}
}

// Transport selects the page transport for cfg.Mode
func Transport(cfg config.FetchConfig) domain.FetchTransport {
	if cfg.Mode == "browser" {
		t := fetch.NewBrowserTransport(cfg.Timeout, cfg.BrowserWait, cfg.BrowserExec)
		t.SetDebug(cfg.DebugRequests)
		logger.Log.Infof("[FETCH] Using headless browser transport (wait %s)", cfg.BrowserWait)
		return t
	}

	t := fetch.NewHTTPTransport(fetch.Options{Timeout: cfg.Timeout, MaxBodyBytes: cfg.MaxBodyBytes})
	t.SetDebug(cfg.DebugRequests)
	return t
}

// RateProvider returns the live rate API client when a URL is configured,
// else the built-in table
func RateProvider(cfg config.CurrencyConfig) domain.RateProvider {
	if cfg.APIURL == "" {
		logger.Log.Info("[RATES] No rate API configured, using built-in rates")
		return currency.StaticProvider{}
	}
	logger.Log.Infof("[RATES] Refreshing rates from %s every %s", cfg.APIURL, cfg.RefreshInterval)
	return currency.NewClient(cfg.APIURL, cfg.RequestsPerMinute)
}

// DefaultOptions turns the search section into request defaults
func DefaultOptions(cfg config.SearchConfig) domain.SearchOptions {
	return domain.SearchOptions{
		MaxPages:         cfg.MaxPages,
		Comprehensive:    cfg.Comprehensive,
		RetryFailedSites: cfg.RetryFailedSites,
		SortBy:           cfg.DefaultSortBy,
		SortOrder:        cfg.DefaultSortOrder,
	}.Normalize()
}
