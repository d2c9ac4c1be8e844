package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/logger"
	"github.com/sirupsen/logrus"
)

// OrchestratorConfig holds the pacing between pages of one source
type OrchestratorConfig struct {
	PageDelayMin time.Duration
	PageDelayMax time.Duration
}

// DefaultOrchestratorConfig waits between one and two seconds between pages
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{PageDelayMin: time.Second, PageDelayMax: 2 * time.Second}
}

// Orchestrator drives one extractor through its result pages
type Orchestrator struct {
	transport    domain.FetchTransport
	countries    domain.SourceRegistry
	pageDelayMin time.Duration
	pageDelayMax time.Duration
}

// NewOrchestrator creates an orchestrator. countries supplies the currency
// extractors fall back to; it may be nil. Zero delays disable pacing.
func NewOrchestrator(transport domain.FetchTransport, countries domain.SourceRegistry, config OrchestratorConfig) *Orchestrator {
	if config.PageDelayMax < config.PageDelayMin {
		config.PageDelayMax = config.PageDelayMin
	}
	return &Orchestrator{
		transport:    transport,
		countries:    countries,
		pageDelayMin: config.PageDelayMin,
		pageDelayMax: config.PageDelayMax,
	}
}

// Run fetches up to maxPages pages for one source. A failed page is logged and
// skipped. A page with no listings ends the run: this is a heuristic, and a
// transiently empty page looks exactly like the end of the results.
//
// The outcome succeeds when at least one listing was collected. Otherwise its
// error is the last transport error if no page was ever fetched, else
// "no products found across all pages".
func (o *Orchestrator) Run(ctx context.Context, extractor domain.SourceExtractor, query, country string, maxPages int) domain.FetchOutcome {
	outcome := domain.FetchOutcome{
		SourceID:   extractor.ID(),
		SourceName: extractor.Name(),
	}

	if !extractor.Supports(country) {
		outcome.Error = fmt.Errorf("%w: %s does not serve %s", domain.ErrUnsupportedCountry, extractor.Name(), country).Error()
		return outcome
	}

	if maxPages < 1 {
		maxPages = 1
	}

	var localCurrency string
	if o.countries != nil {
		localCurrency = o.countries.CurrencyFor(country)
	}

	log := logger.Log.WithFields(logrus.Fields{"source": extractor.ID(), "country": country})

	var lastErr error
	fetchedAny := false

	for page := 1; page <= maxPages; page++ {
		if page > 1 {
			if err := sleepContext(ctx, o.pageDelay()); err != nil {
				lastErr = err
				break
			}
		}

		outcome.PagesAttempted++
		target := extractor.BuildRequestTarget(query, country, page)

		listings, err := o.fetchPage(ctx, extractor, target, localCurrency)
		if err != nil {
			log.WithField("page", page).Warnf("[ORCH] Page failed: %v", err)
			lastErr = err
			continue
		}
		fetchedAny = true

		if len(listings) == 0 {
			log.WithField("page", page).Debug("[ORCH] Empty page, assuming end of results")
			break
		}

		log.WithField("page", page).Debugf("[ORCH] %d listings", len(listings))
		outcome.Listings = append(outcome.Listings, listings...)
	}

	if len(outcome.Listings) > 0 {
		outcome.Succeeded = true
		return outcome
	}

	if !fetchedAny && lastErr != nil {
		outcome.Error = lastErr.Error()
	} else {
		outcome.Error = domain.ErrNoProducts.Error()
	}
	return outcome
}

// RunSingle fetches only the first page
func (o *Orchestrator) RunSingle(ctx context.Context, extractor domain.SourceExtractor, query, country string) domain.FetchOutcome {
	return o.Run(ctx, extractor, query, country, 1)
}

// fetchPage fetches and parses one page. A panicking extractor fails the page
// instead of the process.
func (o *Orchestrator) fetchPage(ctx context.Context, extractor domain.SourceExtractor, target, localCurrency string) (listings []domain.Listing, err error) {
	doc, err := o.transport.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			listings = nil
			err = fmt.Errorf("parse %s: %v", extractor.ID(), r)
		}
	}()

	return extractor.Parse(doc, localCurrency), nil
}

func (o *Orchestrator) pageDelay() time.Duration {
	spread := o.pageDelayMax - o.pageDelayMin
	if spread <= 0 {
		return o.pageDelayMin
	}
	return o.pageDelayMin + rand.N(spread)
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
