package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	SourceStagger  time.Duration // delay per source index before its first request
	DedupThreshold float64
}

// SearchService runs a query against every source of a country and turns the
// raw listings into one ranked answer
type SearchService struct {
	countries    domain.SourceRegistry
	extractors   domain.ExtractorRegistry
	orchestrator *Orchestrator
	matcher      *MatchingService
	processor    *ResultProcessor

	stagger        time.Duration
	dedupThreshold float64
}

// PassResult is the merged output of one or two fetch passes
type PassResult struct {
	Listings []domain.Listing
	Errors   []string
	Summary  domain.Summary
	Outcomes []domain.FetchOutcome
}

// NewSearchService creates a new search service with dependencies
func NewSearchService(
	countries domain.SourceRegistry,
	extractors domain.ExtractorRegistry,
	orchestrator *Orchestrator,
	matcher *MatchingService,
	processor *ResultProcessor,
	config SearchServiceConfig,
) *SearchService {
	threshold := config.DedupThreshold
	if threshold <= 0 {
		threshold = DefaultDedupThreshold
	}

	return &SearchService{
		countries:      countries,
		extractors:     extractors,
		orchestrator:   orchestrator,
		matcher:        matcher,
		processor:      processor,
		stagger:        config.SourceStagger,
		dedupThreshold: threshold,
	}
}

// Search validates the request, fetches from every source of the country and
// returns matched, scored and deduplicated listings. Errors are returned only
// for invalid input; source failures end up in SearchResponse.Errors.
func (s *SearchService) Search(ctx context.Context, query, country string, opts domain.SearchOptions) (*domain.SearchResponse, error) {
	query, country, err := s.validate(query, country)
	if err != nil {
		return nil, err
	}
	if !s.countries.IsSupported(country) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedCountry, country)
	}

	opts = opts.Normalize()
	searchID := uuid.NewString()
	log := logger.Log.WithFields(logrus.Fields{"search_id": searchID, "country": country})
	log.Infof("[SEARCH] %q (pages=%d comprehensive=%t)", query, opts.MaxPages, opts.Comprehensive)

	start := time.Now()
	var pass *PassResult
	if opts.Comprehensive {
		pass = s.SearchComprehensive(ctx, query, country, opts)
	} else {
		pass = s.SearchOnce(ctx, query, country, opts)
	}

	resp := s.finish(ctx, searchID, query, country, pass, opts)
	log.Infof("[SEARCH] Done in %s: %d listings, %d/%d sources ok",
		time.Since(start).Round(time.Millisecond), len(resp.Listings),
		resp.Summary.SuccessfulSources, resp.Summary.SuccessfulSources+resp.Summary.FailedSources)

	return resp, nil
}

// SearchSource runs the first page of a single source
func (s *SearchService) SearchSource(ctx context.Context, sourceID, query, country string, opts domain.SearchOptions) (*domain.SearchResponse, error) {
	query, country, err := s.validate(query, country)
	if err != nil {
		return nil, err
	}

	extractor, ok := s.extractors.Get(strings.ToLower(sourceID))
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, sourceID)
	}
	if !extractor.Supports(country) {
		return nil, fmt.Errorf("%w: %s does not serve %s", domain.ErrUnsupportedCountry, extractor.Name(), country)
	}

	opts = opts.Normalize()
	searchID := uuid.NewString()
	logger.Log.WithFields(logrus.Fields{"search_id": searchID, "source": extractor.ID()}).
		Infof("[SEARCH] Single source %q in %s", query, country)

	outcome := s.orchestrator.RunSingle(ctx, extractor, query, country)
	pass := summarize([]domain.FetchOutcome{outcome})

	return s.finish(ctx, searchID, query, country, pass, opts), nil
}

// SearchOnce runs every applicable source of the country concurrently
func (s *SearchService) SearchOnce(ctx context.Context, query, country string, opts domain.SearchOptions) *PassResult {
	return s.runPass(ctx, s.resolveSources(country), query, country, opts.Normalize().MaxPages)
}

// SearchComprehensive runs one pass and, when enabled and a source failed,
// exactly one retry pass over the failed sources with half the pages
func (s *SearchService) SearchComprehensive(ctx context.Context, query, country string, opts domain.SearchOptions) *PassResult {
	opts = opts.Normalize()
	extractors := s.resolveSources(country)
	first := s.runPass(ctx, extractors, query, country, opts.MaxPages)

	if !opts.RetryFailedSites || first.Summary.FailedSources == 0 {
		return first
	}

	var failed []domain.SourceExtractor
	for i, outcome := range first.Outcomes {
		if !outcome.Succeeded {
			failed = append(failed, extractors[i])
		}
	}
	if len(failed) == 0 {
		return first
	}

	retryPages := max(1, opts.MaxPages/2)
	logger.Log.WithField("country", country).
		Infof("[SEARCH] Retrying %d failed sources with %d pages", len(failed), retryPages)

	retry := s.runPass(ctx, failed, query, country, retryPages)

	merged := &PassResult{
		Listings: append(first.Listings, retry.Listings...),
		Errors:   append(first.Errors, retry.Errors...),
		Outcomes: append(first.Outcomes, retry.Outcomes...),
		Summary:  first.Summary,
	}
	merged.Summary.TotalListings = len(merged.Listings)
	merged.Summary.SuccessfulSources += retry.Summary.SuccessfulSources
	merged.Summary.FailedSources = len(extractors) - merged.Summary.SuccessfulSources
	merged.Summary.TotalPagesAttempted += retry.Summary.TotalPagesAttempted
	merged.Summary.RetryAttempts = 1

	return merged
}

// resolveSources keeps registry sources that have an extractor which also
// claims the country
func (s *SearchService) resolveSources(country string) []domain.SourceExtractor {
	var out []domain.SourceExtractor
	for _, id := range s.countries.SourcesFor(country) {
		extractor, ok := s.extractors.Get(id)
		if ok && extractor.Supports(country) {
			out = append(out, extractor)
		}
	}
	return out
}

// runPass fans out one orchestrator run per source. Source i waits
// i*stagger before its first request. Each goroutine writes only its own
// outcome slot and never returns an error, so no run cancels another.
func (s *SearchService) runPass(ctx context.Context, extractors []domain.SourceExtractor, query, country string, maxPages int) *PassResult {
	if len(extractors) == 0 {
		return &PassResult{
			Errors:  []string{domain.ErrNoSources.Error()},
			Summary: domain.Summary{SourceNames: []string{}},
		}
	}

	outcomes := make([]domain.FetchOutcome, len(extractors))

	var g errgroup.Group
	for i, extractor := range extractors {
		g.Go(func() error {
			if err := sleepContext(ctx, time.Duration(i)*s.stagger); err != nil {
				outcomes[i] = domain.FetchOutcome{
					SourceID:   extractor.ID(),
					SourceName: extractor.Name(),
					Error:      err.Error(),
				}
				return nil
			}
			outcomes[i] = s.orchestrator.Run(ctx, extractor, query, country, maxPages)
			return nil
		})
	}
	_ = g.Wait()

	return summarize(outcomes)
}

// summarize flattens outcomes in source order
func summarize(outcomes []domain.FetchOutcome) *PassResult {
	result := &PassResult{
		Errors:   []string{},
		Outcomes: outcomes,
		Summary:  domain.Summary{SourceNames: make([]string, 0, len(outcomes))},
	}

	for _, o := range outcomes {
		result.Summary.SourceNames = append(result.Summary.SourceNames, o.SourceName)
		result.Summary.TotalPagesAttempted += o.PagesAttempted

		if o.Succeeded {
			result.Summary.SuccessfulSources++
			result.Listings = append(result.Listings, o.Listings...)
			continue
		}
		result.Summary.FailedSources++
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", o.SourceName, o.Error))
	}

	result.Summary.TotalListings = len(result.Listings)
	return result
}

// finish runs matching, processing and deduplication over a pass
func (s *SearchService) finish(ctx context.Context, searchID, query, country string, pass *PassResult, opts domain.SearchOptions) *domain.SearchResponse {
	matched := s.matcher.MatchEach(query, pass.Listings)
	admitted := s.matcher.Admit(matched)
	scored := s.processor.Process(ctx, admitted, opts)
	unique := s.processor.RemoveDuplicates(scored, s.dedupThreshold)

	summary := pass.Summary
	summary.TotalListings = len(unique)

	errs := pass.Errors
	if errs == nil {
		errs = []string{}
	}

	return &domain.SearchResponse{
		SearchID:   searchID,
		Query:      query,
		Country:    country,
		Listings:   unique,
		Errors:     errs,
		Summary:    summary,
		Statistics: BuildStatistics(unique),
		Matching:   s.matcher.Statistics(matched),
	}
}

// validate trims the query and normalizes the country code
func (s *SearchService) validate(query, country string) (string, string, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < 2 {
		return "", "", fmt.Errorf("%w: query must be at least 2 characters", domain.ErrInvalidRequest)
	}

	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		return "", "", fmt.Errorf("%w: country is required", domain.ErrInvalidRequest)
	}

	return query, country, nil
}

// Countries lists every supported country
func (s *SearchService) Countries() []domain.Country {
	return s.countries.Countries()
}

// Country returns one country
func (s *SearchService) Country(code string) (domain.Country, bool) {
	return s.countries.Country(code)
}

// Sources lists every registered source
func (s *SearchService) Sources() []domain.SourceInfo {
	return s.extractors.Info()
}
