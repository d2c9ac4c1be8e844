package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/currency"
	"github.com/pricelens/backend/internal/logger"
)

// DefaultRateTTL is how long a successful refresh stays fresh
const DefaultRateTTL = time.Hour

// RateCache is the process-wide exchange rate table. Reads are concurrent;
// refreshes happen at most once per TTL window and replace the table whole.
type RateCache struct {
	rates       map[string]float64
	lastRefresh time.Time
	mutex       sync.RWMutex

	// refreshMutex serializes refreshers so a stale window triggers one provider call
	refreshMutex sync.Mutex

	provider domain.RateProvider
	clock    domain.Clock
	ttl      time.Duration
}

// NewRateCache creates a cache seeded with the built-in fallback rates.
// A nil clock means the wall clock; ttl <= 0 means DefaultRateTTL.
func NewRateCache(provider domain.RateProvider, clock domain.Clock, ttl time.Duration) *RateCache {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if ttl <= 0 {
		ttl = DefaultRateTTL
	}
	if provider == nil {
		provider = currency.StaticProvider{}
	}

	return &RateCache{
		rates:    currency.FallbackRates(),
		provider: provider,
		clock:    clock,
		ttl:      ttl,
	}
}

// IsFresh reports whether the last successful refresh is within the TTL window
func (c *RateCache) IsFresh() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.freshLocked()
}

func (c *RateCache) freshLocked() bool {
	return !c.lastRefresh.IsZero() && c.clock.Now().Sub(c.lastRefresh) < c.ttl
}

// EnsureFresh refreshes the table when the window has expired. On failure the
// previous rates stay in place and the error is returned for the caller to log.
func (c *RateCache) EnsureFresh(ctx context.Context) error {
	if c.IsFresh() {
		return nil
	}

	c.refreshMutex.Lock()
	defer c.refreshMutex.Unlock()

	// another caller may have refreshed while we waited
	if c.IsFresh() {
		return nil
	}

	fetched, err := c.provider.FetchRates(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRateRefreshFailed, err)
	}
	if len(fetched) == 0 {
		return fmt.Errorf("%w: provider returned no rates", domain.ErrRateRefreshFailed)
	}

	c.mutex.RLock()
	next := make(map[string]float64, len(c.rates)+len(fetched))
	for code, rate := range c.rates {
		next[code] = rate
	}
	c.mutex.RUnlock()

	for code, rate := range fetched {
		if rate > 0 {
			next[code] = rate
		}
	}
	next[currency.BaseCurrency] = 1

	c.mutex.Lock()
	c.rates = next
	c.lastRefresh = c.clock.Now()
	c.mutex.Unlock()

	logger.Log.Debugf("[RATES] Refreshed %d exchange rates", len(fetched))
	return nil
}

// Convert converts amount between currencies with the current table
func (c *RateCache) Convert(amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return currency.Convert(c.rates, amount, from, to)
}

// Rate returns the current rate for one currency against USD
func (c *RateCache) Rate(code string) (float64, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	rate, ok := c.rates[code]
	return rate, ok
}

// LastRefresh returns when the table was last refreshed successfully (zero if never)
func (c *RateCache) LastRefresh() time.Time {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.lastRefresh
}

// Size returns the number of known currencies
func (c *RateCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.rates)
}
