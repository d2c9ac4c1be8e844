package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/logger"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

// ratesResponse covers the common shape of public rate APIs
// (exchangerate-api, open.er-api, frankfurter): {"base": "USD", "rates": {...}}
type ratesResponse struct {
	Base     string             `json:"base"`
	BaseCode string             `json:"base_code"`
	Rates    map[string]float64 `json:"rates"`
}

// Client fetches exchange rates from an HTTP JSON endpoint
type Client struct {
	httpClient  *http.Client
	endpoint    string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a rate API client. requestsPerMinute <= 0 defaults to 30.
func NewClient(endpoint string, requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 3)

	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		endpoint:    endpoint,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns 500ms, 1s, 2s... for attempts 1, 2, 3...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<(attempt-1)) * time.Millisecond
}

// FetchRates retrieves a rate table rebased to USD. Server errors and 429s are
// retried with exponential backoff; other client errors fail immediately.
func (c *Client) FetchRates(ctx context.Context) (map[string]float64, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		rates, retry, err := c.fetchOnce(ctx)
		if err == nil {
			if c.debug {
				logger.Log.Debugf("[RATES] Fetched %d rates from %s", len(rates), c.endpoint)
			}
			return rates, nil
		}

		lastErr = err
		logger.Log.Warnf("[RATES] Attempt %d failed: %v", attempt, err)
		if !retry || attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(exponentialBackoff(attempt)):
		}
	}

	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context) (map[string]float64, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "PriceLens/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrRateRefreshFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, true, fmt.Errorf("%w: reading body: %v", domain.ErrRateRefreshFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retry, fmt.Errorf("%w: status %d", domain.ErrRateRefreshFailed, resp.StatusCode)
	}

	var payload ratesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false, fmt.Errorf("%w: decode: %v", domain.ErrRateRefreshFailed, err)
	}

	rates, err := toUSDBase(payload)
	if err != nil {
		return nil, false, err
	}
	return rates, false, nil
}

// toUSDBase drops non-positive entries and rebases non-USD tables through their USD rate
func toUSDBase(payload ratesResponse) (map[string]float64, error) {
	base := strings.ToUpper(payload.Base)
	if base == "" {
		base = strings.ToUpper(payload.BaseCode)
	}
	if base == "" {
		base = BaseCurrency
	}

	rates := make(map[string]float64, len(payload.Rates)+1)
	for code, value := range payload.Rates {
		if value > 0 {
			rates[strings.ToUpper(code)] = value
		}
	}
	rates[base] = 1

	if base != BaseCurrency {
		usd, ok := rates[BaseCurrency]
		if !ok {
			return nil, fmt.Errorf("%w: table based on %s has no USD rate", domain.ErrRateRefreshFailed, base)
		}
		for code, value := range rates {
			rates[code] = value / usd
		}
	}

	if len(rates) < 2 {
		return nil, fmt.Errorf("%w: empty rate table", domain.ErrRateRefreshFailed)
	}
	return rates, nil
}
