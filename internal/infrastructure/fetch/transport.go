// Package fetch implements the page transports used by the source orchestrator.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/logger"
)

// DefaultTimeout bounds every single page fetch
const DefaultTimeout = 10 * time.Second

// DefaultMaxBodyBytes caps how much of a response body is parsed
const DefaultMaxBodyBytes = 5 << 20

// Error represents a failed page fetch
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets every fetch error match domain.ErrFetchFailed
func (e *Error) Is(target error) bool {
	return target == domain.ErrFetchFailed
}

// Options configures HTTPTransport
type Options struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	Headers      map[string]string
}

// HTTPTransport fetches pages over plain HTTP with a rotating browser identity
type HTTPTransport struct {
	client       *http.Client
	timeout      time.Duration
	maxBodyBytes int64
	headers      map[string]string
	debug        bool
}

// NewHTTPTransport creates a transport. Zero option values take the package defaults.
func NewHTTPTransport(opts Options) *HTTPTransport {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &HTTPTransport{
		client:       &http.Client{},
		timeout:      opts.Timeout,
		maxBodyBytes: opts.MaxBodyBytes,
		headers:      opts.Headers,
	}
}

// SetDebug enables per-request logging
func (t *HTTPTransport) SetDebug(debug bool) {
	t.debug = debug
}

// Fetch downloads uri and parses it into a document. A timeout, a transport
// failure or a non-2xx status all come back as *Error.
func (t *HTTPTransport) Fetch(ctx context.Context, uri string) (*goquery.Document, error) {
	if err := validateURL(uri); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &Error{URL: uri, Message: "failed to create request", Cause: err}
	}
	setBrowserHeaders(req)
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{URL: uri, Message: fmt.Sprintf("timed out after %s", t.timeout), Cause: err}
		}
		return nil, &Error{URL: uri, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &Error{URL: uri, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, t.maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: uri, Message: "failed to parse HTML", Cause: err}
	}
	// relative links resolve against the page that was finally served
	doc.Url = req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		doc.Url = resp.Request.URL
	}

	if t.debug {
		logger.Log.Debugf("[FETCH] %s -> %d in %s", uri, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	}
	return doc, nil
}

func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", RandomUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
}

func validateURL(uri string) error {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &Error{URL: uri, Message: "invalid URL", Cause: err}
	}
	return nil
}
