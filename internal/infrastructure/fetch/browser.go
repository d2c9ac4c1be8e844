package fetch

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/pricelens/backend/internal/logger"
)

// BrowserTransport renders pages in headless Chrome before parsing them.
// It serves marketplaces whose result grids are built client-side.
type BrowserTransport struct {
	timeout  time.Duration
	settle   time.Duration
	execPath string
	debug    bool
}

// NewBrowserTransport creates a headless browser transport. settle is how long
// to wait after the body is ready for scripts to fill the page.
func NewBrowserTransport(timeout, settle time.Duration, execPath string) *BrowserTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if settle < 0 {
		settle = 0
	}
	return &BrowserTransport{timeout: timeout, settle: settle, execPath: execPath}
}

// SetDebug enables per-render logging
func (b *BrowserTransport) SetDebug(debug bool) {
	b.debug = debug
}

func (b *BrowserTransport) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(RandomUserAgent()),
	)
	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}
	return opts
}

// Fetch navigates to uri in a fresh browser, waits for the page to settle and
// parses the rendered HTML. The whole render shares one timeout.
func (b *BrowserTransport) Fetch(ctx context.Context, uri string) (*goquery.Document, error) {
	if err := validateURL(uri); err != nil {
		return nil, err
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, b.timeout)
	defer cancelTimeout()

	var html, location string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(uri),
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.settle),
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &Error{URL: uri, Message: "browser rendering failed", Cause: err}
	}

	if b.debug {
		logger.Log.Debugf("[FETCH] Rendered %s (%d bytes)", uri, len(html))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{URL: uri, Message: "failed to parse rendered HTML", Cause: err}
	}
	if location == "" {
		location = uri
	}
	doc.Url, _ = url.Parse(location)
	return doc, nil
}
