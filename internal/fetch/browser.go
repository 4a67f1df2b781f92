package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"wordref/internal/metrics"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserOptions configures a BrowserFetcher.
type BrowserOptions struct {
	BaseURL   string
	UserAgent string

	// Timeout bounds one navigation, including the wait for the load event.
	// Default 30s.
	Timeout time.Duration

	// Bin is an explicit Chrome binary. Empty lets rod find or download one.
	Bin string

	// ControlURL connects to an already running browser instead of launching
	// one.
	ControlURL string

	Job    string
	Logger *slog.Logger
}

// BrowserFetcher renders pages in a headless Chrome driven by rod. The
// browser is started on the first Fetch and reused until Close.
type BrowserFetcher struct {
	opts BrowserOptions
	log  *slog.Logger

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewBrowserFetcher returns a BrowserFetcher. No browser is started yet.
func NewBrowserFetcher(opts BrowserOptions) *BrowserFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Job == "" {
		opts.Job = "wordref"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BrowserFetcher{opts: opts, log: logger.With("component", "browser")}
}

func (f *BrowserFetcher) connect() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		return f.browser, nil
	}

	controlURL := f.opts.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if f.opts.Bin != "" {
			l = l.Bin(f.opts.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		f.launcher = l
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		if f.launcher != nil {
			f.launcher.Cleanup()
			f.launcher = nil
		}
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	f.browser = b
	return b, nil
}

// Fetch implements Fetcher. Each call uses a fresh tab.
func (f *BrowserFetcher) Fetch(ctx context.Context, q Query) (string, error) {
	q, err := q.Normalize()
	if err != nil {
		return "", err
	}
	rawURL := BuildURL(f.opts.BaseURL, q)

	start := time.Now()
	page, status, navDur, err := f.render(ctx, rawURL)
	total := time.Since(start)

	size := int64(len(page))
	if err != nil {
		status, size = 0, -1
		err = fmt.Errorf("fetch %s: %w", rawURL, err)
	} else {
		err = documentStatusError(status, page)
	}
	metrics.RecordHTTP(f.opts.Job, status, err, navDur, total, size)
	f.log.DebugContext(ctx, "browser fetch",
		slog.String("url", rawURL),
		slog.Int("status", status),
		slog.Int64("bytes", size),
		slog.Duration("duration", total),
	)

	if err != nil {
		return "", err
	}
	return page, nil
}

// documentStatusError is nil for a 2xx document and a *StatusError carrying
// up to 4KB of the rendered markup otherwise.
func documentStatusError(status int, page string) error {
	if status >= 200 && status < 300 {
		return nil
	}
	body := strings.TrimSpace(page)
	if len(body) > errorBodyBytes {
		body = body[:errorBodyBytes]
	}
	return &StatusError{Code: status, Body: body}
}

// render loads rawURL in a new tab and returns its markup together with the
// HTTP status of the main document.
func (f *BrowserFetcher) render(ctx context.Context, rawURL string) (string, int, time.Duration, error) {
	b, err := f.connect()
	if err != nil {
		return "", 0, -1, err
	}

	tab, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", 0, -1, fmt.Errorf("open tab: %w", err)
	}
	defer func() { _ = tab.Close() }()

	p := tab.Context(ctx).Timeout(f.opts.Timeout)
	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.opts.UserAgent}); err != nil {
		return "", 0, -1, fmt.Errorf("set user agent: %w", err)
	}

	// Navigate succeeds on any HTTP status, so the document response is
	// watched separately. Subresources and iframes are ignored.
	var status int
	waitDoc := p.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument || e.FrameID != p.FrameID {
			return false
		}
		status = e.Response.Status
		return true
	})

	start := time.Now()
	if err := p.Navigate(rawURL); err != nil {
		return "", 0, -1, fmt.Errorf("navigate: %w", err)
	}
	waitDoc()
	if err := p.WaitLoad(); err != nil {
		return "", 0, -1, fmt.Errorf("wait load: %w", err)
	}
	navDur := time.Since(start)
	if status == 0 {
		return "", 0, navDur, fmt.Errorf("no document response for %s", rawURL)
	}

	html, err := p.HTML()
	if err != nil {
		return "", status, navDur, fmt.Errorf("read html: %w", err)
	}
	return html, status, navDur, nil
}

// Close shuts the browser down. It is safe to call when no browser was
// started and more than once.
func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Cleanup()
		f.launcher = nil
	}
	return err
}
