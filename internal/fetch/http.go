package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"wordref/internal/metrics"
)

// DefaultUserAgent is sent when HTTPOptions.UserAgent is empty. The site
// serves a reduced page to clients without a browser user agent.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	maxBodyBytes   = 8 << 20
	errorBodyBytes = 4 << 10
)

// ErrBodyTooLarge is returned when a successful response exceeds the body
// limit. The page is not parsed, since a cut-off table would lose entries.
var ErrBodyTooLarge = errors.New("fetch: response body too large")

// StatusError is returned for a final non-2xx response.
type StatusError struct {
	Code int
	// Body holds up to 4KB of the response body.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("fetch: http status %d", e.Code)
	}
	return fmt.Sprintf("fetch: http status %d: %s", e.Code, e.Body)
}

// HTTPOptions configures an HTTPFetcher. Zero values get defaults.
type HTTPOptions struct {
	BaseURL   string
	UserAgent string

	// Timeout bounds each attempt. Default 15s.
	Timeout time.Duration

	// MaxAttempts includes the first attempt. Default 3.
	MaxAttempts int

	// BaseBackoff doubles per retry up to MaxBackoff. Defaults 500ms and 8s.
	BaseBackoff time.Duration
	MaxBackoff  time.Duration

	// Job labels the HTTP metrics.
	Job string

	Client *http.Client
	Logger *slog.Logger
}

// HTTPFetcher fetches pages over HTTP, retrying network errors, 5xx and 429.
type HTTPFetcher struct {
	opts   HTTPOptions
	client *http.Client
	log    *slog.Logger

	// sleep waits d or until ctx is done; it reports whether d elapsed.
	sleep func(ctx context.Context, d time.Duration) bool
	// maxBody caps a 2xx body.
	maxBody int64
}

// NewHTTPFetcher returns an HTTPFetcher with defaults applied to opts.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 500 * time.Millisecond
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 8 * time.Second
	}
	if opts.MaxBackoff < opts.BaseBackoff {
		opts.MaxBackoff = opts.BaseBackoff
	}
	if opts.Job == "" {
		opts.Job = "wordref"
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &HTTPFetcher{
		opts:   opts,
		client: client,
		log:    logger.With("component", "fetch"),
		sleep:   sleepContext,
		maxBody: maxBodyBytes,
	}
}

// attempt is the outcome of one HTTP round trip.
type attempt struct {
	status     int
	body       string
	err        error
	reqDur     time.Duration
	respDur    time.Duration
	size       int64
	retryAfter time.Duration
}

// Fetch implements Fetcher. q is normalized first.
func (f *HTTPFetcher) Fetch(ctx context.Context, q Query) (string, error) {
	q, err := q.Normalize()
	if err != nil {
		return "", err
	}
	rawURL := BuildURL(f.opts.BaseURL, q)

	var last attempt
	for n := 1; n <= f.opts.MaxAttempts; n++ {
		last = f.do(ctx, rawURL)
		metrics.RecordHTTP(f.opts.Job, last.status, last.err, last.reqDur, last.respDur, last.size)

		f.log.DebugContext(ctx, "http attempt",
			slog.String("url", rawURL),
			slog.Int("attempt", n),
			slog.Int("status", last.status),
			slog.Int64("bytes", last.size),
			slog.Duration("duration", last.respDur),
		)

		if last.err == nil && last.status >= 200 && last.status < 300 {
			return last.body, nil
		}
		if !retryable(last) || n == f.opts.MaxAttempts || ctx.Err() != nil {
			break
		}

		wait := nextRetryDelay(last, n, f.opts.BaseBackoff, f.opts.MaxBackoff)
		f.log.WarnContext(ctx, "http retry",
			slog.String("url", rawURL),
			slog.Int("attempt", n),
			slog.String("reason", retryReason(last)),
			slog.Duration("wait", wait),
		)
		if !f.sleep(ctx, wait) {
			return "", fmt.Errorf("fetch %s: %w", rawURL, ctx.Err())
		}
	}

	if last.err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, last.err)
	}
	return "", &StatusError{Code: last.status, Body: last.body}
}

func (f *HTTPFetcher) do(ctx context.Context, rawURL string) attempt {
	start := time.Now()
	a := attempt{reqDur: -1, respDur: -1, size: -1}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		a.err = fmt.Errorf("new request: %w", err)
		return a
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		a.err = err
		return a
	}
	defer resp.Body.Close()

	a.reqDur = time.Since(start)
	a.status = resp.StatusCode

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	limit := f.maxBody
	if !ok {
		limit = errorBodyBytes
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	a.size = int64(len(b))
	a.respDur = time.Since(start)
	if err != nil {
		a.err = fmt.Errorf("read body: %w", err)
		return a
	}
	if int64(len(b)) > limit {
		if ok {
			a.err = fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
			return a
		}
		b = b[:limit]
	}

	if ok {
		a.body = string(b)
	} else {
		a.body = strings.TrimSpace(string(b))
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		a.retryAfter = parseRetryAfter(resp.Header)
	}
	return a
}

func retryable(a attempt) bool {
	if errors.Is(a.err, ErrBodyTooLarge) {
		return false
	}
	return a.err != nil || a.status == http.StatusTooManyRequests || a.status >= 500
}

func retryReason(a attempt) string {
	if a.err != nil {
		return a.err.Error()
	}
	return fmt.Sprintf("status %d", a.status)
}
