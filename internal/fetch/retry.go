package fetch

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// nextRetryDelay honors Retry-After on 429 and otherwise backs off
// exponentially: base * 2^(n-1), clamped to max.
func nextRetryDelay(a attempt, n int, base, max time.Duration) time.Duration {
	if a.status == http.StatusTooManyRequests && a.retryAfter > 0 {
		if a.retryAfter > max {
			return max
		}
		return a.retryAfter
	}

	d := base << uint(n-1)
	if d > max || d <= 0 {
		d = max
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// parseRetryAfter reads delta-seconds or an HTTP-date. It returns 0 when the
// header is absent, invalid or in the past.
func parseRetryAfter(h http.Header) time.Duration {
	ra := strings.TrimSpace(h.Get("Retry-After"))
	if ra == "" {
		return 0
	}

	if secs, err := strconv.Atoi(ra); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}

	if t, err := http.ParseTime(ra); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
