// Package metrics is a small facade over a pluggable metrics backend.
//
// Callers record through the package-level helpers; the command decides at
// startup which Backend receives the data. Until SetBackend is called every
// call is a no-op.
package metrics

import (
	"strconv"
	"sync"
	"time"
)

// Labels are metric dimensions, e.g. {"status": "ok"}.
type Labels map[string]string

// Backend receives metric events. Implementations must be safe for concurrent
// use.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	Flush() error
}

// Metric names.
const (
	LookupsTotal          = "wordref_lookups_total"
	LookupDurationSeconds = "wordref_lookup_duration_seconds"
	EntriesTotal          = "wordref_entries_total"

	HTTPRequestsTotal           = "wordref_http_requests_total"
	HTTPErrorsTotal             = "wordref_http_errors_total"
	HTTPRequestDurationSeconds  = "wordref_http_request_duration_seconds"
	HTTPResponseDurationSeconds = "wordref_http_response_duration_seconds"
	HTTPDownloadBytes           = "wordref_http_download_bytes"
)

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b as the process-wide backend. A nil b restores the
// no-op backend.
func SetBackend(b Backend) {
	if b == nil {
		b = nopBackend{}
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush flushes the current backend.
func Flush() error {
	return current().Flush()
}

// RecordLookup records one finished lookup. status is one of the dictpage
// outcome kinds; entries is the number of senses returned.
func RecordLookup(job, status string, d time.Duration, entries int) {
	b := current()
	l := Labels{"job": job, "status": status}
	b.IncCounter(LookupsTotal, 1, l)
	b.ObserveHistogram(LookupDurationSeconds, d.Seconds(), l)
	if entries > 0 {
		b.IncCounter(EntriesTotal, float64(entries), Labels{"job": job})
	}
}

// RecordHTTP records one HTTP attempt. status is 0 when no response was
// received. Negative durations and sizes mean "not measured" and are skipped.
func RecordHTTP(job string, status int, err error, reqDur, respDur time.Duration, bytes int64) {
	b := current()
	l := Labels{"job": job, "status": statusLabel(status)}

	b.IncCounter(HTTPRequestsTotal, 1, l)
	if err != nil || status == 0 || status >= 400 {
		b.IncCounter(HTTPErrorsTotal, 1, l)
	}
	if reqDur >= 0 {
		b.ObserveHistogram(HTTPRequestDurationSeconds, reqDur.Seconds(), l)
	}
	if respDur >= 0 {
		b.ObserveHistogram(HTTPResponseDurationSeconds, respDur.Seconds(), l)
	}
	if bytes >= 0 {
		b.ObserveHistogram(HTTPDownloadBytes, float64(bytes), l)
	}
}

func statusLabel(code int) string {
	if code <= 0 {
		return "error"
	}
	return strconv.Itoa(code)
}
