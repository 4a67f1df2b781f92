// Package lookup runs one dictionary lookup end to end: fetch the page,
// parse it, log the outcome and record metrics.
package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wordref/internal/dictpage"
	"wordref/internal/fetch"
	"wordref/internal/metrics"

	"github.com/google/uuid"
)

// Options configures a Service.
type Options struct {
	Fetcher   fetch.Fetcher
	Selectors dictpage.Selectors

	// From and To fill in a Query that leaves them empty.
	From string
	To   string

	// Job labels metrics.
	Job string

	Logger *slog.Logger
}

// Service is safe for concurrent use when its Fetcher is.
type Service struct {
	fetcher  fetch.Fetcher
	sel      dictpage.Selectors
	from, to string
	job      string
	log      *slog.Logger

	now   func() time.Time
	newID func() string
}

// New returns a Service. A zero Selectors value means DefaultSelectors.
func New(opts Options) *Service {
	sel := opts.Selectors
	if sel.Table == "" {
		sel = dictpage.DefaultSelectors()
	}
	job := opts.Job
	if job == "" {
		job = "wordref"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		fetcher: opts.Fetcher,
		sel:     sel,
		from:    opts.From,
		to:      opts.To,
		job:     job,
		log:     logger.With("component", "lookup"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Lookup fetches and parses the page for q.
//
// Errors match dictpage.ErrNotFound or dictpage.ErrMalformedPage for page
// problems; anything else is a query or fetch failure.
func (s *Service) Lookup(ctx context.Context, q fetch.Query) (*dictpage.Response, error) {
	if q.From == "" {
		q.From = s.from
	}
	if q.To == "" {
		q.To = s.to
	}
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	if s.fetcher == nil {
		return nil, fmt.Errorf("lookup: no fetcher configured")
	}

	log := s.log.With(
		slog.String("lookup_id", s.newID()),
		slog.String("word", q.Word),
		slog.String("pair", q.From+q.To),
	)
	start := s.now()

	page, err := s.fetcher.Fetch(ctx, q)
	if err != nil {
		err = fmt.Errorf("lookup %q: %w", q.Word, err)
		s.finish(ctx, log, start, nil, err)
		return nil, err
	}

	resp, err := dictpage.ParseWith(page, s.sel)
	s.finish(ctx, log, start, resp, err)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", q.Word, err)
	}
	return resp, nil
}

// Parse parses an already retrieved page, with the same logging and metrics
// as Lookup. source names the page in logs.
func (s *Service) Parse(ctx context.Context, source, page string) (*dictpage.Response, error) {
	log := s.log.With(slog.String("lookup_id", s.newID()), slog.String("source", source))
	start := s.now()

	resp, err := dictpage.ParseWith(page, s.sel)
	s.finish(ctx, log, start, resp, err)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	return resp, nil
}

func (s *Service) finish(ctx context.Context, log *slog.Logger, start time.Time, resp *dictpage.Response, err error) {
	kind := dictpage.ErrorKind(err)
	d := s.now().Sub(start)

	entries := 0
	if resp != nil {
		entries = len(resp.Definitions)
	}
	metrics.RecordLookup(s.job, kind, d, entries)

	switch kind {
	case dictpage.KindOK:
		log.InfoContext(ctx, "lookup done", slog.Int("entries", entries), slog.Duration("duration", d))
	case dictpage.KindNotFound:
		log.InfoContext(ctx, "no entry found", slog.Duration("duration", d))
	default:
		log.WarnContext(ctx, "lookup failed",
			slog.String("kind", kind),
			slog.String("error", err.Error()),
			slog.Duration("duration", d),
		)
	}
}
