// Command wordref looks a word up in the WordReference bilingual dictionary
// and prints its senses.
//
// Usage:
//
//	wordref delantal
//	wordref -from fr -to en -format json tablier
//	wordref -interactive delantal
//	wordref -pick 1,3 delantal
//
// Offline parsing of saved pages:
//
//	wordref -input page.html
//	cat page.html | wordref -input -
//	wordref -dir ./pages
//
// Debug (print matches for a selector, or the row groups of a page):
//
//	wordref -input page.html -selector "table.WRD tr.even" -text
//	wordref -groups delantal
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"wordref/internal/app"
	"wordref/internal/config"
	"wordref/internal/dictpage"
	"wordref/internal/fetch"
	"wordref/internal/lookup"
	"wordref/internal/metrics"
	"wordref/internal/metrics/datadog"
	"wordref/internal/render"
)

// Exit codes.
const (
	exitOK        = 0
	exitRuntime   = 1
	exitUsage     = 2
	exitNotFound  = 3
	exitMalformed = 4
)

// backendCloser is the metrics backend the command owns for its lifetime.
type backendCloser interface {
	metrics.Backend
	Close() error
}

// deps are external seams for tests.
type deps struct {
	HTTPClient     *http.Client
	BackendFactory func(ctx context.Context, opts datadog.Options) (backendCloser, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, deps{
		HTTPClient: http.DefaultClient,
		BackendFactory: func(ctx context.Context, opts datadog.Options) (backendCloser, error) {
			return datadog.NewBackend(ctx, opts)
		},
	})
	stop()
	os.Exit(code)
}

// cliFlags holds parsed command-line flags. Empty or zero values leave the
// configuration untouched.
type cliFlags struct {
	configPath    string
	from, to      string
	format        string
	interactive   bool
	pick          string
	input         string
	dir           string
	selector      string
	textOnly      bool
	groups        bool
	selectorsFile string
	browser       bool
	timeout       time.Duration
	baseURL       string
	verbose       bool
}

func parseFlags(args []string, stderr io.Writer) (cliFlags, []string, error) {
	fs := flag.NewFlagSet("wordref", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: wordref [flags] <word>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	var f cliFlags
	fs.StringVar(&f.configPath, "config", "", "Path to YAML config (default $"+config.PathEnv+")")
	fs.StringVar(&f.from, "from", "", "Source language code (default from config, es)")
	fs.StringVar(&f.to, "to", "", "Target language code (default from config, en)")
	fs.StringVar(&f.format, "format", "table", "Output format: table or json")
	fs.BoolVar(&f.interactive, "interactive", false, "List entries and ask which to print")
	fs.StringVar(&f.pick, "pick", "", "Print only these entries, e.g. 1,3 or 2-4")
	fs.StringVar(&f.input, "input", "", "Parse a saved page from this file (- for stdin) instead of fetching")
	fs.StringVar(&f.dir, "dir", "", "Parse every saved page in this directory and print a JSON array")
	fs.StringVar(&f.selector, "selector", "", "Debug: print matches for this CSS selector")
	fs.BoolVar(&f.textOnly, "text", false, "Debug: with -selector, print text instead of HTML")
	fs.BoolVar(&f.groups, "groups", false, "Debug: print the row groups found on the page")
	fs.StringVar(&f.selectorsFile, "selectors", "", "JSON file overriding page selectors")
	fs.BoolVar(&f.browser, "browser", false, "Fetch with a headless browser instead of plain HTTP")
	fs.DurationVar(&f.timeout, "timeout", 0, "Per-request fetch timeout (default from config, 15s)")
	fs.StringVar(&f.baseURL, "base_url", "", "Dictionary base URL (default from config)")
	fs.BoolVar(&f.verbose, "v", false, "Debug logging")

	if err := fs.Parse(args); err != nil {
		return cliFlags{}, nil, err
	}
	if f.format != "table" && f.format != "json" {
		return cliFlags{}, nil, fmt.Errorf("-format must be table or json (got %q)", f.format)
	}
	if f.interactive && f.pick != "" {
		return cliFlags{}, nil, errors.New("-interactive and -pick are mutually exclusive")
	}
	return f, fs.Args(), nil
}

// applyFlags lets explicit flags override loaded configuration.
func applyFlags(cfg *config.Config, f cliFlags) {
	if f.from != "" {
		cfg.Lookup.From = f.from
	}
	if f.to != "" {
		cfg.Lookup.To = f.to
	}
	if f.selectorsFile != "" {
		cfg.Lookup.SelectorsFile = f.selectorsFile
	}
	if f.browser {
		cfg.Fetch.Mode = config.ModeBrowser
	}
	if f.timeout > 0 {
		cfg.Fetch.Timeout = f.timeout
	}
	if f.baseURL != "" {
		cfg.Fetch.BaseURL = f.baseURL
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
}

// run is split out from main so the command can be tested without spawning
// a process. It returns the exit code.
//
//   - 0: success
//   - 1: fetch or other runtime failure
//   - 2: usage or configuration error
//   - 3: the dictionary has no entry for the word
//   - 4: the page could not be parsed
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, d deps) int {
	f, rest, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "wordref: %v\n", err)
		}
		return exitUsage
	}
	word := strings.TrimSpace(strings.Join(rest, " "))

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "wordref: %v\n", err)
		return exitUsage
	}
	applyFlags(cfg, f)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "wordref: %v\n", err)
		return exitUsage
	}

	logger := app.NewLogger(cfg.Log, stderr)

	sel := dictpage.DefaultSelectors()
	if cfg.Lookup.SelectorsFile != "" {
		if sel, err = dictpage.LoadSelectorFile(cfg.Lookup.SelectorsFile); err != nil {
			fmt.Fprintf(stderr, "wordref: %v\n", err)
			return exitUsage
		}
	}

	if cfg.Metrics.Backend == config.BackendDatadog {
		if d.BackendFactory == nil {
			fmt.Fprintln(stderr, "wordref: internal error: BackendFactory is nil")
			return exitUsage
		}
		backend, err := d.BackendFactory(ctx, datadog.Options{
			JobName:    cfg.Metrics.JobName,
			Tags:       append(datadog.ParseTagsCSV(cfg.Metrics.Tags), "tool:wordref"),
			FlushEvery: cfg.Metrics.FlushEvery,
		})
		if err != nil {
			fmt.Fprintf(stderr, "wordref: datadog backend init failed: %v\n", err)
			return exitUsage
		}
		metrics.SetBackend(backend)
		defer func() {
			_ = metrics.Flush()
			if err := backend.Close(); err != nil {
				logger.Warn("metrics close failed", slog.String("error", err.Error()))
			}
			metrics.SetBackend(nil)
		}()
	}

	if f.dir != "" {
		if err := dictpage.StreamFromDir(stdout, f.dir, sel); err != nil {
			fmt.Fprintf(stderr, "wordref: %v\n", err)
			return exitRuntime
		}
		return exitOK
	}

	if f.input == "" && word == "" {
		fmt.Fprintln(stderr, "wordref: missing <word> (or -input / -dir)")
		return exitUsage
	}

	q := fetch.Query{Word: word, From: cfg.Lookup.From, To: cfg.Lookup.To}
	if f.input == "" {
		if q, err = q.Normalize(); err != nil {
			fmt.Fprintf(stderr, "wordref: %v\n", err)
			return exitUsage
		}
	}

	fetcher, closeFetcher := newFetcher(cfg, d, logger)
	defer closeFetcher()

	svc := lookup.New(lookup.Options{
		Fetcher:   fetcher,
		Selectors: sel,
		From:      cfg.Lookup.From,
		To:        cfg.Lookup.To,
		Job:       cfg.Metrics.JobName,
		Logger:    logger,
	})

	if f.selector != "" || f.groups {
		page, err := loadPage(ctx, f.input, stdin, fetcher, q)
		if err != nil {
			fmt.Fprintf(stderr, "wordref: %v\n", err)
			return exitRuntime
		}
		if f.selector != "" {
			err = dictpage.DebugPrintSelector(stdout, page, f.selector, f.textOnly)
		} else {
			err = dictpage.DebugGroups(stdout, page, sel)
		}
		if err != nil {
			fmt.Fprintf(stderr, "wordref: %v\n", err)
			return exitCode(err)
		}
		return exitOK
	}

	var resp *dictpage.Response
	if f.input != "" {
		page, err := fetch.ReadInput(f.input, stdin)
		if err != nil {
			fmt.Fprintf(stderr, "wordref: %v\n", err)
			return exitUsage
		}
		resp, err = svc.Parse(ctx, f.input, page)
		if err != nil {
			return reportLookupError(stderr, f.input, err)
		}
	} else {
		resp, err = svc.Lookup(ctx, q)
		if err != nil {
			return reportLookupError(stderr, q.Word, err)
		}
	}

	defs := resp.Definitions
	switch {
	case f.pick != "":
		idx, err := render.ParseSelection(f.pick, len(defs))
		if err != nil {
			fmt.Fprintf(stderr, "wordref: -pick: %v\n", err)
			return exitUsage
		}
		defs = pickDefs(defs, idx)
	case f.interactive:
		defs, err = render.Choose(stdin, stderr, defs)
		if err != nil {
			fmt.Fprintf(stderr, "wordref: %v\n", err)
			if errors.Is(err, render.ErrInvalidSelection) {
				return exitUsage
			}
			return exitRuntime
		}
	}

	if f.format == "json" {
		err = render.JSON(stdout, &dictpage.Response{Definitions: defs})
	} else {
		err = render.Table(stdout, defs)
	}
	if err != nil {
		fmt.Fprintf(stderr, "wordref: write output: %v\n", err)
		return exitRuntime
	}
	return exitOK
}

// newFetcher builds the configured Fetcher and the func that releases it.
func newFetcher(cfg *config.Config, d deps, logger *slog.Logger) (fetch.Fetcher, func()) {
	if cfg.Fetch.Mode == config.ModeBrowser {
		b := fetch.NewBrowserFetcher(fetch.BrowserOptions{
			BaseURL:   cfg.Fetch.BaseURL,
			UserAgent: cfg.Fetch.UserAgent,
			Timeout:   cfg.Fetch.Timeout,
			Bin:       cfg.Fetch.ChromeBin,
			Job:       cfg.Metrics.JobName,
			Logger:    logger,
		})
		return b, func() {
			if err := b.Close(); err != nil {
				logger.Warn("browser close failed", slog.String("error", err.Error()))
			}
		}
	}

	return fetch.NewHTTPFetcher(fetch.HTTPOptions{
		BaseURL:     cfg.Fetch.BaseURL,
		UserAgent:   cfg.Fetch.UserAgent,
		Timeout:     cfg.Fetch.Timeout,
		MaxAttempts: cfg.Fetch.MaxAttempts,
		BaseBackoff: cfg.Fetch.BaseBackoff,
		MaxBackoff:  cfg.Fetch.MaxBackoff,
		Job:         cfg.Metrics.JobName,
		Client:      d.HTTPClient,
		Logger:      logger,
	}), func() {}
}

func loadPage(ctx context.Context, input string, stdin io.Reader, f fetch.Fetcher, q fetch.Query) (string, error) {
	if input != "" {
		return fetch.ReadInput(input, stdin)
	}
	return f.Fetch(ctx, q)
}

func pickDefs(defs []dictpage.Definition, idx []int) []dictpage.Definition {
	out := make([]dictpage.Definition, len(idx))
	for i, j := range idx {
		out[i] = defs[j]
	}
	return out
}

func reportLookupError(stderr io.Writer, subject string, err error) int {
	if errors.Is(err, dictpage.ErrNotFound) {
		fmt.Fprintf(stderr, "wordref: no entry found for %q\n", subject)
	} else {
		fmt.Fprintf(stderr, "wordref: %v\n", err)
	}
	return exitCode(err)
}

// exitCode maps an error to the command's exit code.
func exitCode(err error) int {
	switch dictpage.ErrorKind(err) {
	case dictpage.KindOK:
		return exitOK
	case dictpage.KindNotFound:
		return exitNotFound
	case dictpage.KindMalformed:
		return exitMalformed
	}
	if errors.Is(err, fetch.ErrEmptyWord) {
		return exitUsage
	}
	return exitRuntime
}
