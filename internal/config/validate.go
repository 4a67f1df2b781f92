package config

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Lookup.validate(); err != nil {
		return fmt.Errorf("lookup: %w", err)
	}
	if err := c.Fetch.validate(); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Metrics.validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}

func (l *LookupConfig) validate() error {
	for _, code := range []struct{ name, value string }{{"from", l.From}, {"to", l.To}} {
		if _, err := language.Parse(code.value); err != nil {
			return fmt.Errorf("%s must be a language code (got %q): %w", code.name, code.value, err)
		}
	}
	return nil
}

func (f *FetchConfig) validate() error {
	f.Mode = strings.ToLower(strings.TrimSpace(f.Mode))
	if f.Mode != ModeHTTP && f.Mode != ModeBrowser {
		return fmt.Errorf("mode must be %q or %q (got %q)", ModeHTTP, ModeBrowser, f.Mode)
	}
	u, err := url.Parse(f.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL (got %q)", f.BaseURL)
	}
	if f.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", f.Timeout)
	}
	if f.MaxAttempts <= 0 {
		return fmt.Errorf("max_attempts must be > 0 (got %d)", f.MaxAttempts)
	}
	if f.BaseBackoff < 0 || f.MaxBackoff < f.BaseBackoff {
		return fmt.Errorf("backoff must satisfy 0 <= base_backoff <= max_backoff (got %v, %v)", f.BaseBackoff, f.MaxBackoff)
	}
	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error (got %q)", l.Level)
	}
	switch strings.ToLower(strings.TrimSpace(l.Format)) {
	case "text", "json":
	default:
		return fmt.Errorf("format must be text or json (got %q)", l.Format)
	}
	return nil
}

func (m *MetricsConfig) validate() error {
	m.Backend = strings.ToLower(strings.TrimSpace(m.Backend))
	if m.Backend != BackendNone && m.Backend != BackendDatadog {
		return fmt.Errorf("backend must be %q or %q (got %q)", BackendNone, BackendDatadog, m.Backend)
	}
	if m.Backend == BackendDatadog && m.FlushEvery <= 0 {
		return fmt.Errorf("flush_every must be > 0 (got %v)", m.FlushEvery)
	}
	return nil
}
