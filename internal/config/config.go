// Package config loads wordref settings from an optional YAML file and the
// environment.
package config

import (
	"time"
)

// Config is the root configuration.
type Config struct {
	Lookup  LookupConfig  `yaml:"lookup"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LookupConfig holds the default language pair and selector overrides.
type LookupConfig struct {
	From          string `yaml:"from"           env:"WORDREF_FROM"           env-default:"es"`
	To            string `yaml:"to"             env:"WORDREF_TO"             env-default:"en"`
	SelectorsFile string `yaml:"selectors_file" env:"WORDREF_SELECTORS_FILE"`
}

// FetchConfig controls how pages are retrieved.
type FetchConfig struct {
	Mode        string        `yaml:"mode"         env:"WORDREF_FETCH_MODE"    env-default:"http"`
	BaseURL     string        `yaml:"base_url"     env:"WORDREF_BASE_URL"      env-default:"https://www.wordreference.com"`
	UserAgent   string        `yaml:"user_agent"   env:"WORDREF_USER_AGENT"`
	Timeout     time.Duration `yaml:"timeout"      env:"WORDREF_TIMEOUT"       env-default:"15s"`
	MaxAttempts int           `yaml:"max_attempts" env:"WORDREF_MAX_ATTEMPTS"  env-default:"3"`
	BaseBackoff time.Duration `yaml:"base_backoff" env:"WORDREF_BASE_BACKOFF"  env-default:"500ms"`
	MaxBackoff  time.Duration `yaml:"max_backoff"  env:"WORDREF_MAX_BACKOFF"   env-default:"8s"`
	ChromeBin   string        `yaml:"chrome_bin"   env:"WORDREF_CHROME_BIN"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"WORDREF_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"WORDREF_LOG_FORMAT" env-default:"text"`
}

// MetricsConfig selects the metrics backend.
type MetricsConfig struct {
	Backend    string        `yaml:"backend"     env:"WORDREF_METRICS_BACKEND" env-default:"none"`
	JobName    string        `yaml:"job_name"    env:"WORDREF_METRICS_JOB"     env-default:"wordref"`
	Tags       string        `yaml:"tags"        env:"WORDREF_METRICS_TAGS"`
	FlushEvery time.Duration `yaml:"flush_every" env:"WORDREF_METRICS_FLUSH"   env-default:"1m"`
}

// Fetch modes.
const (
	ModeHTTP    = "http"
	ModeBrowser = "browser"
)

// Metrics backends.
const (
	BackendNone    = "none"
	BackendDatadog = "datadog"
)
