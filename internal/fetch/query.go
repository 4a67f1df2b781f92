// Package fetch retrieves raw dictionary result pages.
//
// A Fetcher turns a Query into page markup. HTTPFetcher talks to the site
// directly with retries; BrowserFetcher drives a headless Chrome for pages
// that need scripts to run. Neither interprets the markup.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Defaults used when a Query leaves a field empty.
const (
	DefaultFrom    = "es"
	DefaultTo      = "en"
	DefaultBaseURL = "https://www.wordreference.com"
)

// ErrEmptyWord is returned for a query whose word is blank.
var ErrEmptyWord = errors.New("fetch: empty word")

// Query selects one dictionary page.
type Query struct {
	Word string
	From string
	To   string
}

// Fetcher returns the raw markup of the page for q.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (string, error)
}

// Normalize trims the word, fills in the default language pair and reduces
// each language to its lower-case base code ("en-GB" becomes "en").
func (q Query) Normalize() (Query, error) {
	q.Word = strings.TrimSpace(q.Word)
	if q.Word == "" {
		return Query{}, ErrEmptyWord
	}

	from, err := baseLanguage(q.From, DefaultFrom)
	if err != nil {
		return Query{}, fmt.Errorf("fetch: from language: %w", err)
	}
	to, err := baseLanguage(q.To, DefaultTo)
	if err != nil {
		return Query{}, fmt.Errorf("fetch: to language: %w", err)
	}
	if from == to {
		return Query{}, fmt.Errorf("fetch: from and to are both %q", from)
	}

	q.From, q.To = from, to
	return q, nil
}

func baseLanguage(code, def string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return def, nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", err
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", fmt.Errorf("unknown language %q", code)
	}
	return base.String(), nil
}

// BuildURL returns the translation page URL for a normalized query.
func BuildURL(baseURL string, q Query) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(q.From) + "/" + url.PathEscape(q.To) +
		"/translation.asp?spen=" + url.QueryEscape(q.Word)
}
