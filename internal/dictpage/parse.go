package dictpage

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parse converts a result page into a Response using DefaultSelectors.
//
// It returns ErrNotFound when the page reports no entry, and an error matching
// ErrMalformedPage when the result tables are missing, hold no entry rows, or
// any entry lacks its source word or definition. A Response is never partial.
func Parse(page string) (*Response, error) {
	return ParseWith(page, DefaultSelectors())
}

// ParseWith is Parse with caller-provided selectors.
func ParseWith(page string, sel Selectors) (*Response, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", ErrMalformedPage, err)
	}
	return ParseDocument(doc, sel)
}

// ParseDocument runs validation, grouping and extraction on a parsed page.
// Invalid selectors are reported as they are, not as a page problem.
func ParseDocument(doc *goquery.Document, sel Selectors) (*Response, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if NoEntryFound(doc, sel) {
		return nil, ErrNotFound
	}

	tables, ok := tableRows(doc, sel)
	if !ok {
		return nil, fmt.Errorf("%w: no result table", ErrMalformedPage)
	}

	groups := GroupTables(tables)
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: result tables have no entry rows", ErrMalformedPage)
	}

	defs := make([]Definition, 0, len(groups))
	for i, g := range groups {
		d, err := extractDefinition(doc, i, g, sel)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return assemble(defs), nil
}
