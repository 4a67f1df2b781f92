package dictpage

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DebugPrintSelector writes every match of selector in page, one numbered
// block per match. With textOnly it writes the cleaned text instead of the
// outer HTML. It is used to work out selectors when the page markup changes.
func DebugPrintSelector(w io.Writer, page, selector string, textOnly bool) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	matches := doc.Find(selector)
	if _, err := fmt.Fprintf(w, "# %d match(es) for %q\n", matches.Length(), selector); err != nil {
		return err
	}

	var werr error
	matches.EachWithBreak(func(i int, s *goquery.Selection) bool {
		body := selectionText(s)
		if !textOnly {
			out, err := goquery.OuterHtml(s)
			if err != nil {
				out, _ = s.Html()
			}
			body = out
		}
		_, werr = fmt.Fprintf(w, "## %d\n%s\n\n", i+1, body)
		return werr == nil
	})
	return werr
}

// DebugGroups writes the row groups of page as they would be handed to field
// extraction, with the marker of every row.
func DebugGroups(w io.Writer, page string, sel Selectors) error {
	if err := sel.Validate(); err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}
	tables, ok := tableRows(doc, sel)
	if !ok {
		return fmt.Errorf("%w: no result table", ErrMalformedPage)
	}

	for i, g := range GroupTables(tables) {
		if _, err := fmt.Fprintf(w, "## group %d (%d rows)\n", i+1, len(g.Rows)); err != nil {
			return err
		}
		for _, r := range g.Rows {
			text := selectionText(doc.FindNodes(r.Node))
			if _, err := fmt.Fprintf(w, "%-7s %s\n", r.Marker, text); err != nil {
				return err
			}
		}
	}
	return nil
}
