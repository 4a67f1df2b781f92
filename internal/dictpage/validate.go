package dictpage

import "github.com/PuerkitoBio/goquery"

// NoEntryFound reports whether the page says the dictionary has no entry for
// the queried word.
func NoEntryFound(doc *goquery.Document, sel Selectors) bool {
	return doc.Find(sel.NotFound).Length() > 0
}
