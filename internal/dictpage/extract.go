package dictpage

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// entryFields holds what was read from one row group before mandatory fields
// are enforced.
type entryFields struct {
	fromWord      Field
	fromQualifier Field
	definition    Field
	toWords       []string
	toQualifier   Field
	fromExamples  []string
	toExamples    []string
}

func readEntry(root *goquery.Selection, sel Selectors) entryFields {
	f := entryFields{
		fromWord:     firstText(root.Find(sel.FromWord)),
		fromExamples: allText(root, sel.FromExample),
		toExamples:   allText(root, sel.ToExample),
	}

	if sel.FromQualifier != "" {
		if q := root.Find(sel.FromQualifier).First(); q.Length() > 0 {
			f.fromQualifier = Found(ownText(q))
		}
	}

	if cell := root.Find(sel.Cell).Eq(1); cell.Length() > 0 {
		f.definition = Found(stripParens(selectionText(cell)))
	}

	if sel.ToWord != "" {
		root.Find(sel.ToWord).Each(func(i int, cell *goquery.Selection) {
			if i == 0 && sel.ToQualifier != "" {
				if q := cell.Find(sel.ToQualifier).First(); q.Length() > 0 {
					f.toQualifier = Found(ownText(q))
				}
			}
			if w := textWithout(cell, sel.ToQualifier); w != "" {
				f.toWords = append(f.toWords, w)
			}
		})
	}
	return f
}

// extractDefinition builds the Definition for the entry at index i.
func extractDefinition(doc *goquery.Document, i int, g RowGroup, sel Selectors) (Definition, error) {
	f := readEntry(g.Selection(doc), sel)

	if !f.fromWord.Present || f.fromWord.Value == "" {
		return Definition{}, &ExtractError{Entry: i, Field: "from.word"}
	}
	if !f.definition.Present {
		return Definition{}, &ExtractError{Entry: i, Field: "from.definition"}
	}

	to := strings.Join(f.toWords, ", ")
	return Definition{
		From: LanguageDefinition{
			Word:         f.fromWord.Value,
			PartOfSpeech: f.fromQualifier.Or(""),
			Definition:   f.definition.Value,
			Examples:     f.fromExamples,
		},
		To: LanguageDefinition{
			Word:         to,
			PartOfSpeech: f.toQualifier.Or(""),
			Definition:   to,
			Examples:     f.toExamples,
		},
	}, nil
}

func firstText(sel *goquery.Selection) Field {
	if sel.Length() == 0 {
		return Missing()
	}
	return Found(selectionText(sel.First()))
}

// allText returns the non-empty text of every match, never nil.
func allText(root *goquery.Selection, selector string) []string {
	out := []string{}
	if selector == "" {
		return out
	}
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := selectionText(s); t != "" {
			out = append(out, t)
		}
	})
	return out
}
