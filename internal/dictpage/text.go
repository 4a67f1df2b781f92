package dictpage

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

var glyphs = strings.NewReplacer(
	"\u00a0", " ", // no-break space
	"\u200b", "",  // zero-width space
	"\u21d2", "",  // ⇒ conjugation link
	"\u2192", "->",
	"\u2190", "<-",
	"\u201c", `"`,
	"\u201d", `"`,
	"\u2018", "'",
	"\u2019", "'",
)

// cleanText replaces page glyphs with ASCII, NFC-normalizes and collapses
// whitespace.
func cleanText(s string) string {
	s = norm.NFC.String(glyphs.Replace(s))
	return strings.Join(strings.Fields(s), " ")
}

func stripParens(s string) string {
	return cleanText(strings.Map(func(r rune) rune {
		if r == '(' || r == ')' {
			return -1
		}
		return r
	}, s))
}

// selectionText is the cleaned text of every node in sel. A <br> element
// counts as a space.
func selectionText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}
	return cleanText(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	switch {
	case n.Type == html.TextNode:
		b.WriteString(n.Data)
		return
	case n.Type == html.ElementNode && n.DataAtom == atom.Br:
		b.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

// ownText reads only the direct text children of the first node in sel.
// Qualifier elements nest their tooltip in child elements, which this skips.
func ownText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	var b strings.Builder
	for c := sel.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return cleanText(b.String())
}

// textWithout is the text of sel after removing descendants matching skip.
func textWithout(sel *goquery.Selection, skip string) string {
	if skip == "" {
		return selectionText(sel)
	}
	c := sel.Clone()
	c.Find(skip).Remove()
	return selectionText(c)
}
