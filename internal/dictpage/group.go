package dictpage

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Marker is the parity class of a table row.
type Marker int

const (
	MarkerUnknown Marker = iota
	MarkerEven
	MarkerOdd
)

func (m Marker) String() string {
	switch m {
	case MarkerEven:
		return "even"
	case MarkerOdd:
		return "odd"
	default:
		return "unknown"
	}
}

// Row is one table row and its parity marker.
type Row struct {
	Marker Marker
	Node   *html.Node
}

// RowGroup is a run of rows believed to form one entry.
type RowGroup struct {
	Rows []Row
}

// Selection scopes goquery queries to the rows of g, which must belong to
// doc.
func (g RowGroup) Selection(doc *goquery.Document) *goquery.Selection {
	nodes := make([]*html.Node, 0, len(g.Rows))
	for _, r := range g.Rows {
		if r.Node != nil {
			nodes = append(nodes, r.Node)
		}
	}
	return doc.FindNodes(nodes...)
}

// HTML renders the rows of g back to markup, concatenated in order.
func (g RowGroup) HTML() (string, error) {
	var b strings.Builder
	for _, r := range g.Rows {
		if r.Node == nil {
			continue
		}
		if err := html.Render(&b, r.Node); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// markerOf reads the parity marker from the class tokens of n. A row that
// carries both tokens or neither is MarkerUnknown.
func markerOf(n *html.Node, even, odd string) Marker {
	var isEven, isOdd bool
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, tok := range strings.Fields(a.Val) {
			switch tok {
			case even:
				isEven = true
			case odd:
				isOdd = true
			}
		}
	}
	switch {
	case isEven && !isOdd:
		return MarkerEven
	case isOdd && !isEven:
		return MarkerOdd
	default:
		return MarkerUnknown
	}
}

// grouping is the state carried through the fold over a table's rows.
type grouping struct {
	last Marker
	open []Row
	done []RowGroup
}

// step adds r to the state. A known marker that differs from the last known
// marker closes the open group first; an unknown marker never does.
func (s grouping) step(r Row) grouping {
	if r.Marker != MarkerUnknown {
		if s.last != MarkerUnknown && r.Marker != s.last {
			s = s.flush()
		}
		s.last = r.Marker
	}
	s.open = append(s.open, r)
	return s
}

func (s grouping) flush() grouping {
	if len(s.open) > 0 {
		s.done = append(s.done, RowGroup{Rows: s.open})
		s.open = nil
	}
	return s
}

// GroupRows partitions the rows of one table into entries. The first row sets
// the initial marker and the trailing group is always kept.
//
// A marker change is the only boundary signal the markup offers, so two
// adjacent entries that happen to share a class come back as one group.
func GroupRows(rows []Row) []RowGroup {
	var s grouping
	for _, r := range rows {
		s = s.step(r)
	}
	return s.flush().done
}

// GroupTables groups each table on its own and concatenates the results, so a
// table never continues the last entry of the one before it.
func GroupTables(tables [][]Row) []RowGroup {
	var out []RowGroup
	for _, rows := range tables {
		out = append(out, GroupRows(rows)...)
	}
	return out
}

// tableRows collects the entry rows of the first sel.MaxTables result tables.
// ok is false when the page has no result table.
func tableRows(doc *goquery.Document, sel Selectors) (tables [][]Row, ok bool) {
	found := doc.Find(sel.Table)
	if found.Length() == 0 {
		return nil, false
	}

	found.EachWithBreak(func(i int, t *goquery.Selection) bool {
		if i >= sel.MaxTables {
			return false
		}
		var rows []Row
		t.Find(sel.Row).Each(func(_ int, r *goquery.Selection) {
			n := r.Nodes[0]
			rows = append(rows, Row{Marker: markerOf(n, sel.EvenClass, sel.OddClass), Node: n})
		})
		tables = append(tables, rows)
		return true
	})
	return tables, true
}
