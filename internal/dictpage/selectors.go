package dictpage

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/andybalholm/cascadia"
)

// Selectors locates the parts of a result page. Field selectors are evaluated
// relative to the rows of a single entry.
type Selectors struct {
	Table     string `json:"table"`      // result tables, in page order
	Row       string `json:"row"`        // entry rows inside a table
	EvenClass string `json:"even_class"` // class token of "even" rows
	OddClass  string `json:"odd_class"`  // class token of "odd" rows
	MaxTables int    `json:"max_tables"` // only the first MaxTables tables are read

	NotFound string `json:"not_found"` // present only when the word has no entry

	FromWord      string `json:"from_word"`
	FromQualifier string `json:"from_qualifier"`
	Cell          string `json:"cell"` // the second matching cell holds the definition
	ToWord        string `json:"to_word"`
	ToQualifier   string `json:"to_qualifier"` // relative to each ToWord cell
	FromExample   string `json:"from_example"`
	ToExample     string `json:"to_example"`
}

// DefaultSelectors matches the markup of the WordReference translation pages.
func DefaultSelectors() Selectors {
	return Selectors{
		Table:     "table.WRD",
		Row:       "tr.even, tr.odd",
		EvenClass: "even",
		OddClass:  "odd",
		MaxTables: 2,

		NotFound: "p#noEntryFound",

		FromWord:      "strong",
		FromQualifier: "td.FrWrd em",
		Cell:          "td",
		ToWord:        "td.ToWrd",
		ToQualifier:   "em",
		FromExample:   "td.FrEx > span",
		ToExample:     "td.ToEx > span",
	}
}

// LoadSelectorFile reads selector overrides from a JSON file. Keys absent from
// the file keep their DefaultSelectors value.
func LoadSelectorFile(path string) (Selectors, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Selectors{}, fmt.Errorf("read selectors file: %w", err)
	}

	sel := DefaultSelectors()
	if err := json.Unmarshal(b, &sel); err != nil {
		return Selectors{}, fmt.Errorf("parse selectors json: %w", err)
	}
	if err := sel.Validate(); err != nil {
		return Selectors{}, err
	}
	return sel, nil
}

// Validate checks that required selectors are set and that every selector
// compiles.
func (s Selectors) Validate() error {
	required := []struct{ name, value string }{
		{"table", s.Table},
		{"row", s.Row},
		{"not_found", s.NotFound},
		{"from_word", s.FromWord},
		{"cell", s.Cell},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("selectors: %s must not be empty", r.name)
		}
	}
	if s.MaxTables <= 0 {
		return fmt.Errorf("selectors: max_tables must be > 0 (got %d)", s.MaxTables)
	}
	if s.EvenClass == "" || s.OddClass == "" || s.EvenClass == s.OddClass {
		return fmt.Errorf("selectors: even_class and odd_class must be distinct and non-empty")
	}

	all := map[string]string{
		"table":          s.Table,
		"row":            s.Row,
		"not_found":      s.NotFound,
		"from_word":      s.FromWord,
		"from_qualifier": s.FromQualifier,
		"cell":           s.Cell,
		"to_word":        s.ToWord,
		"to_qualifier":   s.ToQualifier,
		"from_example":   s.FromExample,
		"to_example":     s.ToExample,
	}
	for name, v := range all {
		if v == "" {
			continue
		}
		if _, err := cascadia.Compile(v); err != nil {
			return fmt.Errorf("selectors: invalid %s %q: %w", name, v, err)
		}
	}
	return nil
}
