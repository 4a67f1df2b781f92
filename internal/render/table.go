// Package render writes lookup results to the console and runs the entry
// menu used to choose between senses.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"wordref/internal/dictpage"
)

// Table writes defs as aligned columns FROM, POS, MEANING, TO, POS. Each row
// is followed by its examples: source-language lines indented, target-language
// lines indented and prefixed with "= ".
func Table(w io.Writer, defs []dictpage.Definition) error {
	var rows bytes.Buffer
	tw := tabwriter.NewWriter(&rows, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FROM\tPOS\tMEANING\tTO\tPOS")
	for _, d := range defs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			cell(d.From.Word), cell(d.From.PartOfSpeech), cell(d.From.Definition),
			cell(d.To.Word), cell(d.To.PartOfSpeech))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	// Examples sit between rows; they are spliced in after alignment so long
	// sentences don't widen the columns.
	lines := strings.Split(strings.TrimSuffix(rows.String(), "\n"), "\n")
	var out strings.Builder
	out.WriteString(strings.TrimRight(lines[0], " ") + "\n")
	for i, d := range defs {
		out.WriteString(strings.TrimRight(lines[i+1], " ") + "\n")
		for _, ex := range d.From.Examples {
			out.WriteString("  " + ex + "\n")
		}
		for _, ex := range d.To.Examples {
			out.WriteString("  = " + ex + "\n")
		}
	}
	_, err := io.WriteString(w, out.String())
	return err
}

// cell keeps tabs and newlines in page text from breaking the layout.
func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.NewReplacer("\t", " ", "\n", " ").Replace(s)
}

// JSON writes resp as indented JSON without HTML escaping.
func JSON(w io.Writer, resp *dictpage.Response) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
