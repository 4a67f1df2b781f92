package dictpage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

// TestParse_Fixture covers the full pipeline on a saved result page with two
// senses in the main table, one in the additional table and a third table
// that must be ignored.
func TestParse_Fixture(t *testing.T) {
	t.Parallel()

	resp, err := Parse(readFixture(t, "delantal.html"))
	require.NoError(t, err)
	require.Len(t, resp.Definitions, 3)

	want := []Definition{
		{
			From: LanguageDefinition{
				Word:         "delantal",
				PartOfSpeech: "nm",
				Definition:   "prenda protectora",
				Examples:     []string{"Ponte el delantal para cocinar."},
			},
			To: LanguageDefinition{
				Word:         "apron, bib",
				PartOfSpeech: "n",
				Definition:   "apron, bib",
				Examples:     []string{"Put on an apron to cook."},
			},
		},
		{
			From: LanguageDefinition{
				Word:         "delantal",
				PartOfSpeech: "nm",
				Definition:   "vestido sin mangas",
				Examples:     []string{},
			},
			To: LanguageDefinition{
				Word:         "pinafore",
				PartOfSpeech: "n",
				Definition:   "pinafore",
				Examples:     []string{},
			},
		},
		{
			From: LanguageDefinition{
				Word:         "delantal",
				PartOfSpeech: "nm",
				Definition:   "Arquitectura: muro",
				Examples:     []string{},
			},
			To: LanguageDefinition{
				Word:         "front wall",
				PartOfSpeech: "n",
				Definition:   "front wall",
				Examples:     []string{`The "front wall" faces the street.`},
			},
		},
	}
	assert.Equal(t, want, resp.Definitions)
}

// TestParse_Idempotent checks that parsing the same page twice gives equal
// responses.
func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	page := readFixture(t, "delantal.html")
	a, err := Parse(page)
	require.NoError(t, err)
	b, err := Parse(page)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestParse_NotFound verifies the no-entry marker wins even when a result
// table is also present.
func TestParse_NotFound(t *testing.T) {
	t.Parallel()

	resp, err := Parse(readFixture(t, "notfound.html"))
	require.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, resp)
	assert.Equal(t, KindNotFound, ErrorKind(err))
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		page  string
		field string
	}{
		{
			name: "no table",
			page: `<html><body><p>maintenance</p></body></html>`,
		},
		{
			name: "table without entry rows",
			page: `<table class="WRD"><tr class="langHeader"><td>Spanish</td></tr></table>`,
		},
		{
			name:  "missing source word",
			page:  `<table class="WRD"><tr class="even"><td class="FrWrd">delantal</td><td>(x)</td></tr></table>`,
			field: "from.word",
		},
		{
			name:  "empty source word",
			page:  `<table class="WRD"><tr class="even"><td><strong>  </strong></td><td>x</td></tr></table>`,
			field: "from.word",
		},
		{
			name:  "missing definition cell",
			page:  `<table class="WRD"><tr class="even"><td><strong>delantal</strong></td></tr></table>`,
			field: "from.definition",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			resp, err := Parse(tc.page)
			require.ErrorIs(t, err, ErrMalformedPage)
			assert.Nil(t, resp)
			assert.Equal(t, KindMalformed, ErrorKind(err))

			var ee *ExtractError
			if tc.field == "" {
				assert.False(t, errors.As(err, &ee))
				return
			}
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, tc.field, ee.Field)
			assert.Equal(t, 0, ee.Entry)
		})
	}
}

// TestParse_AllOrNothing verifies a bad entry after good ones fails the whole
// page instead of returning the good entries.
func TestParse_AllOrNothing(t *testing.T) {
	t.Parallel()

	page := `<table class="WRD">
<tr class="even"><td><strong>uno</strong></td><td>one</td></tr>
<tr class="odd"><td>no word here</td><td>two</td></tr>
</table>`

	resp, err := Parse(page)
	assert.Nil(t, resp)

	var ee *ExtractError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 1, ee.Entry)
	assert.EqualError(t, err, "dictpage: entry 2: missing from.word")
}

// TestParse_SecondaryTableOnly covers a word that only appears in the
// additional translations table.
func TestParse_SecondaryTableOnly(t *testing.T) {
	t.Parallel()

	page := `<table class="WRD"><tr class="wrtopsection"><td>Principal Translations</td></tr></table>
<table class="WRD">
<tr class="even"><td><strong>cerro</strong></td><td>(colina)</td><td class="ToWrd">hill</td></tr>
<tr class="odd"><td><strong>cerro</strong></td><td>(lomo)</td><td class="ToWrd">back</td></tr>
</table>`

	resp, err := Parse(page)
	require.NoError(t, err)
	require.Len(t, resp.Definitions, 2)
	assert.Equal(t, "colina", resp.Definitions[0].From.Definition)
	assert.Equal(t, "hill", resp.Definitions[0].To.Word)
	assert.Equal(t, "lomo", resp.Definitions[1].From.Definition)
	assert.Equal(t, "back", resp.Definitions[1].To.Word)
}

// TestParse_OptionalFieldsDefault checks that absent qualifiers, target words
// and examples come back empty rather than failing.
func TestParse_OptionalFieldsDefault(t *testing.T) {
	t.Parallel()

	page := `<table class="WRD"><tr class="even"><td><strong>solo</strong></td><td></td></tr></table>`

	resp, err := Parse(page)
	require.NoError(t, err)
	require.Len(t, resp.Definitions, 1)

	d := resp.Definitions[0]
	assert.Equal(t, "solo", d.From.Word)
	assert.Empty(t, d.From.PartOfSpeech)
	assert.Empty(t, d.From.Definition)
	assert.NotNil(t, d.From.Examples)
	assert.Empty(t, d.From.Examples)
	assert.Empty(t, d.To.Word)
	assert.Empty(t, d.To.PartOfSpeech)
	assert.Empty(t, d.To.Definition)
	assert.NotNil(t, d.To.Examples)
	assert.Empty(t, d.To.Examples)
}

// TestParseWith_CustomSelectors runs the pipeline with a different markup
// vocabulary.
func TestParseWith_CustomSelectors(t *testing.T) {
	t.Parallel()

	sel := DefaultSelectors()
	sel.Table = "table.results"
	sel.Row = "tr.a, tr.b"
	sel.EvenClass = "a"
	sel.OddClass = "b"
	sel.FromWord = "b.head"
	require.NoError(t, sel.Validate())

	page := `<table class="results">
<tr class="a"><td><b class="head">gato</b></td><td>felino</td><td class="ToWrd">cat</td></tr>
<tr class="a"><td></td><td class="FrEx"><span>El gato duerme.</span></td></tr>
<tr class="b"><td><b class="head">gato</b></td><td>herramienta</td><td class="ToWrd">jack</td></tr>
</table>`

	resp, err := ParseWith(page, sel)
	require.NoError(t, err)
	require.Len(t, resp.Definitions, 2)
	assert.Equal(t, []string{"El gato duerme."}, resp.Definitions[0].From.Examples)
	assert.Equal(t, "jack", resp.Definitions[1].To.Word)
}

// TestParseWith_InvalidSelectors reports a bad selector set as such, not as
// a malformed page.
func TestParseWith_InvalidSelectors(t *testing.T) {
	t.Parallel()

	page := readFixture(t, "delantal.html")
	tests := []struct {
		name   string
		modify func(*Selectors)
		want   string
	}{
		{"zero max tables", func(s *Selectors) { s.MaxTables = 0 }, "max_tables"},
		{"empty table", func(s *Selectors) { s.Table = "" }, "table"},
		{"same classes", func(s *Selectors) { s.OddClass = s.EvenClass }, "even_class"},
		{"bad selector", func(s *Selectors) { s.ToWord = "td[" }, "to_word"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sel := DefaultSelectors()
			tc.modify(&sel)

			resp, err := ParseWith(page, sel)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.NotErrorIs(t, err, ErrMalformedPage)
			assert.Equal(t, KindError, ErrorKind(err))
			assert.Contains(t, err.Error(), tc.want)

			var buf bytes.Buffer
			require.Error(t, DebugGroups(&buf, page, sel))
			require.Error(t, StreamFromDir(&buf, t.TempDir(), sel))
			assert.Empty(t, buf.String())
		})
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindOK, ErrorKind(nil))
	assert.Equal(t, KindNotFound, ErrorKind(ErrNotFound))
	assert.Equal(t, KindMalformed, ErrorKind(&ExtractError{Field: "from.word"}))
	assert.Equal(t, KindError, ErrorKind(errors.New("boom")))
}
