package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"wordref/internal/dictpage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDefs() []dictpage.Definition {
	return []dictpage.Definition{
		{
			From: dictpage.LanguageDefinition{Word: "delantal", PartOfSpeech: "nm", Definition: "prenda protectora", Examples: []string{"Ponte el delantal."}},
			To:   dictpage.LanguageDefinition{Word: "apron, bib", PartOfSpeech: "n", Definition: "apron, bib", Examples: []string{"Put on an apron."}},
		},
		{
			From: dictpage.LanguageDefinition{Word: "delantal", PartOfSpeech: "nm", Definition: "vestido sin mangas", Examples: []string{}},
			To:   dictpage.LanguageDefinition{Word: "pinafore", PartOfSpeech: "n", Definition: "pinafore", Examples: []string{}},
		},
		{
			From: dictpage.LanguageDefinition{Word: "delantal", Examples: []string{}},
			To:   dictpage.LanguageDefinition{Examples: []string{}},
		},
	}
}

func TestTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sampleDefs()[:2]))

	want := strings.Join([]string{
		"FROM      POS  MEANING             TO          POS",
		"delantal  nm   prenda protectora   apron, bib  n",
		"  Ponte el delantal.",
		"  = Put on an apron.",
		"delantal  nm   vestido sin mangas  pinafore    n",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

// TestTable_EmptyFields prints a dash for empty cells so columns stay
// readable.
func TestTable_EmptyFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sampleDefs()[2:]))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"delantal", "-", "-", "-", "-"}, strings.Fields(lines[1]))
}

func TestJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, &dictpage.Response{Definitions: sampleDefs()[1:2]}))

	assert.Contains(t, buf.String(), "\n  \"definitions\": [")
	var got dictpage.Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleDefs()[1:2], got.Definitions)
}

func TestParseSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		n       int
		want    []int
		wantErr string
	}{
		{in: "", n: 3, want: []int{0, 1, 2}},
		{in: " ALL ", n: 2, want: []int{0, 1}},
		{in: "1,3", n: 3, want: []int{0, 2}},
		{in: " 3 , 1 ", n: 3, want: []int{2, 0}},
		{in: "2-4", n: 5, want: []int{1, 2, 3}},
		{in: "1,1,2-3,2", n: 3, want: []int{0, 1, 2}},
		{in: "0", n: 3, wantErr: "outside 1-3"},
		{in: "4", n: 3, wantErr: "outside 1-3"},
		{in: "3-2", n: 3, wantErr: "outside"},
		{in: "x", n: 3, wantErr: "not a number"},
		{in: "1,,2", n: 3, wantErr: "not a number"},
		{in: "1-y", n: 3, wantErr: "not a range"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSelection(tc.in, tc.n)
			if tc.wantErr != "" {
				require.ErrorIs(t, err, ErrInvalidSelection)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestChoose(t *testing.T) {
	t.Parallel()

	defs := sampleDefs()

	t.Run("picks listed entries", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		got, err := Choose(strings.NewReader("3,1\n"), &out, defs)
		require.NoError(t, err)
		assert.Equal(t, []dictpage.Definition{defs[2], defs[0]}, got)
		assert.Contains(t, out.String(), "1) delantal [nm]: prenda protectora -> apron, bib\n")
		assert.Contains(t, out.String(), "3) delantal\n")
	})

	t.Run("re-prompts after bad input", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		got, err := Choose(strings.NewReader("nine\n2\n"), &out, defs)
		require.NoError(t, err)
		assert.Equal(t, []dictpage.Definition{defs[1]}, got)
		assert.Equal(t, 2, strings.Count(out.String(), "Select entries"))
		assert.Contains(t, out.String(), "not a number")
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		_, err := Choose(strings.NewReader("a\nb\nc\n1\n"), &out, defs)
		require.ErrorIs(t, err, ErrInvalidSelection)
		assert.Equal(t, MaxPromptAttempts, strings.Count(out.String(), "Select entries"))
	})

	t.Run("end of input selects all", func(t *testing.T) {
		t.Parallel()
		got, err := Choose(strings.NewReader(""), &bytes.Buffer{}, defs)
		require.NoError(t, err)
		assert.Equal(t, defs, got)
	})

	t.Run("single entry skips menu", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		got, err := Choose(strings.NewReader(""), &out, defs[:1])
		require.NoError(t, err)
		assert.Equal(t, defs[:1], got)
		assert.Empty(t, out.String())
	})
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestChoose_ReadError(t *testing.T) {
	t.Parallel()

	_, err := Choose(errReader{}, &bytes.Buffer{}, sampleDefs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty gone")
}
