// Package dictpage turns a bilingual dictionary result page into typed entries.
//
// A result page carries up to two translation tables. Each table row is tagged
// with an alternating "even"/"odd" class, and a run of rows sharing the same
// class makes up one entry. Parse validates the page, groups the rows into
// entries and extracts the word, qualifier, definition and examples for both
// languages of every entry.
package dictpage

// LanguageDefinition is one language's side of a dictionary sense.
type LanguageDefinition struct {
	Word         string   `json:"word"`
	PartOfSpeech string   `json:"part_of_speech"`
	Definition   string   `json:"definition"`
	Examples     []string `json:"examples"`
}

// Definition is a single sense, directed from the queried language to the
// target language.
type Definition struct {
	From LanguageDefinition `json:"from"`
	To   LanguageDefinition `json:"to"`
}

// Response holds every sense found on a page, in page order.
type Response struct {
	Definitions []Definition `json:"definitions"`
}

// Field is an extracted text value that remembers whether the element it was
// read from existed at all.
type Field struct {
	Value   string
	Present bool
}

// Found returns a present field.
func Found(v string) Field { return Field{Value: v, Present: true} }

// Missing returns an absent field.
func Missing() Field { return Field{} }

// Or returns the value when present and def otherwise.
func (f Field) Or(def string) string {
	if f.Present {
		return f.Value
	}
	return def
}

// assemble wraps extracted definitions without filtering or reordering them.
func assemble(defs []Definition) *Response {
	return &Response{Definitions: defs}
}
