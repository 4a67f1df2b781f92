package dictpage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// FileResult is one element of the array written by StreamFromDir.
type FileResult struct {
	SourceFile  string       `json:"source_file"`
	Kind        string       `json:"kind"`
	Error       string       `json:"error,omitempty"`
	Definitions []Definition `json:"definitions"`
}

// StreamFromDir parses every saved page in dir and streams a single JSON array
// to w, one object per file.
//
//   - files are visited in filename order
//   - subdirectories are skipped
//   - a page that fails to parse still gets an object, with kind and error set
//   - an unreadable file aborts the stream
//   - invalid selectors fail before anything is written
func StreamFromDir(w io.Writer, dir string, sel Selectors) error {
	if err := sel.Validate(); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	if _, err := io.WriteString(w, "["); err != nil {
		return fmt.Errorf("write [: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	first := true
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("read %s: %w", e.Name(), err)
		}

		res := FileResult{SourceFile: e.Name(), Definitions: []Definition{}}
		resp, err := ParseWith(string(b), sel)
		res.Kind = ErrorKind(err)
		if err != nil {
			res.Error = err.Error()
		} else {
			res.Definitions = resp.Definitions
		}

		if !first {
			if _, err := io.WriteString(w, ","); err != nil {
				return fmt.Errorf("write comma: %w", err)
			}
		}
		first = false
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode %s: %w", e.Name(), err)
		}
	}

	if _, err := io.WriteString(w, "]"); err != nil {
		return fmt.Errorf("write ]: %w", err)
	}
	return nil
}
