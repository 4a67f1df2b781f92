package dictpage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a page on which the dictionary has no entry for the
	// queried word.
	ErrNotFound = errors.New("dictpage: no entry found")

	// ErrMalformedPage reports a page whose result tables are absent or whose
	// entries lack a mandatory field.
	ErrMalformedPage = errors.New("dictpage: malformed page")
)

// ExtractError is returned when an entry has no value for a mandatory field.
// It matches ErrMalformedPage under errors.Is.
type ExtractError struct {
	// Entry is the zero-based index of the row group in page order.
	Entry int
	// Field names the missing field, e.g. "from.word".
	Field string
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("dictpage: entry %d: missing %s", e.Entry+1, e.Field)
}

func (e *ExtractError) Unwrap() error { return ErrMalformedPage }

// Outcome labels used in logs, metrics and directory output.
const (
	KindOK        = "ok"
	KindNotFound  = "not_found"
	KindMalformed = "malformed_page"
	KindError     = "error"
)

// ErrorKind classifies err into one of the Kind constants.
// A nil error is KindOK.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrMalformedPage):
		return KindMalformed
	default:
		return KindError
	}
}
