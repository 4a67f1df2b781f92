package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"wordref/internal/dictpage"
)

// ErrInvalidSelection is returned when the menu input cannot be parsed.
var ErrInvalidSelection = errors.New("invalid selection")

// MaxPromptAttempts bounds how often Choose re-prompts after bad input.
const MaxPromptAttempts = 3

// ParseSelection parses menu input against n entries and returns zero-based
// indexes in the order given. "all" or blank selects everything. Otherwise
// the input is a comma-separated list of 1-based numbers or ranges like
// "2-4"; repeats are dropped.
func ParseSelection(input string, n int) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "all") {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	seen := make(map[int]bool)
	var out []int
	add := func(i int) {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		lo, hi, err := parseRange(part)
		if err != nil {
			return nil, err
		}
		if lo < 1 || hi > n || lo > hi {
			return nil, fmt.Errorf("%w: %q is outside 1-%d", ErrInvalidSelection, part, n)
		}
		for i := lo; i <= hi; i++ {
			add(i - 1)
		}
	}
	return out, nil
}

func parseRange(part string) (lo, hi int, err error) {
	a, b, isRange := strings.Cut(part, "-")
	lo, err = strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, part)
	}
	if !isRange {
		return lo, lo, nil
	}
	hi, err = strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q is not a range", ErrInvalidSelection, part)
	}
	return lo, hi, nil
}

// Choose lists defs on out and reads the user's choice from in. With fewer
// than two entries there is nothing to choose and defs is returned as is.
// End of input selects everything. After MaxPromptAttempts bad answers the
// last parse error is returned.
func Choose(in io.Reader, out io.Writer, defs []dictpage.Definition) ([]dictpage.Definition, error) {
	if len(defs) < 2 {
		return defs, nil
	}

	for i, d := range defs {
		fmt.Fprintf(out, "%d) %s\n", i+1, menuLine(d))
	}

	sc := bufio.NewScanner(in)
	var lastErr error
	for attempt := 0; attempt < MaxPromptAttempts; attempt++ {
		fmt.Fprintf(out, "Select entries (e.g. 1,3 or 2-4; empty for all): ")
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, fmt.Errorf("read selection: %w", err)
			}
			fmt.Fprintln(out)
			return defs, nil
		}

		idx, err := ParseSelection(sc.Text(), len(defs))
		if err != nil {
			lastErr = err
			fmt.Fprintf(out, "%v\n", err)
			continue
		}
		chosen := make([]dictpage.Definition, len(idx))
		for i, j := range idx {
			chosen[i] = defs[j]
		}
		return chosen, nil
	}
	return nil, lastErr
}

func menuLine(d dictpage.Definition) string {
	var b strings.Builder
	b.WriteString(d.From.Word)
	if d.From.PartOfSpeech != "" {
		b.WriteString(" [" + d.From.PartOfSpeech + "]")
	}
	if d.From.Definition != "" {
		b.WriteString(": " + d.From.Definition)
	}
	if d.To.Word != "" {
		b.WriteString(" -> " + d.To.Word)
	}
	return b.String()
}
