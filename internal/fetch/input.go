package fetch

import (
	"fmt"
	"io"
	"os"
)

// ReadInput reads a saved page from path, or from stdin when path is "-".
func ReadInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		if stdin == nil {
			return "", nil
		}
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}
