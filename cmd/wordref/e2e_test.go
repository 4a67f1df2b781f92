//go:build e2e

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"wordref/internal/dictpage"
)

// TestE2E_LiveLookup queries the live dictionary for a word with several
// senses and for one with none.
//
// Run:
//
//	E2E=1 go test -tags=e2e ./cmd/wordref -run TestE2E -v
//
// Optional:
//
//	E2E_WORD=casa   (default delantal)
func TestE2E_LiveLookup(t *testing.T) {
	if os.Getenv("E2E") != "1" {
		t.Skip("set E2E=1 to run")
	}

	word := os.Getenv("E2E_WORD")
	if word == "" {
		word = "delantal"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	client := &http.Client{Timeout: 30 * time.Second}

	var stdout, stderr strings.Builder
	code := run(ctx, []string{"-format", "json", word}, strings.NewReader(""), &stdout, &stderr, deps{HTTPClient: client})
	if code != exitOK {
		t.Fatalf("run returned %d; stderr=%s", code, stderr.String())
	}

	var resp dictpage.Response
	if err := json.Unmarshal([]byte(stdout.String()), &resp); err != nil {
		t.Fatalf("stdout is not valid json: %v; out=%s", err, stdout.String())
	}
	if len(resp.Definitions) == 0 {
		t.Fatalf("no definitions for %q", word)
	}
	for i, d := range resp.Definitions {
		if d.From.Word == "" || d.To.Word == "" {
			t.Errorf("definition %d has an empty word: %+v", i+1, d)
		}
	}
	t.Logf("%q: %d definitions", word, len(resp.Definitions))

	stdout.Reset()
	stderr.Reset()
	code = run(ctx, []string{"zzqxwvnotaword"}, strings.NewReader(""), &stdout, &stderr, deps{HTTPClient: client})
	if code != exitNotFound {
		t.Fatalf("nonsense word: run returned %d, want %d; stderr=%s", code, exitNotFound, stderr.String())
	}
}
