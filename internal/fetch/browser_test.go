package fetch

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDocumentStatusError keeps error pages rendered by the browser apart from
// real result pages.
func TestDocumentStatusError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, documentStatusError(http.StatusOK, "<html></html>"))
	assert.NoError(t, documentStatusError(http.StatusNoContent, ""))

	tests := []struct {
		status int
		page   string
		body   string
	}{
		{http.StatusServiceUnavailable, "  <p>busy</p>\n", "<p>busy</p>"},
		{http.StatusNotFound, "", ""},
		{http.StatusTooManyRequests, strings.Repeat("a", errorBodyBytes+1), strings.Repeat("a", errorBodyBytes)},
		{http.StatusMovedPermanently, "<p>moved</p>", "<p>moved</p>"},
	}
	for _, tc := range tests {
		err := documentStatusError(tc.status, tc.page)
		var se *StatusError
		require.ErrorAs(t, err, &se, "status %d", tc.status)
		assert.Equal(t, tc.status, se.Code)
		assert.Equal(t, tc.body, se.Body)
	}
}
