package validators

import (
	"net/http"
	"strings"
	"unicode/utf8"
)

const maxQueryLength = 120

// QueryString returns the sanitized value of a query parameter.
func QueryString(r *http.Request, key string) string {
	return SanitizeString(r.URL.Query().Get(key), maxQueryLength)
}

// SanitizeString collapses runs of whitespace and truncates to maxLen bytes
// without splitting a multi-byte character.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Join(strings.Fields(input), " ")
	if maxLen <= 0 || len(cleaned) <= maxLen {
		return cleaned
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
		cut--
	}
	return strings.TrimSpace(cleaned[:cut])
}
