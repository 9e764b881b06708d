package llm

import (
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jonathan/jobtrack/internal/logging"
)

// MaxDetailLength bounds failure details taken from raw provider bodies.
const MaxDetailLength = 600

// errorPaths are tried in order against a JSON error body.
var errorPaths = []string{"error.message", "error", "message"}

// ErrorDetail extracts a human-readable message from a provider error body.
// JSON bodies yield their error message field; anything else is returned as
// trimmed text bounded to MaxDetailLength runes.
func ErrorDetail(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		for _, path := range errorPaths {
			r := gjson.GetBytes(body, path)
			if r.Type == gjson.String && strings.TrimSpace(r.Str) != "" {
				return logging.Truncate(strings.TrimSpace(r.Str), MaxDetailLength)
			}
		}
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		if msg := http.StatusText(status); msg != "" {
			return msg
		}
		return "empty response body"
	}
	return logging.Truncate(text, MaxDetailLength)
}
