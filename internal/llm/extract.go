package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSONObject is returned when the text holds no {...} span.
var ErrNoJSONObject = errors.New("no JSON object found in response")

// fenceLine matches a line holding only a Markdown fence, with or without a
// language tag. JSON strings cannot contain raw newlines, so such a line is
// never part of a string value.
var fenceLine = regexp.MustCompile("(?m)^[ \t]*```[A-Za-z0-9_+-]*[ \t]*\r?$")

// StripCodeFences removes Markdown code fence lines. Models often wrap JSON
// in ```json blocks even when told not to. Backticks inside a line are kept.
func StripCodeFences(text string) string {
	return strings.TrimSpace(fenceLine.ReplaceAllString(text, ""))
}

// ExtractObject recovers the JSON object embedded in a model reply.
// It takes everything from the first '{' to the last '}' inclusive and parses
// it as a whole; commentary before or after the object is ignored, but a
// malformed object is rejected outright.
func ExtractObject(text string) (map[string]any, error) {
	cleaned := StripCodeFences(text)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end < 0 {
		return nil, ErrNoJSONObject
	}
	if end < start {
		return nil, fmt.Errorf("%w: closing brace precedes opening brace", ErrNoJSONObject)
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &obj); err != nil {
		return nil, fmt.Errorf("failed to parse JSON object: %w", err)
	}
	if obj == nil {
		return nil, ErrNoJSONObject
	}
	return obj, nil
}
