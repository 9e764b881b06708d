package llm

import (
	"math"
	"strconv"
	"strings"
)

// String returns obj[key] trimmed when it is a string, otherwise "".
func String(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

// StringList returns obj[key] as a list of trimmed, non-blank strings.
// Non-list values yield an empty (non-nil) list; non-string elements are dropped.
func StringList(obj map[string]any, key string) []string {
	out := []string{}
	items, ok := obj[key].([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Number returns obj[key] as a float. Objects decoded by ExtractObject hold
// numbers as float64; numeric strings are accepted. Absent
// or unparseable values yield NaN.
func Number(obj map[string]any, key string) float64 {
	switch val := obj[key].(type) {
	case float64:
		return val
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
