// Package prompts holds the LLM instruction templates embedded at compile time.
// Templates live in tailoring.json keyed by prompt name and use {{.Key}} placeholders.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed tailoring.json
var tailoringJSON []byte

// Template keys in tailoring.json.
const (
	KeyTailorResume = "tailor-resume"
	KeyMatchScore   = "match-score"
)

var templates = sync.OnceValues(func() (map[string]string, error) {
	return parse(tailoringJSON)
})

func parse(data []byte) (map[string]string, error) {
	var set map[string]string
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}
	return set, nil
}

// Template returns the raw template stored under key.
func Template(key string) (string, error) {
	set, err := templates()
	if err != nil {
		return "", err
	}
	tmpl, ok := set[key]
	if !ok {
		return "", fmt.Errorf("prompt template %q not found", key)
	}
	return tmpl, nil
}

// Render fills the template stored under key with data. The templates are
// compiled into the binary, so a missing key panics.
func Render(key string, data map[string]string) string {
	tmpl, err := Template(key)
	if err != nil {
		panic(err)
	}
	return Format(tmpl, data)
}

// Format replaces {{.Key}} placeholders with values from data in a single pass,
// so substituted values are never themselves scanned for placeholders.
// Keys are applied in sorted order and the output is deterministic.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, "{{."+key+"}}", data[key])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
