package llm

import (
	"fmt"
	"strings"
)

// SchemaField describes one key of the JSON object a prompt asks for.
type SchemaField struct {
	Name        string
	Type        string
	Description string
}

// FormatSchema renders fields as a JSON-like skeleton, one key per line, in
// the given order.
func FormatSchema(fields []SchemaField) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for i, f := range fields {
		sep := ","
		if i == len(fields)-1 {
			sep = ""
		}
		if f.Description != "" {
			fmt.Fprintf(&sb, "  %q: %s%s  // %s\n", f.Name, f.Type, sep, f.Description)
		} else {
			fmt.Fprintf(&sb, "  %q: %s%s\n", f.Name, f.Type, sep)
		}
	}
	sb.WriteString("}")
	return sb.String()
}
