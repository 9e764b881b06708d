// Package schemas embeds the JSON Schemas describing provider output.
package schemas

import "embed"

// Schema file names.
const (
	TailoredResult = "tailored_result.schema.json"
	MatchScore     = "match_score.schema.json"
)

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
