// Package tailoring rewrites a candidate's resume for one job description
// through the provider fallback chain.
package tailoring

import (
	"github.com/jonathan/jobtrack/internal/llm"
	"github.com/jonathan/jobtrack/internal/prompts"
	"github.com/jonathan/jobtrack/internal/types"
)

// Fields is the output schema requested from providers, in prompt order.
var Fields = []llm.SchemaField{
	{Name: "headline", Type: "string", Description: "one-line professional headline for this job"},
	{Name: "professional_summary", Type: "string", Description: "2-4 sentence summary"},
	{Name: "tailored_experience_bullets", Type: "[string]", Description: "rewritten experience bullets, most relevant first"},
	{Name: "tailored_skills", Type: "[string]", Description: "skills the candidate actually has, ordered by relevance"},
	{Name: "keywords", Type: "[string]", Description: "job keywords reflected in the resume"},
	{Name: "changes_made", Type: "[string]", Description: "short notes on what was changed"},
	{Name: "missing_information", Type: "[string]", Description: "requirements the candidate has not shown"},
	{Name: "tailored_resume_text", Type: "string", Description: "the full tailored resume as plain text"},
}

// BuildPrompt assembles the tailoring instruction. Identical inputs always
// produce byte-identical prompts.
func BuildPrompt(jobDescription string, facts types.CandidateFacts) string {
	return prompts.Render(prompts.KeyTailorResume, map[string]string{
		"Schema":         llm.FormatSchema(Fields),
		"JobDescription": jobDescription,
		"Candidate":      facts.Serialize(),
	})
}
