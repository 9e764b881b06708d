// Package types defines the request and candidate types shared by the API and CLI.
package types

import (
	"strings"
)

// NotProvided stands in for empty candidate fields in prompts.
const NotProvided = "(not provided)"

// Profile holds the optional structured candidate fields sent by the dashboard.
type Profile struct {
	Name              string `json:"name,omitempty" validate:"max=200"`
	Education         string `json:"education,omitempty" validate:"max=2000"`
	CurrentCompany    string `json:"currentCompany,omitempty" validate:"max=200"`
	ExperienceSummary string `json:"experienceSummary,omitempty" validate:"max=8000"`
	Skills            string `json:"skills,omitempty" validate:"max=4000"`
}

// CandidateFacts is everything known about the candidate for one request.
// All fields are optional; empty ones are rendered as NotProvided.
type CandidateFacts struct {
	Name              string
	Education         string
	CurrentCompany    string
	ExperienceSummary string
	Skills            string
	ResumeText        string
}

// NewCandidateFacts combines resume text and an optional profile, trimming every field.
func NewCandidateFacts(resumeText string, p *Profile) CandidateFacts {
	facts := CandidateFacts{ResumeText: strings.TrimSpace(resumeText)}
	if p != nil {
		facts.Name = strings.TrimSpace(p.Name)
		facts.Education = strings.TrimSpace(p.Education)
		facts.CurrentCompany = strings.TrimSpace(p.CurrentCompany)
		facts.ExperienceSummary = strings.TrimSpace(p.ExperienceSummary)
		facts.Skills = strings.TrimSpace(p.Skills)
	}
	return facts
}

// IsEmpty reports whether no candidate information was provided at all.
func (c CandidateFacts) IsEmpty() bool {
	return c == CandidateFacts{}
}

// Serialize renders the facts as labelled lines in a fixed order, ending with
// the base resume in a quoted block.
func (c CandidateFacts) Serialize() string {
	var sb strings.Builder
	writeLine(&sb, "Name", c.Name)
	writeLine(&sb, "Education", c.Education)
	writeLine(&sb, "Current company", c.CurrentCompany)
	writeLine(&sb, "Experience summary", c.ExperienceSummary)
	writeLine(&sb, "Skills", c.Skills)

	sb.WriteString("Base resume:\n\"\"\"\n")
	sb.WriteString(orNotProvided(c.ResumeText))
	sb.WriteString("\n\"\"\"")
	return sb.String()
}

func writeLine(sb *strings.Builder, label, value string) {
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(orNotProvided(value))
	sb.WriteByte('\n')
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotProvided
	}
	return s
}
