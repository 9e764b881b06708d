package tailoring

import "github.com/jonathan/jobtrack/internal/llm"

// Result is a tailored resume. Every list is non-nil so it encodes as [].
type Result struct {
	Headline                  string   `json:"headline"`
	ProfessionalSummary       string   `json:"professional_summary"`
	TailoredExperienceBullets []string `json:"tailored_experience_bullets"`
	TailoredSkills            []string `json:"tailored_skills"`
	Keywords                  []string `json:"keywords"`
	ChangesMade               []string `json:"changes_made"`
	MissingInformation        []string `json:"missing_information"`
	TailoredResumeText        string   `json:"tailored_resume_text"`
}

// Normalize coerces a parsed provider object into a Result. It accepts any
// object, including nil: strings default to "" and lists to empty lists.
func Normalize(obj map[string]any) Result {
	return Result{
		Headline:                  llm.String(obj, "headline"),
		ProfessionalSummary:       llm.String(obj, "professional_summary"),
		TailoredExperienceBullets: llm.StringList(obj, "tailored_experience_bullets"),
		TailoredSkills:            llm.StringList(obj, "tailored_skills"),
		Keywords:                  llm.StringList(obj, "keywords"),
		ChangesMade:               llm.StringList(obj, "changes_made"),
		MissingInformation:        llm.StringList(obj, "missing_information"),
		TailoredResumeText:        llm.String(obj, "tailored_resume_text"),
	}
}
