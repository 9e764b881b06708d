package types

import "strings"

// ResumeRequest is the body of the tailoring and scoring endpoints.
type ResumeRequest struct {
	JobDescription string   `json:"jobDescription" validate:"required,max=60000"`
	ResumeText     string   `json:"resumeText,omitempty" validate:"max=60000"`
	Profile        *Profile `json:"profile,omitempty"`
}

// Normalize trims surrounding whitespace so blank descriptions fail validation.
func (r *ResumeRequest) Normalize() {
	r.JobDescription = strings.TrimSpace(r.JobDescription)
	r.ResumeText = strings.TrimSpace(r.ResumeText)
}

// Validate validates the ResumeRequest using the shared validator.
func (r *ResumeRequest) Validate() error {
	return Validate(r)
}

// Candidate returns the request's candidate facts.
func (r *ResumeRequest) Candidate() CandidateFacts {
	return NewCandidateFacts(r.ResumeText, r.Profile)
}

// KeywordMatchRequest is the body of the keyword match endpoint.
type KeywordMatchRequest struct {
	JobDescription string `json:"jobDescription" validate:"required,max=60000"`
	ResumeText     string `json:"resumeText" validate:"required,max=60000"`
}

// Normalize trims surrounding whitespace.
func (r *KeywordMatchRequest) Normalize() {
	r.JobDescription = strings.TrimSpace(r.JobDescription)
	r.ResumeText = strings.TrimSpace(r.ResumeText)
}

// Validate validates the KeywordMatchRequest using the shared validator.
func (r *KeywordMatchRequest) Validate() error {
	return Validate(r)
}

// UpsertApplicationRequest is the body of PUT /api/applications/{job_id}.
type UpsertApplicationRequest struct {
	Status   string `json:"status" validate:"required,oneof=saved applied interview offer rejected"`
	Notes    string `json:"notes,omitempty" validate:"max=4000"`
	JobTitle string `json:"jobTitle,omitempty" validate:"max=300"`
	Company  string `json:"company,omitempty" validate:"max=300"`
}

// Normalize trims fields and lowercases the status.
func (r *UpsertApplicationRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Notes = strings.TrimSpace(r.Notes)
	r.JobTitle = strings.TrimSpace(r.JobTitle)
	r.Company = strings.TrimSpace(r.Company)
}

// Validate validates the UpsertApplicationRequest using the shared validator.
func (r *UpsertApplicationRequest) Validate() error {
	return Validate(r)
}
