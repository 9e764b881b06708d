package server

import (
	"context"
	"net/http"

	"github.com/jonathan/jobtrack/internal/jobtext"
	"github.com/jonathan/jobtrack/internal/tailoring"
	"github.com/jonathan/jobtrack/internal/types"
)

// TailorResponse is the success body of POST /api/tailor-resume.
type TailorResponse struct {
	Result tailoring.Result `json:"result"`
	Model  string           `json:"model,omitempty"`
	Cached bool             `json:"cached,omitempty"`
}

func (s *Server) readResumeRequest(w http.ResponseWriter, r *http.Request) (*types.ResumeRequest, error) {
	var req types.ResumeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}
	return &req, nil
}

func (s *Server) handleTailorResume(w http.ResponseWriter, r *http.Request) {
	req, err := s.readResumeRequest(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	resp, err := s.tailor.Tailor(ctx, req.JobDescription, req.Candidate())
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, TailorResponse{
		Result: resp.Result,
		Model:  resp.Model,
		Cached: resp.Cached,
	})
}

func (s *Server) handleMatchScore(w http.ResponseWriter, r *http.Request) {
	req, err := s.readResumeRequest(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	result, err := s.scorer.Score(ctx, req.JobDescription, req.Candidate())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.resultResponse(w, result)
}

func (s *Server) handleKeywordMatch(w http.ResponseWriter, r *http.Request) {
	var req types.KeywordMatchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.errorResponse(w, validationError(err))
		return
	}

	s.resultResponse(w, jobtext.Match(req.ResumeText, jobtext.Normalize(req.JobDescription)))
}
