package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/jobtrack/internal/db"
	"github.com/jonathan/jobtrack/internal/types"
)

const maxJobIDLength = 200

func jobIDFromPath(r *http.Request) (string, error) {
	jobID := strings.TrimSpace(r.PathValue("job_id"))
	if jobID == "" {
		return "", &ErrValidation{Field: "job_id", Message: "is required"}
	}
	if len(jobID) > maxJobIDLength {
		return "", &ErrValidation{Field: "job_id", Message: "is too long"}
	}
	return jobID, nil
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" && !db.ValidStage(status) {
		s.errorResponse(w, &ErrValidation{Field: "status", Message: "must be one of: " + strings.Join(db.Stages, " ")})
		return
	}

	apps, err := s.store.ListApplications(r.Context(), userID, status)
	if err != nil {
		s.errorResponse(w, storageError("list applications", err))
		return
	}
	if apps == nil {
		apps = []db.Application{}
	}
	s.resultResponse(w, apps)
}

func (s *Server) handleApplicationStats(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	apps, err := s.store.ListApplications(r.Context(), userID, "")
	if err != nil {
		s.errorResponse(w, storageError("application stats", err))
		return
	}
	s.resultResponse(w, db.CountStages(apps))
}

func (s *Server) handleUpsertApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	jobID, err := jobIDFromPath(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	var req types.UpsertApplicationRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.errorResponse(w, validationError(err))
		return
	}

	app, err := s.store.UpsertApplication(r.Context(), &db.ApplicationInput{
		UserID:   userID,
		JobID:    jobID,
		Status:   req.Status,
		Notes:    req.Notes,
		JobTitle: req.JobTitle,
		Company:  req.Company,
	})
	if err != nil {
		s.errorResponse(w, storageError("upsert application", err))
		return
	}
	s.resultResponse(w, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	jobID, err := jobIDFromPath(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	if err := s.store.DeleteApplication(r.Context(), userID, jobID); err != nil {
		s.errorResponse(w, storageError("delete application", err))
		return
	}
	s.resultResponse(w, map[string]string{"job_id": jobID, "status": "deleted"})
}
