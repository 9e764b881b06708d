// Package db stores job application records in PostgreSQL (pgx) or an
// embedded SQLite database.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Application stages.
const (
	StageSaved     = "saved"
	StageApplied   = "applied"
	StageInterview = "interview"
	StageOffer     = "offer"
	StageRejected  = "rejected"
)

// Stages lists every application stage in pipeline order.
var Stages = []string{StageSaved, StageApplied, StageInterview, StageOffer, StageRejected}

// ValidStage reports whether s is a known stage.
func ValidStage(s string) bool {
	for _, stage := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Application is one tracked job for one user, keyed by (UserID, JobID).
type Application struct {
	UserID    uuid.UUID `json:"user_id"`
	JobID     string    `json:"job_id"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	JobTitle  string    `json:"job_title,omitempty"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplicationInput is the data written by an upsert. Status and Notes always
// replace the stored values; empty JobTitle and Company keep them.
type ApplicationInput struct {
	UserID   uuid.UUID
	JobID    string
	Status   string
	Notes    string
	JobTitle string
	Company  string
}

// StageCounts holds the number of applications per stage.
type StageCounts struct {
	Saved     int `json:"saved"`
	Applied   int `json:"applied"`
	Interview int `json:"interview"`
	Offer     int `json:"offer"`
	Rejected  int `json:"rejected"`
	Total     int `json:"total"`
}

// CountStages aggregates applications per stage. Unknown stages count toward
// Total only.
func CountStages(apps []Application) StageCounts {
	var c StageCounts
	for _, a := range apps {
		switch a.Status {
		case StageSaved:
			c.Saved++
		case StageApplied:
			c.Applied++
		case StageInterview:
			c.Interview++
		case StageOffer:
			c.Offer++
		case StageRejected:
			c.Rejected++
		}
		c.Total++
	}
	return c
}

// ErrApplicationNotFound indicates no record exists for (UserID, JobID).
type ErrApplicationNotFound struct {
	UserID uuid.UUID
	JobID  string
}

func (e *ErrApplicationNotFound) Error() string {
	return fmt.Sprintf("application not found: user %s, job %s", e.UserID, e.JobID)
}

// Store persists application records.
type Store interface {
	// Migrate creates the schema if it does not exist.
	Migrate(ctx context.Context) error
	// UpsertApplication inserts or updates the (user, job) record and returns it.
	UpsertApplication(ctx context.Context, in *ApplicationInput) (*Application, error)
	// ListApplications returns a user's records, most recently updated first.
	// An empty status returns every stage.
	ListApplications(ctx context.Context, userID uuid.UUID, status string) ([]Application, error)
	// DeleteApplication removes a record or returns *ErrApplicationNotFound.
	DeleteApplication(ctx context.Context, userID uuid.UUID, jobID string) error
	Close()
}

func validateInput(in *ApplicationInput) error {
	if in == nil {
		return fmt.Errorf("application input is required")
	}
	if in.UserID == uuid.Nil {
		return fmt.Errorf("user id is required")
	}
	if in.JobID == "" {
		return fmt.Errorf("job id is required")
	}
	if !ValidStage(in.Status) {
		return fmt.Errorf("invalid status %q", in.Status)
	}
	return nil
}

// Storage drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the configured store and migrates its schema.
func Open(ctx context.Context, driver, url string) (Store, error) {
	var (
		store Store
		err   error
	)
	switch driver {
	case DriverPostgres:
		store, err = Connect(ctx, url)
	case DriverSQLite:
		store, err = OpenSQLite(ctx, url)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
