package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS job_applications (
	user_id    UUID        NOT NULL,
	job_id     TEXT        NOT NULL,
	status     TEXT        NOT NULL CHECK (status IN ('saved', 'applied', 'interview', 'offer', 'rejected')),
	notes      TEXT        NOT NULL DEFAULT '',
	job_title  TEXT        NOT NULL DEFAULT '',
	company    TEXT        NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, job_id)
);
CREATE INDEX IF NOT EXISTS job_applications_user_status_idx ON job_applications (user_id, status);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

var _ Store = (*DB)(nil)

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the job_applications table.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// UpsertApplication inserts or updates an application record
func (db *DB) UpsertApplication(ctx context.Context, in *ApplicationInput) (*Application, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var a Application
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_applications (user_id, job_id, status, notes, job_title, company)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, job_id) DO UPDATE SET
		     status     = EXCLUDED.status,
		     notes      = EXCLUDED.notes,
		     job_title  = COALESCE(NULLIF(EXCLUDED.job_title, ''), job_applications.job_title),
		     company    = COALESCE(NULLIF(EXCLUDED.company, ''), job_applications.company),
		     updated_at = NOW()
		 RETURNING user_id, job_id, status, notes, job_title, company, created_at, updated_at`,
		in.UserID, in.JobID, in.Status, in.Notes, in.JobTitle, in.Company,
	).Scan(&a.UserID, &a.JobID, &a.Status, &a.Notes, &a.JobTitle, &a.Company, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert application: %w", err)
	}
	return &a, nil
}

// ListApplications returns a user's applications, optionally filtered by status
func (db *DB) ListApplications(ctx context.Context, userID uuid.UUID, status string) ([]Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT user_id, job_id, status, notes, job_title, company, created_at, updated_at
		 FROM job_applications
		 WHERE user_id = $1 AND ($2 = '' OR status = $2)
		 ORDER BY updated_at DESC, job_id ASC`,
		userID, status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.UserID, &a.JobID, &a.Status, &a.Notes, &a.JobTitle, &a.Company, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}

// DeleteApplication removes an application record
func (db *DB) DeleteApplication(ctx context.Context, userID uuid.UUID, jobID string) error {
	var deleted string
	err := db.pool.QueryRow(ctx,
		`DELETE FROM job_applications WHERE user_id = $1 AND job_id = $2 RETURNING job_id`,
		userID, jobID,
	).Scan(&deleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &ErrApplicationNotFound{UserID: userID, JobID: jobID}
		}
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}
