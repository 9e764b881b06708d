package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS job_applications (
	user_id    TEXT NOT NULL,
	job_id     TEXT NOT NULL,
	status     TEXT NOT NULL CHECK (status IN ('saved', 'applied', 'interview', 'offer', 'rejected')),
	notes      TEXT NOT NULL DEFAULT '',
	job_title  TEXT NOT NULL DEFAULT '',
	company    TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (user_id, job_id)
);
CREATE INDEX IF NOT EXISTS job_applications_user_status_idx ON job_applications (user_id, status);
`

// sqliteTime is fixed-width so text ordering matches time ordering.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps applications in an embedded SQLite database, for local
// development and tests. ":memory:" gives a private in-memory database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; also keeps ":memory:" on one connection

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Migrate creates the job_applications table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// UpsertApplication inserts or updates an application record.
func (s *SQLiteStore) UpsertApplication(ctx context.Context, in *ApplicationInput) (*Application, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.now().UTC().Format(sqliteTime)
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO job_applications (user_id, job_id, status, notes, job_title, company, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, job_id) DO UPDATE SET
		     status     = excluded.status,
		     notes      = excluded.notes,
		     job_title  = COALESCE(NULLIF(excluded.job_title, ''), job_applications.job_title),
		     company    = COALESCE(NULLIF(excluded.company, ''), job_applications.company),
		     updated_at = excluded.updated_at
		 RETURNING user_id, job_id, status, notes, job_title, company, created_at, updated_at`,
		in.UserID.String(), in.JobID, in.Status, in.Notes, in.JobTitle, in.Company, now, now,
	)
	a, err := scanSQLite(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert application: %w", err)
	}
	return a, nil
}

// ListApplications returns a user's applications, optionally filtered by status.
func (s *SQLiteStore) ListApplications(ctx context.Context, userID uuid.UUID, status string) ([]Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, job_id, status, notes, job_title, company, created_at, updated_at
		 FROM job_applications
		 WHERE user_id = ? AND (? = '' OR status = ?)
		 ORDER BY updated_at DESC, job_id ASC`,
		userID.String(), status, status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		a, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}

// DeleteApplication removes an application record.
func (s *SQLiteStore) DeleteApplication(ctx context.Context, userID uuid.UUID, jobID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM job_applications WHERE user_id = ? AND job_id = ?`,
		userID.String(), jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if n == 0 {
		return &ErrApplicationNotFound{UserID: userID, JobID: jobID}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (*Application, error) {
	var (
		a                    Application
		userID               string
		createdAt, updatedAt string
	)
	if err := row.Scan(&userID, &a.JobID, &a.Status, &a.Notes, &a.JobTitle, &a.Company, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if a.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	if a.CreatedAt, err = time.Parse(sqliteTime, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if a.UpdatedAt, err = time.Parse(sqliteTime, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	return &a, nil
}
