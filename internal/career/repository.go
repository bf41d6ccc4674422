// Package career manages job openings and the applications submitted to them.
package career

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Job is one opening on the careers page.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Team        string    `json:"team"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Open        bool      `json:"open"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Application is one submission to a job opening. ResumeURL holds the object
// key of the uploaded resume.
type Application struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ResumeURL string    `json:"resumeUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrNotFound is returned when a job does not exist.
var ErrNotFound = errors.New("job not found")

const jobColumns = `id, title, team, location, description, open, created_at, updated_at`

// Repository handles job and application database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanJob(row pgx.Row) (*Job, error) {
	j := &Job{}
	err := row.Scan(&j.ID, &j.Title, &j.Team, &j.Location, &j.Description, &j.Open, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

// CreateJob inserts a new opening.
func (r *Repository) CreateJob(ctx context.Context, j *Job) (*Job, error) {
	created, err := scanJob(r.db.QueryRow(ctx,
		`INSERT INTO jobs (title, team, location, description, open)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+jobColumns,
		j.Title, j.Team, j.Location, j.Description, j.Open,
	))
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return created, nil
}

// GetJob fetches an opening by id.
func (r *Repository) GetJob(ctx context.Context, id string) (*Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, err
}

// ListJobs returns openings, newest first. When openOnly is set, closed
// positions are excluded.
func (r *Repository) ListJobs(ctx context.Context, openOnly bool) ([]*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC`
	if openOnly {
		query = `SELECT ` + jobColumns + ` FROM jobs WHERE open ORDER BY created_at DESC`
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []*Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// UpdateJob rewrites all mutable fields of an opening.
func (r *Repository) UpdateJob(ctx context.Context, j *Job) (*Job, error) {
	updated, err := scanJob(r.db.QueryRow(ctx,
		`UPDATE jobs
		 SET title = $2, team = $3, location = $4, description = $5, open = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+jobColumns,
		j.ID, j.Title, j.Team, j.Location, j.Description, j.Open,
	))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return updated, nil
}

// DeleteJob removes an opening; its applications cascade at the schema level.
func (r *Repository) DeleteJob(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateApplication inserts an application for a job.
func (r *Repository) CreateApplication(ctx context.Context, a *Application) (*Application, error) {
	created := &Application{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO applications (job_id, name, email, resume_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, job_id, name, email, resume_url, created_at`,
		a.JobID, a.Name, a.Email, a.ResumeURL,
	).Scan(&created.ID, &created.JobID, &created.Name, &created.Email, &created.ResumeURL, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return created, nil
}

// ListApplications returns the applications for one job, newest first.
func (r *Repository) ListApplications(ctx context.Context, jobID string) ([]*Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, job_id, name, email, resume_url, created_at
		 FROM applications WHERE job_id = $1 ORDER BY created_at DESC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []*Application
	for rows.Next() {
		a := &Application{}
		if err := rows.Scan(&a.ID, &a.JobID, &a.Name, &a.Email, &a.ResumeURL, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
