// Package course manages course records and their persistence.
package course

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Course is one course offered on the site. ThumbnailURL holds an object key
// or an external URL — never a signed URL.
type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	PriceCents   int       `json:"priceCents"`
	Published    bool      `json:"published"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ErrNotFound is returned when a course does not exist.
var ErrNotFound = errors.New("course not found")

// ErrSlugTaken is returned when the slug is already in use.
var ErrSlugTaken = errors.New("course slug already in use")

const courseColumns = `id, title, slug, description, price_cents, published, thumbnail_url, created_at, updated_at`

// Repository handles all course database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanCourse(row pgx.Row) (*Course, error) {
	c := &Course{}
	err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.PriceCents, &c.Published, &c.ThumbnailURL, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new course and returns the created record.
func (r *Repository) Create(ctx context.Context, c *Course) (*Course, error) {
	created, err := scanCourse(r.db.QueryRow(ctx,
		`INSERT INTO courses (title, slug, description, price_cents, published, thumbnail_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+courseColumns,
		c.Title, c.Slug, c.Description, c.PriceCents, c.Published, c.ThumbnailURL,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create course: %w", err)
	}
	return created, nil
}

// GetByID fetches a course by its UUID.
func (r *Repository) GetByID(ctx context.Context, id string) (*Course, error) {
	c, err := scanCourse(r.db.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get course by id: %w", err)
	}
	return c, err
}

// GetBySlug fetches a course by its public slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Course, error) {
	c, err := scanCourse(r.db.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE slug = $1`, slug))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get course by slug: %w", err)
	}
	return c, err
}

// List returns courses, newest first. When publishedOnly is set, drafts are
// excluded.
func (r *Repository) List(ctx context.Context, publishedOnly bool) ([]*Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at DESC`
	if publishedOnly {
		query = `SELECT ` + courseColumns + ` FROM courses WHERE published ORDER BY created_at DESC`
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var out []*Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites all mutable fields of a course.
func (r *Repository) Update(ctx context.Context, c *Course) (*Course, error) {
	updated, err := scanCourse(r.db.QueryRow(ctx,
		`UPDATE courses
		 SET title = $2, slug = $3, description = $4, price_cents = $5, published = $6, thumbnail_url = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING `+courseColumns,
		c.ID, c.Title, c.Slug, c.Description, c.PriceCents, c.Published, c.ThumbnailURL,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update course: %w", err)
	}
	return updated, nil
}

// Delete removes a course by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation checks whether an error is a PostgreSQL unique_violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
