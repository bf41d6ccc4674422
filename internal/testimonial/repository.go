// Package testimonial manages testimonial records and their persistence.
package testimonial

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Testimonial is one quote shown on the marketing pages. AvatarURL holds an
// object key or an external URL.
type Testimonial struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Role      string    `json:"role"`
	Quote     string    `json:"quote"`
	AvatarURL string    `json:"avatarUrl"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrNotFound is returned when a testimonial does not exist.
var ErrNotFound = errors.New("testimonial not found")

const testimonialColumns = `id, author, role, quote, avatar_url, published, created_at, updated_at`

// Repository handles all testimonial database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scan(row pgx.Row) (*Testimonial, error) {
	t := &Testimonial{}
	err := row.Scan(&t.ID, &t.Author, &t.Role, &t.Quote, &t.AvatarURL, &t.Published, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new testimonial.
func (r *Repository) Create(ctx context.Context, t *Testimonial) (*Testimonial, error) {
	created, err := scan(r.db.QueryRow(ctx,
		`INSERT INTO testimonials (author, role, quote, avatar_url, published)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+testimonialColumns,
		t.Author, t.Role, t.Quote, t.AvatarURL, t.Published,
	))
	if err != nil {
		return nil, fmt.Errorf("create testimonial: %w", err)
	}
	return created, nil
}

// GetByID fetches a testimonial by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*Testimonial, error) {
	t, err := scan(r.db.QueryRow(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	return t, err
}

// List returns testimonials, newest first.
func (r *Repository) List(ctx context.Context, publishedOnly bool) ([]*Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials ORDER BY created_at DESC`
	if publishedOnly {
		query = `SELECT ` + testimonialColumns + ` FROM testimonials WHERE published ORDER BY created_at DESC`
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	var out []*Testimonial
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update rewrites all mutable fields of a testimonial.
func (r *Repository) Update(ctx context.Context, t *Testimonial) (*Testimonial, error) {
	updated, err := scan(r.db.QueryRow(ctx,
		`UPDATE testimonials
		 SET author = $2, role = $3, quote = $4, avatar_url = $5, published = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+testimonialColumns,
		t.ID, t.Author, t.Role, t.Quote, t.AvatarURL, t.Published,
	))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update testimonial: %w", err)
	}
	return updated, nil
}

// Delete removes a testimonial by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
