// Package game manages game records and their persistence.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Game is one title in the studio's catalogue. ThumbnailURL and Screenshots
// hold object keys or external URLs — never signed URLs.
type Game struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Platforms    []string  `json:"platforms"`
	Published    bool      `json:"published"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Screenshots  []string  `json:"screenshots"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ErrNotFound is returned when a game does not exist.
var ErrNotFound = errors.New("game not found")

// ErrSlugTaken is returned when the slug is already in use.
var ErrSlugTaken = errors.New("game slug already in use")

const gameColumns = `id, title, slug, description, platforms, published, thumbnail_url, screenshots, created_at, updated_at`

// Repository handles all game database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanGame(row pgx.Row) (*Game, error) {
	g := &Game{}
	err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description, &g.Platforms, &g.Published, &g.ThumbnailURL, &g.Screenshots, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Create inserts a new game and returns the created record.
func (r *Repository) Create(ctx context.Context, g *Game) (*Game, error) {
	created, err := scanGame(r.db.QueryRow(ctx,
		`INSERT INTO games (title, slug, description, platforms, published, thumbnail_url, screenshots)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+gameColumns,
		g.Title, g.Slug, g.Description, g.Platforms, g.Published, g.ThumbnailURL, g.Screenshots,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create game: %w", err)
	}
	return created, nil
}

// GetByID fetches a game by its UUID.
func (r *Repository) GetByID(ctx context.Context, id string) (*Game, error) {
	g, err := scanGame(r.db.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get game by id: %w", err)
	}
	return g, err
}

// GetBySlug fetches a game by its public slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Game, error) {
	g, err := scanGame(r.db.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM games WHERE slug = $1`, slug))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get game by slug: %w", err)
	}
	return g, err
}

// List returns games, newest first. When publishedOnly is set, drafts are
// excluded.
func (r *Repository) List(ctx context.Context, publishedOnly bool) ([]*Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games ORDER BY created_at DESC`
	if publishedOnly {
		query = `SELECT ` + gameColumns + ` FROM games WHERE published ORDER BY created_at DESC`
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []*Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Update rewrites all mutable fields of a game.
func (r *Repository) Update(ctx context.Context, g *Game) (*Game, error) {
	updated, err := scanGame(r.db.QueryRow(ctx,
		`UPDATE games
		 SET title = $2, slug = $3, description = $4, platforms = $5, published = $6, thumbnail_url = $7, screenshots = $8, updated_at = now()
		 WHERE id = $1
		 RETURNING `+gameColumns,
		g.ID, g.Title, g.Slug, g.Description, g.Platforms, g.Published, g.ThumbnailURL, g.Screenshots,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update game: %w", err)
	}
	return updated, nil
}

// Delete removes a game by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
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
