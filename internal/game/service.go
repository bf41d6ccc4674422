package game

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lumiplay/studio/internal/asset"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ErrInvalidInput is returned when a game payload fails validation.
var ErrInvalidInput = errors.New("invalid game input")

// Input carries the mutable fields of a game.
type Input struct {
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	Platforms    []string `json:"platforms"`
	Published    bool     `json:"published"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Screenshots  []string `json:"screenshots"`
}

// Service contains business logic for game management.
type Service struct {
	repo   *Repository
	assets *asset.Service
}

// NewService creates a new game Service.
func NewService(repo *Repository, assets *asset.Service) *Service {
	return &Service{repo: repo, assets: assets}
}

// Create validates and inserts a new game.
func (s *Service) Create(ctx context.Context, in Input) (*Game, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, fromInput("", in))
}

// Update rewrites a game. Keyed assets the update drops (a replaced
// thumbnail, removed screenshots) are deleted best-effort after the record
// change lands.
func (s *Service) Update(ctx context.Context, id string, in Input) (*Game, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, fromInput(id, in))
	if err != nil {
		return nil, err
	}

	if dropped := droppedRefs(existing, updated); len(dropped) > 0 {
		s.assets.DeleteBatch(ctx, dropped)
	}
	return updated, nil
}

// Delete removes a game and best-effort deletes all its stored assets.
func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.assets.DeleteBatch(ctx, append([]string{existing.ThumbnailURL}, existing.Screenshots...))
	return nil
}

// GetByID returns a game by UUID.
func (s *Service) GetByID(ctx context.Context, id string) (*Game, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug returns a game by its public slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Game, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// List returns games, optionally restricted to published ones.
func (s *Service) List(ctx context.Context, publishedOnly bool) ([]*Game, error) {
	return s.repo.List(ctx, publishedOnly)
}

func fromInput(id string, in Input) *Game {
	platforms := in.Platforms
	if platforms == nil {
		platforms = []string{}
	}
	screenshots := in.Screenshots
	if screenshots == nil {
		screenshots = []string{}
	}
	return &Game{
		ID:           id,
		Title:        strings.TrimSpace(in.Title),
		Slug:         in.Slug,
		Description:  in.Description,
		Platforms:    platforms,
		Published:    in.Published,
		ThumbnailURL: in.ThumbnailURL,
		Screenshots:  screenshots,
	}
}

// droppedRefs returns the asset references present on old that cur no
// longer carries after an update.
func droppedRefs(old, cur *Game) []string {
	kept := map[string]bool{cur.ThumbnailURL: true}
	for _, s := range cur.Screenshots {
		kept[s] = true
	}

	var dropped []string
	if !kept[old.ThumbnailURL] {
		dropped = append(dropped, old.ThumbnailURL)
	}
	for _, s := range old.Screenshots {
		if !kept[s] {
			dropped = append(dropped, s)
		}
	}
	return dropped
}

func validate(in Input) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !slugPattern.MatchString(in.Slug) {
		return fmt.Errorf("%w: slug must be lowercase letters, digits and hyphens", ErrInvalidInput)
	}
	return nil
}
