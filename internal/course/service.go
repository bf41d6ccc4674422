package course

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lumiplay/studio/internal/asset"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ErrInvalidInput is returned when a course payload fails validation.
var ErrInvalidInput = errors.New("invalid course input")

// Input carries the mutable fields of a course.
type Input struct {
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	PriceCents   int    `json:"priceCents"`
	Published    bool   `json:"published"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Service contains business logic for course management.
type Service struct {
	repo   *Repository
	assets *asset.Service
}

// NewService creates a new course Service.
func NewService(repo *Repository, assets *asset.Service) *Service {
	return &Service{repo: repo, assets: assets}
}

// Create validates and inserts a new course.
func (s *Service) Create(ctx context.Context, in Input) (*Course, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, &Course{
		Title:        strings.TrimSpace(in.Title),
		Slug:         in.Slug,
		Description:  in.Description,
		PriceCents:   in.PriceCents,
		Published:    in.Published,
		ThumbnailURL: in.ThumbnailURL,
	})
}

// Update rewrites a course. When the update replaces a keyed thumbnail, the
// superseded object is deleted best-effort after the record change lands —
// the record never points at an already-deleted object.
func (s *Service) Update(ctx context.Context, id string, in Input) (*Course, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, &Course{
		ID:           id,
		Title:        strings.TrimSpace(in.Title),
		Slug:         in.Slug,
		Description:  in.Description,
		PriceCents:   in.PriceCents,
		Published:    in.Published,
		ThumbnailURL: in.ThumbnailURL,
	})
	if err != nil {
		return nil, err
	}

	if existing.ThumbnailURL != updated.ThumbnailURL {
		s.assets.DeleteBatch(ctx, []string{existing.ThumbnailURL})
	}
	return updated, nil
}

// Delete removes a course and best-effort deletes its stored thumbnail.
func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.assets.DeleteBatch(ctx, []string{existing.ThumbnailURL})
	return nil
}

// GetByID returns a course by UUID.
func (s *Service) GetByID(ctx context.Context, id string) (*Course, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug returns a course by its public slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Course, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// List returns courses, optionally restricted to published ones.
func (s *Service) List(ctx context.Context, publishedOnly bool) ([]*Course, error) {
	return s.repo.List(ctx, publishedOnly)
}

func validate(in Input) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !slugPattern.MatchString(in.Slug) {
		return fmt.Errorf("%w: slug must be lowercase letters, digits and hyphens", ErrInvalidInput)
	}
	if in.PriceCents < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}
