package testimonial

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lumiplay/studio/internal/asset"
)

// ErrInvalidInput is returned when a testimonial payload fails validation.
var ErrInvalidInput = errors.New("invalid testimonial input")

// Input carries the mutable fields of a testimonial.
type Input struct {
	Author    string `json:"author"`
	Role      string `json:"role"`
	Quote     string `json:"quote"`
	AvatarURL string `json:"avatarUrl"`
	Published bool   `json:"published"`
}

// Service contains business logic for testimonial management.
type Service struct {
	repo   *Repository
	assets *asset.Service
}

// NewService creates a new testimonial Service.
func NewService(repo *Repository, assets *asset.Service) *Service {
	return &Service{repo: repo, assets: assets}
}

// Create validates and inserts a testimonial.
func (s *Service) Create(ctx context.Context, in Input) (*Testimonial, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, &Testimonial{
		Author:    strings.TrimSpace(in.Author),
		Role:      in.Role,
		Quote:     strings.TrimSpace(in.Quote),
		AvatarURL: in.AvatarURL,
		Published: in.Published,
	})
}

// Update rewrites a testimonial, best-effort deleting a replaced keyed
// avatar after the record change lands.
func (s *Service) Update(ctx context.Context, id string, in Input) (*Testimonial, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, &Testimonial{
		ID:        id,
		Author:    strings.TrimSpace(in.Author),
		Role:      in.Role,
		Quote:     strings.TrimSpace(in.Quote),
		AvatarURL: in.AvatarURL,
		Published: in.Published,
	})
	if err != nil {
		return nil, err
	}

	if existing.AvatarURL != updated.AvatarURL {
		s.assets.DeleteBatch(ctx, []string{existing.AvatarURL})
	}
	return updated, nil
}

// Delete removes a testimonial and best-effort deletes its stored avatar.
func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.assets.DeleteBatch(ctx, []string{existing.AvatarURL})
	return nil
}

// GetByID returns a testimonial by id.
func (s *Service) GetByID(ctx context.Context, id string) (*Testimonial, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns testimonials, optionally only published ones.
func (s *Service) List(ctx context.Context, publishedOnly bool) ([]*Testimonial, error) {
	return s.repo.List(ctx, publishedOnly)
}

func validate(in Input) error {
	if strings.TrimSpace(in.Author) == "" {
		return fmt.Errorf("%w: author is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Quote) == "" {
		return fmt.Errorf("%w: quote is required", ErrInvalidInput)
	}
	return nil
}
