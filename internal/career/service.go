package career

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/lumiplay/studio/internal/asset"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validation errors for career payloads.
var (
	ErrInvalidInput = errors.New("invalid job input")
	ErrJobClosed    = errors.New("job is no longer open")
)

// JobInput carries the mutable fields of an opening.
type JobInput struct {
	Title       string `json:"title"`
	Team        string `json:"team"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Open        bool   `json:"open"`
}

// ApplicationInput is one applicant submission: contact fields plus the
// resume file to store.
type ApplicationInput struct {
	Name           string
	Email          string
	ResumeFilename string
	ResumeType     string
	ResumeSize     int64
	Resume         io.Reader
}

// Service contains business logic for the careers page.
type Service struct {
	repo   *Repository
	assets *asset.Service
}

// NewService creates a new career Service.
func NewService(repo *Repository, assets *asset.Service) *Service {
	return &Service{repo: repo, assets: assets}
}

// CreateJob validates and inserts a new opening.
func (s *Service) CreateJob(ctx context.Context, in JobInput) (*Job, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return s.repo.CreateJob(ctx, &Job{
		Title:       strings.TrimSpace(in.Title),
		Team:        in.Team,
		Location:    in.Location,
		Description: in.Description,
		Open:        in.Open,
	})
}

// UpdateJob rewrites an opening.
func (s *Service) UpdateJob(ctx context.Context, id string, in JobInput) (*Job, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return s.repo.UpdateJob(ctx, &Job{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Team:        in.Team,
		Location:    in.Location,
		Description: in.Description,
		Open:        in.Open,
	})
}

// DeleteJob removes an opening. Resume objects of its applications are kept:
// compliance owns their retention, not this subsystem.
func (s *Service) DeleteJob(ctx context.Context, id string) error {
	return s.repo.DeleteJob(ctx, id)
}

// GetJob returns an opening by id.
func (s *Service) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.repo.GetJob(ctx, id)
}

// ListJobs returns openings, optionally only open ones.
func (s *Service) ListJobs(ctx context.Context, openOnly bool) ([]*Job, error) {
	return s.repo.ListJobs(ctx, openOnly)
}

// Apply stores the applicant's resume under the resumes folder and records
// the application. The resume is uploaded first; a failed upload means no
// application row ever references a missing object.
func (s *Service) Apply(ctx context.Context, jobID string, in ApplicationInput) (*Application, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}

	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Open {
		return nil, ErrJobClosed
	}

	key, err := s.assets.Upload(ctx, asset.UploadInput{
		Folder:      asset.FolderResumes,
		Filename:    in.ResumeFilename,
		ContentType: in.ResumeType,
		Size:        in.ResumeSize,
		Reader:      in.Resume,
	})
	if err != nil {
		return nil, err
	}

	app, err := s.repo.CreateApplication(ctx, &Application{
		JobID:     jobID,
		Name:      strings.TrimSpace(in.Name),
		Email:     in.Email,
		ResumeURL: key,
	})
	if err != nil {
		// The record never landed; drop the orphaned resume.
		s.assets.DeleteBatch(ctx, []string{key})
		return nil, err
	}
	return app, nil
}

// ListApplications returns the applications for one job.
func (s *Service) ListApplications(ctx context.Context, jobID string) ([]*Application, error) {
	if _, err := s.repo.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	return s.repo.ListApplications(ctx, jobID)
}
