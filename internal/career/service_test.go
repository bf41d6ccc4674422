package career

import (
	"context"
	"errors"
	"testing"
)

// Validation runs before any repository or store access, so a nil-wired
// Service is enough to exercise the rejection paths.
func TestApplyRejectsBadContactFields(t *testing.T) {
	svc := NewService(nil, nil)

	cases := []struct {
		name string
		in   ApplicationInput
	}{
		{"missing name", ApplicationInput{Email: "a@example.com"}},
		{"blank name", ApplicationInput{Name: "  ", Email: "a@example.com"}},
		{"missing email", ApplicationInput{Name: "Ada"}},
		{"malformed email", ApplicationInput{Name: "Ada", Email: "not-an-email"}},
	}
	for _, c := range cases {
		if _, err := svc.Apply(context.Background(), "job-id", c.in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", c.name, err)
		}
	}
}

func TestCreateJobRequiresTitle(t *testing.T) {
	svc := NewService(nil, nil)

	if _, err := svc.CreateJob(context.Background(), JobInput{Team: "Engine"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for missing title, got %v", err)
	}
}
