package course

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	ok := Input{Title: "Intro to Game Design", Slug: "intro-to-game-design", PriceCents: 4900}
	if err := validate(ok); err != nil {
		t.Errorf("valid input rejected: %v", err)
	}

	cases := []struct {
		name string
		in   Input
	}{
		{"missing title", Input{Slug: "a-course"}},
		{"blank title", Input{Title: "   ", Slug: "a-course"}},
		{"bad slug", Input{Title: "A Course", Slug: "A Course"}},
		{"negative price", Input{Title: "A Course", Slug: "a-course", PriceCents: -1}},
	}
	for _, c := range cases {
		if err := validate(c.in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", c.name, err)
		}
	}
}
