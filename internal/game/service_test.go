package game

import (
	"errors"
	"testing"
)

func TestDroppedRefs(t *testing.T) {
	old := &Game{
		ThumbnailURL: "games/old-thumb.png",
		Screenshots:  []string{"screenshots/a.png", "screenshots/b.png", "https://cdn.example.com/c.png"},
	}
	cur := &Game{
		ThumbnailURL: "games/new-thumb.png",
		Screenshots:  []string{"screenshots/b.png"},
	}

	dropped := droppedRefs(old, cur)
	want := map[string]bool{
		"games/old-thumb.png":           true,
		"screenshots/a.png":             true,
		"https://cdn.example.com/c.png": true,
	}
	if len(dropped) != len(want) {
		t.Fatalf("dropped = %v, want %d refs", dropped, len(want))
	}
	for _, d := range dropped {
		if !want[d] {
			t.Errorf("unexpected dropped ref %q", d)
		}
	}
}

func TestDroppedRefsNothingChanged(t *testing.T) {
	g := &Game{
		ThumbnailURL: "games/thumb.png",
		Screenshots:  []string{"screenshots/a.png"},
	}
	if dropped := droppedRefs(g, g); len(dropped) != 0 {
		t.Errorf("identical records should drop nothing, got %v", dropped)
	}
}

func TestValidateSlug(t *testing.T) {
	ok := Input{Title: "Starfall", Slug: "starfall-2"}
	if err := validate(ok); err != nil {
		t.Errorf("valid input rejected: %v", err)
	}

	for _, slug := range []string{"", "Has-Caps", "spaced out", "trailing-", "-leading"} {
		in := Input{Title: "Starfall", Slug: slug}
		if err := validate(in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("slug %q should be rejected, got %v", slug, err)
		}
	}
}
