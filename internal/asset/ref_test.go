package asset

import "testing"

func TestClassifyExternalURLs(t *testing.T) {
	for _, s := range []string{
		"http://example.com/a.png",
		"https://cdn.example.com/folder/b.jpg?v=2",
	} {
		r := Classify(s)
		if !r.IsExternal() {
			t.Errorf("Classify(%q) should be external", s)
		}
		if r.String() != s {
			t.Errorf("external value must be untouched, got %q", r.String())
		}
		if got := ProxyPath(s); got != s {
			t.Errorf("ProxyPath(%q) = %q, want passthrough", s, got)
		}
	}
}

func TestClassifyEmpty(t *testing.T) {
	for _, s := range []string{"", "/", "///"} {
		r := Classify(s)
		if !r.IsZero() {
			t.Errorf("Classify(%q) should be the zero Ref", s)
		}
		if got := ProxyPath(s); got != "" {
			t.Errorf("ProxyPath(%q) = %q, want empty", s, got)
		}
	}
}

func TestClassifyKeyStripsLeadingSlashes(t *testing.T) {
	r := Classify("//games/abc123.png")
	if !r.IsKeyed() {
		t.Fatal("expected a keyed reference")
	}
	if r.Key() != "games/abc123.png" {
		t.Errorf("leading slashes not stripped, got %q", r.Key())
	}
}

func TestProxyPathStable(t *testing.T) {
	key := "thumbnails/3f1c9a2e-77f1-4d8a-9f63-1f2f2f6f9b7e.jpg"
	first := ProxyPath(key)
	second := ProxyPath(key)
	if first != second {
		t.Fatalf("proxy path must be stable: %q vs %q", first, second)
	}
	if first != ProxyPrefix+key {
		t.Errorf("proxy path = %q, want %q", first, ProxyPrefix+key)
	}
}

func TestProxyPathsElementWise(t *testing.T) {
	in := []string{
		"games/a.png",
		"",
		"https://cdn.example.com/x.png",
		"/screenshots/b.webp",
	}
	out := ProxyPaths(in)
	want := []string{
		ProxyPrefix + "games/a.png",
		"",
		"https://cdn.example.com/x.png",
		ProxyPrefix + "screenshots/b.webp",
	}
	if len(out) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("ProxyPaths[%d] = %q, want %q", i, out[i], want[i])
		}
	}

	if ProxyPaths(nil) != nil {
		t.Error("nil input should stay nil")
	}
}

func TestParseFolder(t *testing.T) {
	for _, s := range []string{"courses", "games", "thumbnails", "screenshots", "testimonials", "resumes"} {
		if _, err := ParseFolder(s); err != nil {
			t.Errorf("ParseFolder(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseFolder("uploads"); err == nil {
		t.Error("folder set is closed; \"uploads\" must be rejected")
	}
}

func TestFolderClass(t *testing.T) {
	if FolderResumes.Class() != ClassDocument {
		t.Error("resumes should be the document class")
	}
	for _, f := range []Folder{FolderCourses, FolderGames, FolderThumbnails, FolderScreenshots, FolderTestimonials} {
		if f.Class() != ClassImage {
			t.Errorf("%s should be the image class", f)
		}
	}
}
