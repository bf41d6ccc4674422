// Package asset implements the media asset subsystem: the object-key
// namespace, upload and deletion against the object store, time-limited
// signed URL issuance, and the stable proxy URLs public pages reference
// instead of expiring signed URLs.
package asset

import (
	"errors"
	"fmt"
	"strings"
)

// Folder is one of the fixed namespace prefixes partitioning the bucket by
// asset class. Adding a folder is a code change, not configuration.
type Folder string

const (
	FolderCourses      Folder = "courses"
	FolderGames        Folder = "games"
	FolderThumbnails   Folder = "thumbnails"
	FolderScreenshots  Folder = "screenshots"
	FolderTestimonials Folder = "testimonials"
	FolderResumes      Folder = "resumes"
)

// ErrUnknownFolder is returned when a folder name is not in the fixed set.
var ErrUnknownFolder = errors.New("unknown asset folder")

// ParseFolder validates a folder name against the fixed set.
func ParseFolder(s string) (Folder, error) {
	switch Folder(s) {
	case FolderCourses, FolderGames, FolderThumbnails, FolderScreenshots, FolderTestimonials, FolderResumes:
		return Folder(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFolder, s)
}

// Class is the validation class of a folder: images and documents carry
// separate MIME allow-lists.
type Class int

const (
	ClassImage Class = iota
	ClassDocument
)

// Class returns the validation class for the folder. Only resumes hold
// documents; every other folder holds images.
func (f Folder) Class() Class {
	if f == FolderResumes {
		return ClassDocument
	}
	return ClassImage
}

// Ref is an asset reference decided once at the boundary: either an external
// URL passed through unchanged, an object key in the bucket, or nothing.
// Content records persist the raw string form (key or external URL) — never
// a signed URL.
type Ref struct {
	external bool
	value    string
}

// Classify turns a stored reference string into a typed Ref. Empty input
// yields the zero Ref; strings starting with http:// or https:// are
// external URLs; everything else is an object key with leading slashes
// stripped.
func Classify(s string) Ref {
	if s == "" {
		return Ref{}
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return Ref{external: true, value: s}
	}
	key := strings.TrimLeft(s, "/")
	if key == "" {
		return Ref{}
	}
	return Ref{value: key}
}

// IsZero reports whether the reference holds no asset.
func (r Ref) IsZero() bool { return r.value == "" }

// IsExternal reports whether the reference is an external URL.
func (r Ref) IsExternal() bool { return r.external }

// IsKeyed reports whether the reference is an object key in the bucket.
func (r Ref) IsKeyed() bool { return !r.external && r.value != "" }

// Key returns the object key, or "" when the reference is not keyed.
func (r Ref) Key() string {
	if !r.IsKeyed() {
		return ""
	}
	return r.value
}

// String returns the raw reference value (object key or external URL).
func (r Ref) String() string { return r.value }
