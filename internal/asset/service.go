package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumiplay/studio/internal/storage"
)

// DefaultSignedURLTTL is the expiry applied when a caller does not pass one.
const DefaultSignedURLTTL = 3 * time.Hour

// Validation and store errors surfaced by the asset services. Handlers map
// these to HTTP statuses; the messages are safe to show to users verbatim.
var (
	ErrUnsupportedType = errors.New("unsupported media type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUploadFailed    = errors.New("upload failed")
	ErrNoKey           = errors.New("no key provided")
	ErrNoKeys          = errors.New("no keys provided")
	ErrSignFailed      = errors.New("failed to generate URL")
	ErrNotFound        = errors.New("asset not found")
)

// BatchUploadError reports how many files of a batch failed. Keys returned
// alongside it are the uploads that did succeed; they are not rolled back.
type BatchUploadError struct {
	Failed int
}

func (e *BatchUploadError) Error() string {
	return fmt.Sprintf("failed to upload %d file(s)", e.Failed)
}

// imageTypes and documentTypes are the per-class MIME allow-lists.
var imageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/webp":    true,
	"image/gif":     true,
	"image/svg+xml": true,
}

var documentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Service implements upload, deletion and signed-URL issuance over an
// injected store. It holds no mutable state; every method is safe for
// concurrent use.
type Service struct {
	store    storage.Storage
	signTTL  time.Duration
	maxBytes int64
}

// NewService creates an asset Service. signTTL and maxBytes fall back to
// DefaultSignedURLTTL and 10 MiB when zero.
func NewService(store storage.Storage, signTTL time.Duration, maxBytes int64) *Service {
	if signTTL <= 0 {
		signTTL = DefaultSignedURLTTL
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Service{store: store, signTTL: signTTL, maxBytes: maxBytes}
}

// UploadInput describes one file to store.
type UploadInput struct {
	Folder      Folder
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Upload validates the file and stores it under a fresh namespaced key
// "<folder>/<uuid>.<ext>". Every call mints a new key, so retrying a failed
// upload can never collide with or overwrite a previous attempt. No retry is
// performed here.
func (s *Service) Upload(ctx context.Context, in UploadInput) (string, error) {
	if err := s.validate(in); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s.%s", in.Folder, uuid.NewString(), extensionFor(in.Filename, in.Folder.Class()))
	if err := s.store.Upload(ctx, key, in.Reader, in.Size, in.ContentType); err != nil {
		log.Printf("asset: upload to %q failed: %v", in.Folder, err)
		return "", ErrUploadFailed
	}
	return key, nil
}

// UploadBatch uploads each file independently and concurrently. It returns
// the keys of every upload that succeeded, in input order. When any file
// fails the returned error is a *BatchUploadError carrying the failure
// count; succeeded objects are not rolled back — the caller decides whether
// to keep, retry or delete them.
func (s *Service) UploadBatch(ctx context.Context, ins []UploadInput) ([]string, error) {
	if len(ins) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ins))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for i, in := range ins {
		wg.Add(1)
		go func(i int, in UploadInput) {
			defer wg.Done()
			key, err := s.Upload(ctx, in)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				return
			}
			keys[i] = key
		}(i, in)
	}
	wg.Wait()

	out := make([]string, 0, len(ins))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	if failed > 0 {
		return out, &BatchUploadError{Failed: failed}
	}
	return out, nil
}

// Delete removes the stored object a reference points at. Empty references
// and external URLs are no-ops, and deleting a key that no longer exists
// succeeds — Delete is idempotent. Callers must update the content record's
// reference before deleting the object it pointed at.
func (s *Service) Delete(ctx context.Context, ref string) error {
	r := Classify(ref)
	if !r.IsKeyed() {
		return nil
	}
	if err := s.store.Delete(ctx, r.Key()); err != nil {
		return fmt.Errorf("delete %q: %w", r.Key(), err)
	}
	return nil
}

// DeleteBatch removes a set of references concurrently, best-effort.
// Individual failures are logged and swallowed: cleanup never blocks the
// user.
func (s *Service) DeleteBatch(ctx context.Context, refs []string) {
	var wg sync.WaitGroup
	for _, ref := range refs {
		wg.Add(1)
		go func(ref string) {
			defer wg.Done()
			if err := s.Delete(ctx, ref); err != nil {
				log.Printf("asset: best-effort delete failed: %v", err)
			}
		}(ref)
	}
	wg.Wait()
}

// SignedURL issues a time-limited URL granting GET access to the object
// behind ref. expiry <= 0 applies the configured default. External URLs
// pass through unchanged without touching the store. Two calls for the same
// key produce different URLs — anything that needs a stable URL must use
// ProxyPath instead.
func (s *Service) SignedURL(ctx context.Context, ref string, expiry time.Duration) (string, error) {
	r := Classify(ref)
	switch {
	case r.IsZero():
		return "", ErrNoKey
	case r.IsExternal():
		return r.String(), nil
	}
	if expiry <= 0 {
		expiry = s.signTTL
	}
	u, err := s.store.PresignedURL(ctx, r.Key(), expiry)
	if err != nil {
		log.Printf("asset: presign %q failed: %v", r.Key(), err)
		return "", fmt.Errorf("%w for %q", ErrSignFailed, r.Key())
	}
	return u, nil
}

// SignedURLs issues URLs for a batch of references concurrently and returns
// a reference→URL map. A failure on one reference does not affect the
// others; failed references are simply absent from the map.
func (s *Service) SignedURLs(ctx context.Context, refs []string, expiry time.Duration) (map[string]string, error) {
	if len(refs) == 0 {
		return nil, ErrNoKeys
	}

	urls := make(map[string]string, len(refs))
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, ref := range refs {
		wg.Add(1)
		go func(ref string) {
			defer wg.Done()
			u, err := s.SignedURL(ctx, ref, expiry)
			if err != nil {
				return
			}
			mu.Lock()
			urls[ref] = u
			mu.Unlock()
		}(ref)
	}
	wg.Wait()
	return urls, nil
}

// Resolve is the proxy route's lookup: it verifies the object exists and
// returns a freshly signed URL for it. External references pass through.
// Nothing is cached here — every resolution re-signs, which is what keeps
// the stable proxy URL valid while signed URLs rotate underneath it.
func (s *Service) Resolve(ctx context.Context, ref string) (string, error) {
	r := Classify(ref)
	switch {
	case r.IsZero():
		return "", ErrNoKey
	case r.IsExternal():
		return r.String(), nil
	}
	if _, err := s.store.Stat(ctx, r.Key()); err != nil {
		return "", fmt.Errorf("%w: %q", ErrNotFound, r.Key())
	}
	return s.SignedURL(ctx, r.Key(), 0)
}

func (s *Service) validate(in UploadInput) error {
	if _, err := ParseFolder(string(in.Folder)); err != nil {
		return err
	}
	allowed := imageTypes
	if in.Folder.Class() == ClassDocument {
		allowed = documentTypes
	}
	if !allowed[in.ContentType] {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, in.ContentType)
	}
	if in.Size > s.maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, in.Size, s.maxBytes)
	}
	return nil
}

// extensionFor derives a file extension from the original filename, falling
// back to a class-appropriate default when the name has none (or one that
// would break the key format).
func extensionFor(filename string, class Class) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext != "" && isAlnum(ext) {
		return ext
	}
	if class == ClassDocument {
		return "pdf"
	}
	return "jpg"
}

func isAlnum(s string) bool {
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
