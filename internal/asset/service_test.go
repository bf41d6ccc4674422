package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lumiplay/studio/internal/storage"
)

// fakeStorage is an in-memory Storage implementation. Failure behaviour is
// scripted per test via failPutWhen / failSign.
type fakeStorage struct {
	mu          sync.Mutex
	objects     map[string][]byte
	types       map[string]string
	failSign    map[string]bool
	failPutWhen func(key, contentType string) bool
	signSeq     int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects:  make(map[string][]byte),
		types:    make(map[string]string),
		failSign: make(map[string]bool),
	}
}

func (f *fakeStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64, contentType string) error {
	if f.failPutWhen != nil && f.failPutWhen(key, contentType) {
		return errors.New("store unavailable")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

// Delete mirrors S3 semantics: removing a missing object succeeds.
func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	delete(f.types, key)
	return nil
}

func (f *fakeStorage) PresignedURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSign[key] {
		return "", errors.New("signing unavailable")
	}
	f.signSeq++
	return fmt.Sprintf("https://store.test/%s?sig=%d&expires=%d", key, f.signSeq, int(expiry.Seconds())), nil
}

func (f *fakeStorage) Stat(_ context.Context, key string) (storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return storage.ObjectInfo{}, errors.New("object not found")
	}
	return storage.ObjectInfo{Key: key, Size: int64(len(data)), ContentType: f.types[key]}, nil
}

func (f *fakeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

var keyPattern = regexp.MustCompile(`^(courses|games|thumbnails|screenshots|testimonials|resumes)/[A-Za-z0-9_-]{8,}\.[A-Za-z0-9]+$`)

func pngUpload(folder Folder, name string, size int) UploadInput {
	return UploadInput{
		Folder:      folder,
		Filename:    name,
		ContentType: "image/png",
		Size:        int64(size),
		Reader:      bytes.NewReader(bytes.Repeat([]byte{0x89}, size)),
	}
}

func TestUploadKeyFormat(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, 0, 0)

	key, err := svc.Upload(context.Background(), pngUpload(FolderGames, "cover.png", 1))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !keyPattern.MatchString(key) {
		t.Errorf("key %q does not match the namespace format", key)
	}
	if !strings.HasPrefix(key, "games/") {
		t.Errorf("key %q not under games/", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("key %q should keep the .png extension", key)
	}
	if store.count() != 1 {
		t.Errorf("expected exactly one stored object, got %d", store.count())
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, 0, 0)

	_, err := svc.Upload(context.Background(), UploadInput{
		Folder:      FolderGames,
		Filename:    "build.zip",
		ContentType: "application/zip",
		Size:        10,
		Reader:      bytes.NewReader(make([]byte, 10)),
	})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if store.count() != 0 {
		t.Errorf("rejected upload must not leave a stored object")
	}
}

func TestUploadResumeAllowList(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, 0, 0)

	key, err := svc.Upload(context.Background(), UploadInput{
		Folder:      FolderResumes,
		Filename:    "cv.pdf",
		ContentType: "application/pdf",
		Size:        100,
		Reader:      bytes.NewReader(make([]byte, 100)),
	})
	if err != nil {
		t.Fatalf("pdf resume should be accepted: %v", err)
	}
	if !strings.HasPrefix(key, "resumes/") || !strings.HasSuffix(key, ".pdf") {
		t.Errorf("unexpected resume key %q", key)
	}

	// Images are not valid resumes.
	_, err = svc.Upload(context.Background(), UploadInput{
		Folder:      FolderResumes,
		Filename:    "cv.png",
		ContentType: "image/png",
		Size:        100,
		Reader:      bytes.NewReader(make([]byte, 100)),
	})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType for image resume, got %v", err)
	}
}

func TestUploadSizeBoundary(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, 0, 1024)

	if _, err := svc.Upload(context.Background(), pngUpload(FolderThumbnails, "a.png", 1024)); err != nil {
		t.Fatalf("file of exactly the limit must succeed: %v", err)
	}
	_, err := svc.Upload(context.Background(), pngUpload(FolderThumbnails, "b.png", 1025))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge one byte over the limit, got %v", err)
	}
}

func TestUploadExtensionFallback(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, 0, 0)
	ctx := context.Background()

	key, err := svc.Upload(ctx, pngUpload(FolderScreenshots, "no-extension", 1))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("image without extension should default to .jpg, got %q", key)
	}

	key, err = svc.Upload(ctx, UploadInput{
		Folder:      FolderResumes,
		Filename:    "resume",
		ContentType: "application/pdf",
		Size:        1,
		Reader:      bytes.NewReader([]byte{0}),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.HasSuffix(key, ".pdf") {
		t.Errorf("document without extension should default to .pdf, got %q", key)
	}
}

func TestUploadMintsFreshKeys(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, 0, 0)
	ctx := context.Background()

	k1, err := svc.Upload(ctx, pngUpload(FolderGames, "same.png", 1))
	if err != nil {
		t.Fatal(err)
	}
	k2, err := svc.Upload(ctx, pngUpload(FolderGames, "same.png", 1))
	if err != nil {
		t.Fatal(err)
	}
	if k1 == k2 {
		t.Errorf("two uploads of the same file must not share a key: %q", k1)
	}
}

func TestUploadBatchPartialFailure(t *testing.T) {
	store := newFakeStorage()
	store.failPutWhen = func(_, contentType string) bool { return contentType == "image/gif" }
	svc := NewService(store, 0, 0)

	ins := []UploadInput{
		pngUpload(FolderScreenshots, "ok.png", 4),
		{
			Folder:      FolderScreenshots,
			Filename:    "broken.gif",
			ContentType: "image/gif",
			Size:        4,
			Reader:      bytes.NewReader(make([]byte, 4)),
		},
	}

	keys, err := svc.UploadBatch(context.Background(), ins)
	var batchErr *BatchUploadError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected *BatchUploadError, got %v", err)
	}
	if batchErr.Failed != 1 {
		t.Errorf("expected 1 failure, got %d", batchErr.Failed)
	}
	if len(keys) != 1 {
		t.Fatalf("succeeded keys must survive a partial failure, got %v", keys)
	}
	if store.count() != 1 {
		t.Errorf("succeeded object must not be rolled back")
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, 0, 0)
	ctx := context.Background()

	key, err := svc.Upload(ctx, pngUpload(FolderCourses, "x.png", 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, key); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := svc.Delete(ctx, key); err != nil {
		t.Fatalf("second delete of the same key must also succeed: %v", err)
	}
}

func TestDeleteExternalAndEmptyAreNoops(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, 0, 0)
	ctx := context.Background()

	if err := svc.Delete(ctx, "https://cdn.example.com/logo.png"); err != nil {
		t.Errorf("deleting an external URL must be a no-op, got %v", err)
	}
	if err := svc.Delete(ctx, ""); err != nil {
		t.Errorf("deleting an empty reference must be a no-op, got %v", err)
	}
}

func TestDeleteBatchBestEffort(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, 0, 0)
	ctx := context.Background()

	k1, _ := svc.Upload(ctx, pngUpload(FolderGames, "a.png", 1))
	k2, _ := svc.Upload(ctx, pngUpload(FolderGames, "b.png", 1))

	svc.DeleteBatch(ctx, []string{k1, k2, "games/never-existed.png", "https://cdn.example.com/x.png", ""})
	if store.count() != 0 {
		t.Errorf("expected all stored objects removed, %d left", store.count())
	}
}

func TestSignedURLDefaultExpiryAndInstability(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, 0, 0)
	ctx := context.Background()

	key, err := svc.Upload(ctx, pngUpload(FolderThumbnails, "t.png", 1))
	if err != nil {
		t.Fatal(err)
	}

	u1, err := svc.SignedURL(ctx, key, 0)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if !strings.Contains(u1, key) {
		t.Errorf("signed URL %q should contain the key", u1)
	}
	if !strings.Contains(u1, "expires=10800") {
		t.Errorf("default expiry should be 3h (10800s), got %q", u1)
	}

	u2, err := svc.SignedURL(ctx, key, 0)
	if err != nil {
		t.Fatal(err)
	}
	if u1 == u2 {
		t.Errorf("two signings of the same key must produce different URLs")
	}
}

func TestSignedURLNormalizesLeadingSlashes(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, 0, 0)
	ctx := context.Background()

	key, err := svc.Upload(ctx, pngUpload(FolderGames, "g.png", 1))
	if err != nil {
		t.Fatal(err)
	}
	u, err := svc.SignedURL(ctx, "/"+key, 0)
	if err != nil {
		t.Fatalf("sign with leading slash failed: %v", err)
	}
	if strings.Contains(u, "//"+key) {
		t.Errorf("leading slash not stripped: %q", u)
	}
}

func TestSignedURLExternalPassthrough(t *testing.T) {
	svc := NewService(newFakeStorage(), 0, 0)

	ext := "https://cdn.example.com/banner.png"
	u, err := svc.SignedURL(context.Background(), ext, 0)
	if err != nil {
		t.Fatalf("external reference should pass through: %v", err)
	}
	if u != ext {
		t.Errorf("external URL must be returned unchanged, got %q", u)
	}
}

func TestSignedURLErrors(t *testing.T) {
	svc := NewService(newFakeStorage(), 0, 0)
	ctx := context.Background()

	if _, err := svc.SignedURL(ctx, "", 0); !errors.Is(err, ErrNoKey) {
		t.Errorf("empty key should yield ErrNoKey, got %v", err)
	}
	if _, err := svc.SignedURLs(ctx, nil, 0); !errors.Is(err, ErrNoKeys) {
		t.Errorf("empty batch should yield ErrNoKeys, got %v", err)
	}
}

func TestSignedURLsOmitFailedKeys(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, 0, 0)
	ctx := context.Background()

	a, _ := svc.Upload(ctx, pngUpload(FolderGames, "a.png", 1))
	b, _ := svc.Upload(ctx, pngUpload(FolderGames, "b.png", 1))
	store.failSign[b] = true

	urls, err := svc.SignedURLs(ctx, []string{a, b}, 0)
	if err != nil {
		t.Fatalf("batch signing must not fail because of one key: %v", err)
	}
	if _, ok := urls[a]; !ok {
		t.Errorf("expected a URL for %q", a)
	}
	if _, ok := urls[b]; ok {
		t.Errorf("failed key %q must be omitted from the map", b)
	}
}

func TestResolveAfterDelete(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, 0, 0)
	ctx := context.Background()

	key, err := svc.Upload(ctx, pngUpload(FolderThumbnails, "t.png", 1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Resolve(ctx, key); err != nil {
		t.Fatalf("resolve of an existing object failed: %v", err)
	}

	if err := svc.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Resolve(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("resolve of a deleted object should fail with ErrNotFound, got %v", err)
	}
}

// End-to-end walk of the asset lifecycle: upload, sign, proxy, delete.
func TestAssetLifecycle(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store, 0, 0)
	ctx := context.Background()

	key, err := svc.Upload(ctx, UploadInput{
		Folder:      FolderThumbnails,
		Filename:    "hero.jpg",
		ContentType: "image/jpeg",
		Size:        2048,
		Reader:      bytes.NewReader(make([]byte, 2048)),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.HasPrefix(key, "thumbnails/") || !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("unexpected key %q", key)
	}

	u, err := svc.SignedURL(ctx, key, 0)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if !strings.Contains(u, key) || !strings.Contains(u, "expires=10800") {
		t.Errorf("signed URL %q missing key or 3h expiry", u)
	}

	if got, want := ProxyPath(key), ProxyPrefix+key; got != want {
		t.Errorf("proxy path = %q, want %q", got, want)
	}

	if err := svc.Delete(ctx, key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Resolve(ctx, key); err == nil {
		t.Errorf("resolving a deleted asset should fail")
	}
}
