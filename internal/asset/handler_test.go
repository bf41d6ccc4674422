package asset

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(store *fakeStorage) *chi.Mux {
	h := NewHandler(NewService(store, 0, 0))
	r := chi.NewRouter()
	r.Post("/admin/assets", h.Upload)
	r.Post("/admin/assets/batch", h.UploadBatch)
	r.Post("/admin/assets/sign", h.Sign)
	r.Post("/admin/assets/sign-batch", h.SignBatch)
	r.Post("/admin/assets/delete", h.Delete)
	r.Get("/api/image/*", h.Proxy)
	return r
}

func multipartBody(t *testing.T, folder string, files map[string][2]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := mw.WriteField("folder", folder); err != nil {
		t.Fatal(err)
	}
	for field, nameAndType := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+nameAndType[0]+`"`)
		hdr.Set("Content-Type", nameAndType[1])
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write([]byte("file-bytes")); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return body, mw.FormDataContentType()
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not the standard envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestUploadEndpoint(t *testing.T) {
	store := newFakeStorage()
	router := newTestRouter(store)

	body, contentType := multipartBody(t, "games", map[string][2]string{
		"file": {"cover.png", "image/png"},
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/assets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	var data uploadData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if !keyPattern.MatchString(data.Key) {
		t.Errorf("returned key %q does not match the namespace format", data.Key)
	}
}

func TestUploadEndpointRejectsUnknownFolder(t *testing.T) {
	router := newTestRouter(newFakeStorage())

	body, contentType := multipartBody(t, "attachments", map[string][2]string{
		"file": {"cover.png", "image/png"},
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/assets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown folder, got %d", rec.Code)
	}
}

func TestUploadEndpointRejectsBadType(t *testing.T) {
	store := newFakeStorage()
	router := newTestRouter(store)

	body, contentType := multipartBody(t, "games", map[string][2]string{
		"file": {"build.zip", "application/zip"},
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/assets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == "" {
		t.Error("error envelope should carry success=false and a message")
	}
	if store.count() != 0 {
		t.Error("rejected upload must not store an object")
	}
}

func TestSignEndpoint(t *testing.T) {
	store := newFakeStorage()
	router := newTestRouter(store)
	svc := NewService(store, 0, 0)

	key, err := svc.Upload(context.Background(), pngUpload(FolderThumbnails, "t.png", 1))
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/assets/sign", strings.NewReader(`{"key":"`+key+`"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	var data signData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(data.URL, key) {
		t.Errorf("signed URL %q should reference the key", data.URL)
	}
}

func TestSignEndpointEmptyKey(t *testing.T) {
	router := newTestRouter(newFakeStorage())

	req := httptest.NewRequest(http.MethodPost, "/admin/assets/sign", strings.NewReader(`{"key":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty key, got %d", rec.Code)
	}
}

func TestSignBatchEndpointOmitsFailures(t *testing.T) {
	store := newFakeStorage()
	router := newTestRouter(store)
	svc := NewService(store, 0, 0)
	ctx := context.Background()
	a, _ := svc.Upload(ctx, pngUpload(FolderGames, "a.png", 1))
	b, _ := svc.Upload(ctx, pngUpload(FolderGames, "b.png", 1))
	store.failSign[b] = true

	payload, _ := json.Marshal(signBatchRequest{Keys: []string{a, b}})
	req := httptest.NewRequest(http.MethodPost, "/admin/assets/sign-batch", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var data signBatchData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if _, ok := data.URLs[a]; !ok {
		t.Errorf("expected URL for %q", a)
	}
	if _, ok := data.URLs[b]; ok {
		t.Errorf("failed key %q must be omitted", b)
	}
}

func TestDeleteEndpointIdempotent(t *testing.T) {
	store := newFakeStorage()
	router := newTestRouter(store)
	svc := NewService(store, 0, 0)

	key, err := svc.Upload(context.Background(), pngUpload(FolderCourses, "c.png", 1))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/admin/assets/delete", strings.NewReader(`{"key":"`+key+`"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete #%d: expected 200, got %d", i+1, rec.Code)
		}
		if env := decodeEnvelope(t, rec); !env.Success {
			t.Errorf("delete #%d: expected success envelope", i+1)
		}
	}
}

func TestProxyEndpoint(t *testing.T) {
	store := newFakeStorage()
	router := newTestRouter(store)
	svc := NewService(store, 0, 0)

	key, err := svc.Upload(context.Background(), pngUpload(FolderThumbnails, "hero.jpg", 2))
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/image/"+key, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, key) {
		t.Errorf("redirect location %q should reference the key", loc)
	}
	if rec.Header().Get("Cache-Control") != proxyCacheControl {
		t.Errorf("proxy response must carry the stable-URL cache header")
	}

	// Second request re-signs: same stable path, different upstream URL.
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/api/image/"+key, nil))
	if rec2.Header().Get("Location") == loc {
		t.Errorf("each proxy resolution must produce a fresh signed URL")
	}
}

func TestProxyEndpointMissingObject(t *testing.T) {
	router := newTestRouter(newFakeStorage())

	req := httptest.NewRequest(http.MethodGet, "/api/image/thumbnails/gone.jpg", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing object, got %d", rec.Code)
	}
}
