package asset

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lumiplay/studio/internal/response"
)

// proxyCacheControl is deliberately shorter than the default signed-URL TTL
// so a cached redirect can never outlive the URL it points at.
const proxyCacheControl = "public, max-age=3600"

// Handler holds HTTP handlers for the asset endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new asset Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type signRequest struct {
	Key       string `json:"key"       example:"games/3f1c9a2e-77f1-4d8a-9f63-1f2f2f6f9b7e.png"`
	ExpiresIn int    `json:"expiresIn" example:"10800"`
}

type signBatchRequest struct {
	Keys      []string `json:"keys"`
	ExpiresIn int      `json:"expiresIn" example:"10800"`
}

type deleteRequest struct {
	Key string `json:"key" example:"games/3f1c9a2e-77f1-4d8a-9f63-1f2f2f6f9b7e.png"`
}

type uploadData struct {
	Key string `json:"key" example:"thumbnails/0d9e6f1a-b9e1-4a51-9f0e-1fd6a1c2b3d4.jpg"`
}

type uploadBatchData struct {
	Keys []string `json:"keys"`
}

type signData struct {
	URL string `json:"url"`
}

type signBatchData struct {
	URLs map[string]string `json:"urls"`
}

// Upload godoc
//
//	@Summary		Upload an asset
//	@Description	Stores one file in the object store under a fresh namespaced key and returns the key. The key (never a signed URL) is what content records persist.
//	@Tags			assets
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			folder	formData	string	true	"Target folder"	Enums(courses, games, thumbnails, screenshots, testimonials, resumes)
//	@Param			file	formData	file	true	"File to upload"
//	@Success		200		{object}	response.Envelope{data=uploadData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		413		{object}	response.Envelope
//	@Failure		415		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/admin/assets [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	folder, file, header, ok := h.parseUploadForm(w, r)
	if !ok {
		return
	}
	defer file.Close()

	key, err := h.svc.Upload(r.Context(), UploadInput{
		Folder:      folder,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		writeUploadError(w, err)
		return
	}

	response.OK(w, uploadData{Key: key})
}

// UploadBatch godoc
//
//	@Summary		Upload multiple assets
//	@Description	Uploads each file of the batch independently and concurrently. On partial failure the succeeded keys are still returned; nothing is rolled back.
//	@Tags			assets
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			folder	formData	string	true	"Target folder"	Enums(courses, games, thumbnails, screenshots, testimonials, resumes)
//	@Param			files	formData	file	true	"Files to upload"
//	@Success		200		{object}	response.Envelope{data=uploadBatchData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/admin/assets/batch [post]
func (h *Handler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}
	folder, err := ParseFolder(r.FormValue("folder"))
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		response.BadRequest(w, "no files provided")
		return
	}

	ins := make([]UploadInput, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(w, "unreadable file in form")
			return
		}
		defer f.Close()
		ins = append(ins, UploadInput{
			Folder:      folder,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      f,
		})
	}

	keys, err := h.svc.UploadBatch(r.Context(), ins)
	if err != nil {
		// Succeeded keys ride along so the caller can keep or clean them up.
		response.JSON(w, http.StatusInternalServerError, response.Envelope{
			Success: false,
			Data:    uploadBatchData{Keys: keys},
			Error:   err.Error(),
		})
		return
	}

	response.OK(w, uploadBatchData{Keys: keys})
}

// Sign godoc
//
//	@Summary		Issue a signed URL
//	@Description	Returns a time-limited direct-access URL for one object key. The URL differs on every call; anything cacheable must use the stable /api/image/ proxy path instead.
//	@Tags			assets
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		signRequest	true	"Key and optional expiry in seconds (default 10800)"
//	@Success		200		{object}	response.Envelope{data=signData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/admin/assets/sign [post]
func (h *Handler) Sign(w http.ResponseWriter, r *http.Request) {
	var req signRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	url, err := h.svc.SignedURL(r.Context(), req.Key, time.Duration(req.ExpiresIn)*time.Second)
	if err != nil {
		if errors.Is(err, ErrNoKey) {
			response.BadRequest(w, ErrNoKey.Error())
			return
		}
		response.Error(w, http.StatusInternalServerError, ErrSignFailed.Error())
		return
	}

	response.OK(w, signData{URL: url})
}

// SignBatch godoc
//
//	@Summary		Issue signed URLs for a batch of keys
//	@Description	Signs all keys concurrently and returns a key-to-URL map. Keys that fail to sign are omitted from the map rather than failing the call.
//	@Tags			assets
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		signBatchRequest	true	"Keys and optional expiry in seconds"
//	@Success		200		{object}	response.Envelope{data=signBatchData}
//	@Failure		400		{object}	response.Envelope
//	@Router			/admin/assets/sign-batch [post]
func (h *Handler) SignBatch(w http.ResponseWriter, r *http.Request) {
	var req signBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	urls, err := h.svc.SignedURLs(r.Context(), req.Keys, time.Duration(req.ExpiresIn)*time.Second)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.OK(w, signBatchData{URLs: urls})
}

// Delete godoc
//
//	@Summary		Delete an asset
//	@Description	Removes the stored object behind a key. Idempotent: deleting a missing object, an external URL or an empty key succeeds. Callers must update record references before deleting.
//	@Tags			assets
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		deleteRequest	true	"Key to delete"
//	@Success		200		{object}	response.Envelope
//	@Failure		400		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/admin/assets/delete [post]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.svc.Delete(r.Context(), req.Key); err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to delete asset")
		return
	}

	response.OK(w, nil)
}

// Proxy serves GET /api/image/<key>: it resolves the key to a freshly
// signed URL on every request and redirects to it. The proxy path for a key
// never changes, so HTTP caches key on it rather than on the rotating
// signed URL underneath. Mounted outside the versioned API so the path
// stays stable across API revisions.
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	url, err := h.svc.Resolve(r.Context(), key)
	if err != nil {
		if errors.Is(err, ErrNoKey) || errors.Is(err, ErrNotFound) {
			response.NotFound(w, "asset not found")
			return
		}
		response.InternalError(w)
		return
	}

	w.Header().Set("Cache-Control", proxyCacheControl)
	http.Redirect(w, r, url, http.StatusFound)
}

// parseUploadForm pulls the folder and single file out of a multipart form,
// writing the error response itself when the form is unusable.
func (h *Handler) parseUploadForm(w http.ResponseWriter, r *http.Request) (Folder, multipart.File, *multipart.FileHeader, bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return "", nil, nil, false
	}
	folder, err := ParseFolder(r.FormValue("folder"))
	if err != nil {
		response.BadRequest(w, err.Error())
		return "", nil, nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file field is required")
		return "", nil, nil, false
	}
	return folder, file, header, true
}

func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnsupportedType):
		response.UnsupportedMediaType(w, err.Error())
	case errors.Is(err, ErrFileTooLarge):
		response.PayloadTooLarge(w, err.Error())
	case errors.Is(err, ErrUnknownFolder):
		response.BadRequest(w, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, ErrUploadFailed.Error())
	}
}
