package course

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumiplay/studio/internal/asset"
	"github.com/lumiplay/studio/internal/response"
)

// Handler holds HTTP handlers for course endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new course Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// publicCourse is the public-page shape: asset references are rewritten to
// stable proxy URLs so pages and CDNs can cache them.
type publicCourse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	PriceCents   int    `json:"priceCents"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

func toPublic(c *Course) publicCourse {
	return publicCourse{
		ID:           c.ID,
		Title:        c.Title,
		Slug:         c.Slug,
		Description:  c.Description,
		PriceCents:   c.PriceCents,
		ThumbnailURL: asset.ProxyPath(c.ThumbnailURL),
	}
}

// ListPublished godoc
//
//	@Summary		List published courses
//	@Tags			courses
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]publicCourse}
//	@Failure		500	{object}	response.Envelope
//	@Router			/courses [get]
func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.List(r.Context(), true)
	if err != nil {
		response.InternalError(w)
		return
	}
	out := make([]publicCourse, 0, len(courses))
	for _, c := range courses {
		out = append(out, toPublic(c))
	}
	response.OK(w, out)
}

// GetBySlug godoc
//
//	@Summary		Get a published course by slug
//	@Tags			courses
//	@Produce		json
//	@Param			slug	path		string	true	"Course slug"
//	@Success		200		{object}	response.Envelope{data=publicCourse}
//	@Failure		404		{object}	response.Envelope
//	@Router			/courses/{slug} [get]
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "course not found")
			return
		}
		response.InternalError(w)
		return
	}
	if !c.Published {
		// Drafts are invisible on the public site.
		response.NotFound(w, "course not found")
		return
	}
	response.OK(w, toPublic(c))
}

// AdminList godoc
//
//	@Summary		List all courses including drafts
//	@Tags			admin-courses
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=[]Course}
//	@Failure		500	{object}	response.Envelope
//	@Router			/admin/courses [get]
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.List(r.Context(), false)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, courses)
}

// AdminGet godoc
//
//	@Summary		Get a course by id
//	@Tags			admin-courses
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Course id"
//	@Success		200	{object}	response.Envelope{data=Course}
//	@Failure		404	{object}	response.Envelope
//	@Router			/admin/courses/{id} [get]
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, c)
}

// Create godoc
//
//	@Summary		Create a course
//	@Tags			admin-courses
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		Input	true	"Course fields"
//	@Success		201		{object}	response.Envelope{data=Course}
//	@Failure		400		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Router			/admin/courses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	c, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, c)
}

// Update godoc
//
//	@Summary		Update a course
//	@Tags			admin-courses
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Course id"
//	@Param			request	body		Input	true	"Course fields"
//	@Success		200		{object}	response.Envelope{data=Course}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Router			/admin/courses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	c, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, c)
}

// Delete godoc
//
//	@Summary		Delete a course
//	@Tags			admin-courses
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Course id"
//	@Success		200	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/admin/courses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, nil)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, ErrNotFound.Error())
	case errors.Is(err, ErrSlugTaken):
		response.Conflict(w, ErrSlugTaken.Error())
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w)
	}
}
