package testimonial

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumiplay/studio/internal/asset"
	"github.com/lumiplay/studio/internal/response"
)

// Handler holds HTTP handlers for testimonial endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new testimonial Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// publicTestimonial rewrites the avatar reference to a stable proxy URL.
type publicTestimonial struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Role      string `json:"role"`
	Quote     string `json:"quote"`
	AvatarURL string `json:"avatarUrl"`
}

// ListPublished godoc
//
//	@Summary		List published testimonials
//	@Tags			testimonials
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]publicTestimonial}
//	@Failure		500	{object}	response.Envelope
//	@Router			/testimonials [get]
func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), true)
	if err != nil {
		response.InternalError(w)
		return
	}
	out := make([]publicTestimonial, 0, len(items))
	for _, t := range items {
		out = append(out, publicTestimonial{
			ID:        t.ID,
			Author:    t.Author,
			Role:      t.Role,
			Quote:     t.Quote,
			AvatarURL: asset.ProxyPath(t.AvatarURL),
		})
	}
	response.OK(w, out)
}

// AdminList godoc
//
//	@Summary		List all testimonials including drafts
//	@Tags			admin-testimonials
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=[]Testimonial}
//	@Router			/admin/testimonials [get]
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), false)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, items)
}

// Create godoc
//
//	@Summary		Create a testimonial
//	@Tags			admin-testimonials
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		Input	true	"Testimonial fields"
//	@Success		201		{object}	response.Envelope{data=Testimonial}
//	@Failure		400		{object}	response.Envelope
//	@Router			/admin/testimonials [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	t, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, t)
}

// Update godoc
//
//	@Summary		Update a testimonial
//	@Tags			admin-testimonials
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Testimonial id"
//	@Param			request	body		Input	true	"Testimonial fields"
//	@Success		200		{object}	response.Envelope{data=Testimonial}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Router			/admin/testimonials/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	t, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, t)
}

// Delete godoc
//
//	@Summary		Delete a testimonial
//	@Tags			admin-testimonials
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Testimonial id"
//	@Success		200	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/admin/testimonials/{id} [delete]
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
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w)
	}
}
