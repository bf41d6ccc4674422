package game

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumiplay/studio/internal/asset"
	"github.com/lumiplay/studio/internal/response"
)

// Handler holds HTTP handlers for game endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new game Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// publicGame is the public-page shape: asset references are rewritten to
// stable proxy URLs.
type publicGame struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	Platforms    []string `json:"platforms"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Screenshots  []string `json:"screenshots"`
}

func toPublic(g *Game) publicGame {
	return publicGame{
		ID:           g.ID,
		Title:        g.Title,
		Slug:         g.Slug,
		Description:  g.Description,
		Platforms:    g.Platforms,
		ThumbnailURL: asset.ProxyPath(g.ThumbnailURL),
		Screenshots:  asset.ProxyPaths(g.Screenshots),
	}
}

// ListPublished godoc
//
//	@Summary		List published games
//	@Tags			games
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]publicGame}
//	@Failure		500	{object}	response.Envelope
//	@Router			/games [get]
func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	games, err := h.svc.List(r.Context(), true)
	if err != nil {
		response.InternalError(w)
		return
	}
	out := make([]publicGame, 0, len(games))
	for _, g := range games {
		out = append(out, toPublic(g))
	}
	response.OK(w, out)
}

// GetBySlug godoc
//
//	@Summary		Get a published game by slug
//	@Tags			games
//	@Produce		json
//	@Param			slug	path		string	true	"Game slug"
//	@Success		200		{object}	response.Envelope{data=publicGame}
//	@Failure		404		{object}	response.Envelope
//	@Router			/games/{slug} [get]
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "game not found")
			return
		}
		response.InternalError(w)
		return
	}
	if !g.Published {
		response.NotFound(w, "game not found")
		return
	}
	response.OK(w, toPublic(g))
}

// AdminList godoc
//
//	@Summary		List all games including drafts
//	@Tags			admin-games
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=[]Game}
//	@Failure		500	{object}	response.Envelope
//	@Router			/admin/games [get]
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	games, err := h.svc.List(r.Context(), false)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, games)
}

// AdminGet godoc
//
//	@Summary		Get a game by id
//	@Tags			admin-games
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Game id"
//	@Success		200	{object}	response.Envelope{data=Game}
//	@Failure		404	{object}	response.Envelope
//	@Router			/admin/games/{id} [get]
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, g)
}

// Create godoc
//
//	@Summary		Create a game
//	@Tags			admin-games
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		Input	true	"Game fields"
//	@Success		201		{object}	response.Envelope{data=Game}
//	@Failure		400		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Router			/admin/games [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	g, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, g)
}

// Update godoc
//
//	@Summary		Update a game
//	@Tags			admin-games
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Game id"
//	@Param			request	body		Input	true	"Game fields"
//	@Success		200		{object}	response.Envelope{data=Game}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Router			/admin/games/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	g, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, g)
}

// Delete godoc
//
//	@Summary		Delete a game and its stored assets
//	@Tags			admin-games
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Game id"
//	@Success		200	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/admin/games/{id} [delete]
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
