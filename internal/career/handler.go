package career

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumiplay/studio/internal/asset"
	"github.com/lumiplay/studio/internal/response"
)

// Handler holds HTTP handlers for career endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new career Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListOpen godoc
//
//	@Summary		List open job positions
//	@Tags			careers
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]Job}
//	@Failure		500	{object}	response.Envelope
//	@Router			/jobs [get]
func (h *Handler) ListOpen(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.svc.ListJobs(r.Context(), true)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, jobs)
}

// Apply godoc
//
//	@Summary		Apply to a job
//	@Description	Submits an application with a resume file (pdf, doc or docx). The resume is stored under the resumes folder; the application record references its object key.
//	@Tags			careers
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string	true	"Job id"
//	@Param			name	formData	string	true	"Applicant name"
//	@Param			email	formData	string	true	"Applicant email"
//	@Param			resume	formData	file	true	"Resume file"
//	@Success		201		{object}	response.Envelope{data=Application}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		415		{object}	response.Envelope
//	@Router			/jobs/{id}/apply [post]
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		response.BadRequest(w, "resume file is required")
		return
	}
	defer file.Close()

	app, err := h.svc.Apply(r.Context(), chi.URLParam(r, "id"), ApplicationInput{
		Name:           r.FormValue("name"),
		Email:          r.FormValue("email"),
		ResumeFilename: header.Filename,
		ResumeType:     header.Header.Get("Content-Type"),
		ResumeSize:     header.Size,
		Resume:         file,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, app)
}

// AdminListJobs godoc
//
//	@Summary		List all job positions including closed ones
//	@Tags			admin-careers
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=[]Job}
//	@Router			/admin/jobs [get]
func (h *Handler) AdminListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.svc.ListJobs(r.Context(), false)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, jobs)
}

// CreateJob godoc
//
//	@Summary		Create a job position
//	@Tags			admin-careers
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		JobInput	true	"Job fields"
//	@Success		201		{object}	response.Envelope{data=Job}
//	@Failure		400		{object}	response.Envelope
//	@Router			/admin/jobs [post]
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var in JobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	j, err := h.svc.CreateJob(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, j)
}

// UpdateJob godoc
//
//	@Summary		Update a job position
//	@Tags			admin-careers
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string		true	"Job id"
//	@Param			request	body		JobInput	true	"Job fields"
//	@Success		200		{object}	response.Envelope{data=Job}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Router			/admin/jobs/{id} [put]
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var in JobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	j, err := h.svc.UpdateJob(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, j)
}

// DeleteJob godoc
//
//	@Summary		Delete a job position
//	@Tags			admin-careers
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Job id"
//	@Success		200	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/admin/jobs/{id} [delete]
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteJob(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, nil)
}

// ListApplications godoc
//
//	@Summary		List applications for a job
//	@Description	Admin view: resumeUrl fields hold raw object keys; the admin UI requests signed URLs for the ones it opens.
//	@Tags			admin-careers
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Job id"
//	@Success		200	{object}	response.Envelope{data=[]Application}
//	@Failure		404	{object}	response.Envelope
//	@Router			/admin/jobs/{id}/applications [get]
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.ListApplications(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, apps)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, ErrNotFound.Error())
	case errors.Is(err, ErrJobClosed):
		response.Conflict(w, ErrJobClosed.Error())
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(w, err.Error())
	case errors.Is(err, asset.ErrUnsupportedType):
		response.UnsupportedMediaType(w, err.Error())
	case errors.Is(err, asset.ErrFileTooLarge):
		response.PayloadTooLarge(w, err.Error())
	default:
		response.InternalError(w)
	}
}
