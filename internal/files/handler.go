package files

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/filebridge/service/internal/response"
)

// maxUploadBytes caps request payloads at Discord's attachment ceiling.
const maxUploadBytes = 25 << 20

// Handler holds HTTP handlers for file endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new file Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Stores the uploaded file on the chat backends (bot first, webhook fallback) or, with storage=bucket, in the object-storage bucket.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			file	formData	file	true	"file payload"
//	@Param			storage	query		string	false	"set to 'bucket' to bypass the chat backends"
//	@Success		201	{object}	response.Envelope{data=Record}
//	@Failure		400	{object}	response.Envelope
//	@Failure		502	{object}	response.Envelope
//	@Failure		503	{object}	response.Envelope
//	@Router			/files [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "multipart field 'file' required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "failed to read file payload")
		return
	}

	toBucket := r.URL.Query().Get("storage") == "bucket"
	contentType := header.Header.Get("Content-Type")

	rec, err := h.svc.Upload(r.Context(), header.Filename, contentType, data, toBucket)
	if err != nil {
		writeCoordinatorError(w, err)
		return
	}

	response.Created(w, rec)
}

// Resolve godoc
//
//	@Summary		Resolve a file identifier
//	@Description	Returns the metadata record and a currently fetchable URL for the identifier.
//	@Tags			files
//	@Produce		json
//	@Param			id	path	string	true	"file identifier"
//	@Success		200	{object}	response.Envelope{data=Resolved}
//	@Failure		404	{object}	response.Envelope
//	@Failure		502	{object}	response.Envelope
//	@Failure		503	{object}	response.Envelope
//	@Router			/files/{id} [get]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.svc.Resolve(r.Context(), id)
	if err != nil {
		writeCoordinatorError(w, err)
		return
	}

	response.OK(w, res)
}

// Remove godoc
//
//	@Summary		Delete a file
//	@Description	Best-effort chat-message delete for chat-backed records, bucket delete for bucket-backed ones, then removes the metadata record.
//	@Tags			files
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	string	true	"file identifier"
//	@Success		200	{object}	response.Envelope{data=PurgeResult}
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/files/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.svc.Remove(r.Context(), id)
	if err != nil {
		writeCoordinatorError(w, err)
		return
	}

	response.OK(w, res)
}

// Status godoc
//
//	@Summary		Chat backend connectivity
//	@Description	Probes every configured chat backend and reports the merged status.
//	@Tags			status
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=ConnStatus}
//	@Router			/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.svc.Status(r.Context()))
}

// writeCoordinatorError maps the error taxonomy onto HTTP statuses: absence
// is 404, configuration absence 503, aggregated transport failures 502.
func writeCoordinatorError(w http.ResponseWriter, err error) {
	var backendErrs BackendErrors
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrAbsent):
		response.NotFound(w, "file not found")
	case errors.Is(err, ErrNoBackends), errors.Is(err, ErrNoBucket):
		response.ServiceUnavailable(w, err.Error())
	case errors.As(err, &backendErrs):
		response.BadGateway(w, backendErrs.Error())
	default:
		response.InternalError(w)
	}
}
