package handler

import (
	"net/http"

	"github.com/mcoot/backlogbingo/internal/api/apierr"
	"github.com/mcoot/backlogbingo/internal/api/middleware"
	"github.com/mcoot/backlogbingo/internal/api/request"
	"github.com/mcoot/backlogbingo/internal/api/response"
	"github.com/mcoot/backlogbingo/internal/services/source"
)

// SourceHandler handles card source endpoints
type SourceHandler struct {
	sources *source.Service
}

// NewSourceHandler creates a new source handler
func NewSourceHandler(sources *source.Service) *SourceHandler {
	return &SourceHandler{sources: sources}
}

// Upload handles PUT /api/v1/source. The body is JSON unless the
// Content-Type names YAML.
func (h *SourceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	data, err := readDocument(w, r)
	if err != nil {
		WriteError(w, err)
		return
	}

	format := source.FormatFromContentType(r.Header.Get("Content-Type"))
	res, err := h.sources.Load(r.Context(), middleware.MustGetProfileID(r.Context()), data, format)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SourceLoadedFromResult(res))
}

// Fetch handles POST /api/v1/source/fetch
func (h *SourceHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	var req request.FetchSourceRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.URL == "" {
		WriteError(w, apierr.NewInvalidRequestError("url is required"))
		return
	}

	res, err := h.sources.Fetch(r.Context(), middleware.MustGetProfileID(r.Context()), req.URL)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SourceLoadedFromResult(res))
}

// Get handles GET /api/v1/source
func (h *SourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := h.sources.Summarize(r.Context(), middleware.MustGetProfileID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, summary)
}

// Delete handles DELETE /api/v1/source
func (h *SourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sources.Delete(r.Context(), middleware.MustGetProfileID(r.Context())); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
