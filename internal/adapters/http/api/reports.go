package api

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/okian/devbracket/internal/adapters/ingest"
	"github.com/okian/devbracket/internal/adapters/repository"
	service "github.com/okian/devbracket/internal/app"
	"github.com/okian/devbracket/internal/domain/cohort"
)

// multipartOverhead allows for form boundaries and headers around the file.
const multipartOverhead = 64 << 10

// ReportsHandler handles dataset uploads and report reads.
type ReportsHandler struct {
	deps           Dependencies
	maxUploadBytes int64
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps Dependencies, maxUploadBytes int64) *ReportsHandler {
	return &ReportsHandler{deps: deps, maxUploadBytes: maxUploadBytes}
}

// reportSummary is the short form of a stored report.
type reportSummary struct {
	ID        string            `json:"id"`
	Name      string            `json:"name,omitempty"`
	Digest    string            `json:"digest"`
	CreatedAt time.Time         `json:"created_at"`
	Duplicate bool              `json:"duplicate"`
	Users     cohort.UserCounts `json:"users"`
	Rows      cohort.RowCounts  `json:"rows"`
}

type reportResponse struct {
	reportSummary
	Report *cohort.Report `json:"report"`
}

func summarize(rec repository.Record, duplicate bool) reportSummary {
	return reportSummary{
		ID:        rec.ID,
		Name:      rec.Name,
		Digest:    rec.Digest,
		CreatedAt: rec.CreatedAt,
		Duplicate: duplicate,
		Users:     rec.Report.Users,
		Rows:      rec.Report.Rows,
	}
}

// HandleCreate handles POST /reports. The dataset is either the multipart
// form field "file" or the raw request body with ?format=csv|xlsx.
func (h *ReportsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)

	up, closeFn, err := h.upload(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer closeFn()

	res, err := h.deps.Analyze(r.Context(), up)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusCreated
	if res.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, summarize(res.Record, res.Duplicate))
}

func (h *ReportsHandler) upload(r *http.Request) (service.Upload, func(), error) {
	noop := func() {}
	query := r.URL.Query().Get("format")

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if query == "" {
			return service.Upload{}, noop, fmt.Errorf("%w: format query parameter is required for raw uploads", ErrBadRequest)
		}
		format, err := ingest.ParseFormat(query)
		if err != nil {
			return service.Upload{}, noop, err
		}
		return service.Upload{Name: r.URL.Query().Get("name"), Format: format, Body: r.Body}, noop, nil
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return service.Upload{}, noop, err
		}
		return service.Upload{}, noop, fmt.Errorf("%w: %w", ErrMissingFile, err)
	}
	closeFn := func() { _ = file.Close() }
	if r.MultipartForm != nil {
		form := r.MultipartForm
		closeFn = func() {
			_ = file.Close()
			_ = form.RemoveAll()
		}
	}

	var format ingest.Format
	if query != "" {
		format, err = ingest.ParseFormat(query)
	} else {
		format, err = ingest.FormatFromFilename(hdr.Filename)
	}
	if err != nil {
		closeFn()
		return service.Upload{}, noop, err
	}
	return service.Upload{Name: hdr.Filename, Format: format, Body: file}, closeFn, nil
}

// HandleList handles GET /reports.
func (h *ReportsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	recs, err := h.deps.Reports(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]reportSummary, len(recs))
	for i, rec := range recs {
		out[i] = summarize(rec, false)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /reports/{id}.
func (h *ReportsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.deps.Report(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{reportSummary: summarize(rec, false), Report: rec.Report})
}

// HandleUser handles GET /reports/{id}/users/{user}.
func (h *ReportsHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.deps.User(r.Context(), r.PathValue("id"), r.PathValue("user"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
