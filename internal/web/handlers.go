package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/candidatehub/userimport/internal/core"
	"github.com/candidatehub/userimport/internal/logging"
)

// csvExtension is the extension schema applied to every upload through this
// endpoint: role assignment is fixed to Candidate, so a roleName column may
// never carry a value even if a config ever allows the header.
var csvExtension = core.NewSchema(core.FieldRule{Field: "roleName", Forbidden: true})

// handleBulkUpload accepts a multipart CSV upload and runs the bulk
// creation pipeline.
//
// Form fields:
//
//	file   - the CSV (required)
//	client - client UUID (required)
//	group  - group UUID (optional)
func (s *Server) handleBulkUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.limiter.Acquire(ctx); err != nil {
		s.respondError(w, r, err)
		return
	}
	defer s.limiter.Release()

	// Enforce the size cap before reading any of the body.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		s.respondError(w, r, err)
		return
	}

	client, err := uuid.Parse(r.FormValue("client"))
	if err != nil {
		s.respondBadRequest(w, "invalid or missing client id")
		return
	}

	var group uuid.NullUUID
	if g := r.FormValue("group"); g != "" {
		id, err := uuid.Parse(g)
		if err != nil {
			s.respondBadRequest(w, "invalid group id")
			return
		}
		group = uuid.NullUUID{UUID: id, Valid: true}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondBadRequest(w, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(ctx).Debug("bulk upload received",
		"file", header.Filename,
		"bytes", len(data),
		"client", client,
	)

	headers, users, err := decodeUsers(data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.BulkUpload(ctx, core.BulkUploadRequest{
		Headers:   headers,
		Users:     users,
		Client:    client,
		Group:     group,
		Extension: &csvExtension,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// statusFor maps pipeline errors to HTTP status codes. Validation problems
// and pre-insert rejections are client errors; only unclassified failures
// surface as 500s.
func statusFor(err error) int {
	var headerErr *core.InvalidHeaderError
	var validationErr *core.ValidationFailedError

	switch {
	case errors.As(err, &headerErr),
		errors.As(err, &validationErr),
		errors.Is(err, core.ErrEmptyInput),
		errors.Is(err, core.ErrRoleNotFound),
		errors.Is(err, core.ErrDuplicateUser):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrGroupNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyUploads):
		return http.StatusTooManyRequests
	default:
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusInternalServerError
	}
}
