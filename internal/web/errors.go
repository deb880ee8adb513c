package web

// errors.go renders pipeline errors as JSON. Technical details are logged
// server-side with the request ID; clients get the mapped user message plus
// whatever structured detail the error carries (offending rows, bad header).

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/candidatehub/userimport/internal/core"
	"github.com/candidatehub/userimport/internal/logging"
)

// ErrorResponse is the JSON error envelope. Rows is present only for
// validation failures; Header/ValidHeaders only for header rejections.
type ErrorResponse struct {
	Error        string            `json:"error"`
	Action       string            `json:"action,omitempty"`
	Code         string            `json:"code"`
	Rows         []core.RowReport  `json:"rows,omitempty"`
	Header       string            `json:"header,omitempty"`
	ValidHeaders []string          `json:"validHeaders,omitempty"`
}

// respondError logs the technical error and writes the user-facing JSON.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request failed",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", msg.Code,
		"error", err.Error(),
	)

	resp := ErrorResponse{
		Error:  msg.Message,
		Action: msg.Action,
		Code:   msg.Code,
	}

	var headerErr *core.InvalidHeaderError
	var validationErr *core.ValidationFailedError
	switch {
	case errors.As(err, &headerErr):
		resp.Header = headerErr.Header
		resp.ValidHeaders = headerErr.Allowed
	case errors.As(err, &validationErr):
		resp.Rows = validationErr.Rows
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// respondBadRequest writes a simple 400 without consulting the error mapper.
func (s *Server) respondBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: "VAL000"})
}
