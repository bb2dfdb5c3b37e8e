package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"submissionsbff/internal/services"
	"submissionsbff/pkg/types"
)

const infectedFileMessage = "The file was found but it was flagged as infected. It will not be downloaded."

type messageResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("failed to write response body")
	}
}

func (s *Service) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, messageResponse{Message: message})
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	s.writeMessage(w, http.StatusInternalServerError, "internal server error")
}

func (s *Service) validationError(w http.ResponseWriter, fields map[string]string) {
	s.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "validation failed", Errors: fields})
}

// writeError maps a service error onto a response. Unknown errors are logged
// and answered with a generic 500.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var verr *validationErrors

	switch {
	case errors.As(err, &verr):
		s.validationError(w, verr.fields)
	case errors.Is(err, types.ErrSubmissionNotFound), errors.Is(err, types.ErrBlobNotFound):
		s.writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, types.ErrUnsupportedFileType), errors.Is(err, services.ErrSubmissionIDRequired):
		s.writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.WithError(err).WithField("path", r.URL.Path).Error(msg)
		s.internalServerError(w)
	}
}
