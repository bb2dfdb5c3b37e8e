package server

import (
	"encoding/json"
	"net/http"

	"submissionsbff/pkg/types"

	"github.com/google/uuid"
)

func submissionIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("submissionId"))
	if err != nil {
		verr := newValidationErrors()
		verr.add("submissionId", "must be a valid uuid")
		return uuid.Nil, verr
	}
	return id, nil
}

// submissionRequest reads the caller and the submission id shared by every
// /submissions/:submissionId route.
func (s *Service) submissionRequest(w http.ResponseWriter, r *http.Request) (types.Caller, uuid.UUID, bool) {
	caller, err := types.CallerFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err, "failed to read caller")
		return types.Caller{}, uuid.Nil, false
	}

	submissionID, err := submissionIDParam(r)
	if err != nil {
		s.writeError(w, r, err, "invalid submission id")
		return types.Caller{}, uuid.Nil, false
	}

	return caller, submissionID, true
}

func (s *Service) handleGetSubmissions(w http.ResponseWriter, r *http.Request) {
	caller, err := types.CallerFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err, "failed to read caller")
		return
	}

	submissions, err := s.submissions.Submissions(r.Context(), caller, r.URL.RawQuery)
	if err != nil {
		s.writeError(w, r, err, "failed to fetch submissions")
		return
	}

	s.writeJSON(w, http.StatusOK, submissions)
}

func (s *Service) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	caller, submissionID, ok := s.submissionRequest(w, r)
	if !ok {
		return
	}

	submission, err := s.submissions.Submission(r.Context(), caller, submissionID)
	if err != nil {
		s.writeError(w, r, err, "failed to fetch submission")
		return
	}

	s.writeJSON(w, http.StatusOK, submission)
}

func (s *Service) handleGetProducerValidations(w http.ResponseWriter, r *http.Request) {
	caller, submissionID, ok := s.submissionRequest(w, r)
	if !ok {
		return
	}

	rows, err := s.submissions.ProducerValidations(r.Context(), caller, submissionID)
	if err != nil {
		s.writeError(w, r, err, "failed to fetch producer validations")
		return
	}

	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Service) handleGetProducerWarningValidations(w http.ResponseWriter, r *http.Request) {
	caller, submissionID, ok := s.submissionRequest(w, r)
	if !ok {
		return
	}

	rows, err := s.submissions.ProducerWarningValidations(r.Context(), caller, submissionID)
	if err != nil {
		s.writeError(w, r, err, "failed to fetch producer warning validations")
		return
	}

	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Service) handleGetOrganisationDetailsErrors(w http.ResponseWriter, r *http.Request) {
	caller, submissionID, ok := s.submissionRequest(w, r)
	if !ok {
		return
	}

	rows, err := s.submissions.OrganisationDetailsErrors(r.Context(), caller, submissionID)
	if err != nil {
		s.writeError(w, r, err, "failed to fetch organisation details errors")
		return
	}

	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Service) handlePostSubmit(w http.ResponseWriter, r *http.Request) {
	caller, submissionID, ok := s.submissionRequest(w, r)
	if !ok {
		return
	}

	var payload types.SubmitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		verr := newValidationErrors()
		verr.add("body", "must be a JSON submit request")
		s.writeError(w, r, verr, "failed to decode submit request")
		return
	}

	if payload.FileID == uuid.Nil {
		verr := newValidationErrors()
		verr.add("fileId", "is required")
		s.writeError(w, r, verr, "invalid submit request")
		return
	}

	if payload.SubmittedBy == "" {
		payload.SubmittedBy = caller.DisplayName()
	}

	if err := s.submissions.Submit(r.Context(), caller, submissionID, payload); err != nil {
		s.writeError(w, r, err, "failed to submit submission")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleGetSubmissionHistory(w http.ResponseWriter, r *http.Request) {
	caller, submissionID, ok := s.submissionRequest(w, r)
	if !ok {
		return
	}

	history, err := s.history.SubmissionHistory(r.Context(), caller, submissionID, r.URL.RawQuery)
	if err != nil {
		s.writeError(w, r, err, "failed to build submission history")
		return
	}

	s.writeJSON(w, http.StatusOK, history)
}
