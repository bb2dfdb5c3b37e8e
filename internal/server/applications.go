package server

import (
	"net/http"

	"submissionsbff/pkg/types"
)

func (s *Service) handleGetPackagingResubmissionApplicationDetails(w http.ResponseWriter, r *http.Request) {
	caller, err := types.CallerFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err, "failed to read caller")
		return
	}

	details, err := s.applications.PackagingResubmissionApplicationDetails(r.Context(), caller, r.URL.RawQuery)
	if err != nil {
		s.writeError(w, r, err, "failed to fetch packaging resubmission application details")
		return
	}

	if details == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.writeJSON(w, http.StatusOK, details)
}

func (s *Service) handleGetRegistrationApplicationDetails(w http.ResponseWriter, r *http.Request) {
	caller, err := types.CallerFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err, "failed to read caller")
		return
	}

	var deadlines types.LateFeeDeadlines
	if err := s.decodeQuery(r.URL.Query(), &deadlines); err != nil {
		s.writeError(w, r, err, "failed to decode late fee deadlines")
		return
	}

	details, err := s.applications.RegistrationApplicationDetails(r.Context(), caller, r.URL.RawQuery, deadlines)
	if err != nil {
		s.writeError(w, r, err, "failed to fetch registration application details")
		return
	}

	if details == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.writeJSON(w, http.StatusOK, details)
}

func (s *Service) handleGetPackagingResubmissionMemberDetails(w http.ResponseWriter, r *http.Request) {
	caller, submissionID, ok := s.submissionRequest(w, r)
	if !ok {
		return
	}

	complianceSchemeID := r.URL.Query().Get("ComplianceSchemeId")

	resp, err := s.applications.PackagingResubmissionMemberDetails(r.Context(), caller, submissionID, complianceSchemeID)
	if err != nil {
		s.writeError(w, r, err, "failed to fetch packaging resubmission member details")
		return
	}

	switch {
	case resp == nil:
		w.WriteHeader(http.StatusNoContent)
	case resp.PreconditionFailed():
		s.writeMessage(w, http.StatusPreconditionRequired, resp.ErrorMessage)
	case resp.Details == nil:
		w.WriteHeader(http.StatusNoContent)
	default:
		s.writeJSON(w, http.StatusOK, resp.Details)
	}
}
