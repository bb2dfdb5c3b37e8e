package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"submissionsbff/internal/services"
	"submissionsbff/pkg/types"

	"github.com/google/uuid"
)

type uploadHeaders struct {
	FileName           string `header:"FileName" validate:"required"`
	SubmissionType     string `header:"SubmissionType" validate:"required,submissiontype"`
	SubmissionSubType  string `header:"SubmissionSubType" validate:"omitempty,submissionsubtype"`
	SubmissionPeriod   string `header:"SubmissionPeriod" validate:"required"`
	SubmissionID       string `header:"SubmissionId" validate:"omitempty,guid"`
	RegistrationSetID  string `header:"RegistrationSetId" validate:"omitempty,guid"`
	ComplianceSchemeID string `header:"ComplianceSchemeId" validate:"omitempty,guid"`
}

type newSubmissionUploadHeaders struct {
	FileName           string `header:"FileName" validate:"required"`
	SubmissionPeriod   string `header:"SubmissionPeriod"`
	ComplianceSchemeID string `header:"ComplianceSchemeId" validate:"omitempty,guid"`
}

type uploadResponse struct {
	SubmissionID uuid.UUID `json:"submissionId"`
}

func optionalUUID(value string) *uuid.UUID {
	if value == "" {
		return nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil
	}
	return &id
}

func (s *Service) readUploadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)

	content, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	if len(content) == 0 {
		verr := newValidationErrors()
		verr.add("body", "is required")
		return nil, verr
	}

	return content, nil
}

func (s *Service) uploadRequestFromHeaders(h http.Header) (services.UploadRequest, error) {
	headers := uploadHeaders{
		FileName:           h.Get("FileName"),
		SubmissionType:     h.Get("SubmissionType"),
		SubmissionSubType:  h.Get("SubmissionSubType"),
		SubmissionPeriod:   h.Get("SubmissionPeriod"),
		SubmissionID:       h.Get("SubmissionId"),
		RegistrationSetID:  h.Get("RegistrationSetId"),
		ComplianceSchemeID: h.Get("ComplianceSchemeId"),
	}

	if err := validateStruct(headers); err != nil {
		return services.UploadRequest{}, err
	}

	req := services.UploadRequest{
		SubmissionType:     types.SubmissionType(headers.SubmissionType),
		FileName:           headers.FileName,
		SubmissionPeriod:   headers.SubmissionPeriod,
		SubmissionID:       optionalUUID(headers.SubmissionID),
		RegistrationSetID:  optionalUUID(headers.RegistrationSetID),
		ComplianceSchemeID: optionalUUID(headers.ComplianceSchemeID),
	}

	if headers.SubmissionSubType != "" {
		subType := types.SubmissionSubType(headers.SubmissionSubType)
		req.SubmissionSubType = &subType
	}

	return req, nil
}

func newSubmissionUploadRequest(h http.Header) (services.UploadRequest, error) {
	headers := newSubmissionUploadHeaders{
		FileName:           h.Get("FileName"),
		SubmissionPeriod:   h.Get("SubmissionPeriod"),
		ComplianceSchemeID: h.Get("ComplianceSchemeId"),
	}

	if err := validateStruct(headers); err != nil {
		return services.UploadRequest{}, err
	}

	return services.UploadRequest{
		FileName:           headers.FileName,
		SubmissionPeriod:   headers.SubmissionPeriod,
		ComplianceSchemeID: optionalUUID(headers.ComplianceSchemeID),
	}, nil
}

type uploadFunc func(r *http.Request, caller types.Caller, req services.UploadRequest) (uuid.UUID, error)

func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request, req services.UploadRequest, upload uploadFunc) {
	caller, err := types.CallerFromContext(r.Context())
	if err != nil {
		s.writeError(w, r, err, "failed to read caller")
		return
	}

	content, err := s.readUploadBody(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeMessage(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, err, "failed to read upload body")
		return
	}
	req.Content = content

	submissionID, err := upload(r, caller, req)
	if err != nil {
		s.writeError(w, r, err, "failed to upload file")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/submissions/%s", apiPrefix, submissionID))
	s.writeJSON(w, http.StatusCreated, uploadResponse{SubmissionID: submissionID})
}

func (s *Service) handlePostFileUpload(w http.ResponseWriter, r *http.Request) {
	req, err := s.uploadRequestFromHeaders(r.Header)
	if err != nil {
		s.writeError(w, r, err, "failed to read upload headers")
		return
	}

	s.handleUpload(w, r, req, func(r *http.Request, caller types.Caller, req services.UploadRequest) (uuid.UUID, error) {
		return s.uploads.UploadFile(r.Context(), caller, req)
	})
}

func (s *Service) handlePostFileUploadSubsidiary(w http.ResponseWriter, r *http.Request) {
	req, err := newSubmissionUploadRequest(r.Header)
	if err != nil {
		s.writeError(w, r, err, "failed to read upload headers")
		return
	}

	s.handleUpload(w, r, req, func(r *http.Request, caller types.Caller, req services.UploadRequest) (uuid.UUID, error) {
		return s.uploads.UploadSubsidiaryFile(r.Context(), caller, req)
	})
}

func (s *Service) handlePostFileUploadAccreditation(w http.ResponseWriter, r *http.Request) {
	req, err := newSubmissionUploadRequest(r.Header)
	if err != nil {
		s.writeError(w, r, err, "failed to read upload headers")
		return
	}

	s.handleUpload(w, r, req, func(r *http.Request, caller types.Caller, req services.UploadRequest) (uuid.UUID, error) {
		return s.uploads.UploadAccreditationFile(r.Context(), caller, req)
	})
}
