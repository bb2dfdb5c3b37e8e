package services

import (
	"context"
	"fmt"

	"submissionsbff/internal/metrics"
	"submissionsbff/pkg/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UploadStore interface {
	CreateSubmission(ctx context.Context, caller types.Caller, submission types.CreateSubmission) error
	RegisterAntivirusCheck(ctx context.Context, caller types.Caller, submissionID uuid.UUID, event types.AntivirusCheckEvent) (uuid.UUID, error)
}

type FileSender interface {
	SendFile(ctx context.Context, details types.FileDetails, content []byte) error
}

type UploadContainers interface {
	ContainerForUpload(fileType types.FileType) string
}

type UploadOptions struct {
	MaxFileNameLength int
	ServiceTag        string
	CollectionSuffix  string
}

type UploadRequest struct {
	Content            []byte
	SubmissionType     types.SubmissionType
	SubmissionSubType  *types.SubmissionSubType
	FileName           string
	SubmissionPeriod   string
	SubmissionID       *uuid.UUID
	RegistrationSetID  *uuid.UUID
	ComplianceSchemeID *uuid.UUID
}

type UploadService struct {
	logger     logrus.FieldLogger
	store      UploadStore
	antivirus  FileSender
	containers UploadContainers
	dispatcher *Dispatcher
	auditor    *Auditor
	metrics    *metrics.Metrics
	opts       UploadOptions
}

func NewUploadService(
	logger logrus.FieldLogger,
	store UploadStore,
	antivirus FileSender,
	containers UploadContainers,
	dispatcher *Dispatcher,
	auditor *Auditor,
	m *metrics.Metrics,
	opts UploadOptions,
) *UploadService {
	return &UploadService{
		logger:     logger,
		store:      store,
		antivirus:  antivirus,
		containers: containers,
		dispatcher: dispatcher,
		auditor:    auditor,
		metrics:    m,
		opts:       opts,
	}
}

// UploadFile accepts a packaging or registration file and returns the id of
// the submission it was attached to. The first file of a lineage (a Pom or
// CompanyDetails file with no submission id) creates the submission; every
// other file joins the submission named by the request.
func (s *UploadService) UploadFile(ctx context.Context, caller types.Caller, req UploadRequest) (uuid.UUID, error) {
	fileType, err := types.FileTypeFor(req.SubmissionType, req.SubmissionSubType)
	if err != nil {
		return uuid.Nil, err
	}

	var submissionID uuid.UUID
	switch {
	case startsLineage(fileType) && req.SubmissionID == nil:
		submissionID, err = s.createSubmission(ctx, caller, req)
		if err != nil {
			return uuid.Nil, err
		}
	case req.SubmissionID != nil:
		submissionID = *req.SubmissionID
	default:
		return uuid.Nil, fmt.Errorf("%w: %s files must name the submission they belong to", ErrSubmissionIDRequired, fileType)
	}

	return s.attachFile(ctx, caller, submissionID, fileType, req)
}

// UploadSubsidiaryFile always starts a new subsidiary submission.
func (s *UploadService) UploadSubsidiaryFile(ctx context.Context, caller types.Caller, req UploadRequest) (uuid.UUID, error) {
	req.SubmissionType = types.SubmissionTypeSubsidiary
	return s.uploadToNewSubmission(ctx, caller, types.FileTypeSubsidiaries, req)
}

// UploadAccreditationFile always starts a new accreditation submission.
func (s *UploadService) UploadAccreditationFile(ctx context.Context, caller types.Caller, req UploadRequest) (uuid.UUID, error) {
	req.SubmissionType = types.SubmissionTypeAccreditation
	return s.uploadToNewSubmission(ctx, caller, types.FileTypeAccreditation, req)
}

func (s *UploadService) uploadToNewSubmission(ctx context.Context, caller types.Caller, fileType types.FileType, req UploadRequest) (uuid.UUID, error) {
	submissionID, err := s.createSubmission(ctx, caller, req)
	if err != nil {
		return uuid.Nil, err
	}
	return s.attachFile(ctx, caller, submissionID, fileType, req)
}

func startsLineage(fileType types.FileType) bool {
	return fileType == types.FileTypePom || fileType == types.FileTypeCompanyDetails
}

func (s *UploadService) createSubmission(ctx context.Context, caller types.Caller, req UploadRequest) (uuid.UUID, error) {
	submission := types.CreateSubmission{
		ID:                 uuid.New(),
		DataSourceType:     types.DataSourceTypeFile,
		SubmissionType:     req.SubmissionType,
		SubmissionPeriod:   req.SubmissionPeriod,
		ComplianceSchemeID: req.ComplianceSchemeID,
	}

	if err := s.store.CreateSubmission(ctx, caller, submission); err != nil {
		s.logger.WithError(err).WithField("submission_type", req.SubmissionType).Error("failed to create submission")
		return uuid.Nil, fmt.Errorf("create submission: %w", err)
	}

	return submission.ID, nil
}

// attachFile registers the file against submissionID and hands its bytes to
// the scanner. The scan is not awaited.
func (s *UploadService) attachFile(ctx context.Context, caller types.Caller, submissionID uuid.UUID, fileType types.FileType, req UploadRequest) (uuid.UUID, error) {
	fileName := types.TruncateFileName(req.FileName, s.opts.MaxFileNameLength)

	fileID, err := s.store.RegisterAntivirusCheck(ctx, caller, submissionID, types.AntivirusCheckEvent{
		FileName:          fileName,
		FileType:          fileType,
		BlobContainerName: s.containers.ContainerForUpload(fileType),
		RegistrationSetID: req.RegistrationSetID,
	})
	if err != nil {
		s.logger.WithError(err).WithField("submission_id", submissionID).Error("failed to register antivirus check")
		return uuid.Nil, fmt.Errorf("register antivirus check: %w", err)
	}

	s.auditor.record(ctx, caller, auditEntry{
		pmcCode:         pmcFileUpload,
		transactionCode: "UploadFile",
		message:         "file uploaded",
		additionalInfo:  fmt.Sprintf("fileName=%s fileType=%s", fileName, fileType),
		submissionID:    submissionID,
		fileID:          fileID,
	})

	collection := req.SubmissionType.DisplayName() + s.opts.CollectionSuffix
	details := types.NewFileDetails(s.opts.ServiceTag, collection, fileID, fileName, caller)
	content := req.Content

	s.dispatcher.Go(ctx, logrus.Fields{"submission_id": submissionID, "file_id": fileID}, func(ctx context.Context) error {
		return s.antivirus.SendFile(ctx, details, content)
	})

	s.metrics.UploadsTotal.WithLabelValues(string(req.SubmissionType)).Inc()

	return submissionID, nil
}
