package services

import (
	"context"
	"fmt"

	"submissionsbff/internal/metrics"
	"submissionsbff/pkg/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type DownloadStore interface {
	FileBlobName(ctx context.Context, caller types.Caller, fileID uuid.UUID, submissionType types.SubmissionType) (string, error)
	RecordFileDownloadCheck(ctx context.Context, caller types.Caller, submissionID uuid.UUID, event types.FileDownloadCheckEvent) error
}

type BlobReader interface {
	ContainerForDownload(submissionType types.SubmissionType) string
	Download(ctx context.Context, container, blobName string) ([]byte, error)
}

type FileScanner interface {
	ScanFile(ctx context.Context, details types.FileDetails, content []byte) (string, error)
}

type DownloadRequest struct {
	FileID         uuid.UUID
	FileName       string
	SubmissionType types.SubmissionType
	SubmissionID   uuid.UUID
}

type DownloadResult struct {
	Content    []byte
	ScanResult string
}

// Clean reports whether the content may be released to the caller.
func (r *DownloadResult) Clean() bool {
	return r.ScanResult == types.ScanResultClean
}

type DownloadService struct {
	logger    logrus.FieldLogger
	store     DownloadStore
	blobs     BlobReader
	antivirus FileScanner
	auditor   *Auditor
	metrics   *metrics.Metrics
	opts      UploadOptions
}

func NewDownloadService(
	logger logrus.FieldLogger,
	store DownloadStore,
	blobs BlobReader,
	antivirus FileScanner,
	auditor *Auditor,
	m *metrics.Metrics,
	opts UploadOptions,
) *DownloadService {
	return &DownloadService{
		logger:    logger,
		store:     store,
		blobs:     blobs,
		antivirus: antivirus,
		auditor:   auditor,
		metrics:   m,
		opts:      opts,
	}
}

// DownloadFile fetches a stored file and scans it again before anything is
// released. Every attempt is recorded against the submission whatever the
// verdict; gating on the verdict is left to the caller.
func (s *DownloadService) DownloadFile(ctx context.Context, caller types.Caller, req DownloadRequest) (*DownloadResult, error) {
	entry := s.logger.WithFields(logrus.Fields{
		"submission_id": req.SubmissionID,
		"file_id":       req.FileID,
	})

	container := s.blobs.ContainerForDownload(req.SubmissionType)

	blobName, err := s.store.FileBlobName(ctx, caller, req.FileID, req.SubmissionType)
	if err != nil {
		entry.WithError(err).Error("failed to resolve blob name")
		return nil, fmt.Errorf("resolve blob name: %w", err)
	}

	content, err := s.blobs.Download(ctx, container, blobName)
	if err != nil {
		entry.WithError(err).WithField("blob_name", blobName).Error("failed to download blob")
		return nil, fmt.Errorf("download blob: %w", err)
	}

	fileName := types.TruncateFileName(req.FileName, s.opts.MaxFileNameLength)
	collection := req.SubmissionType.DisplayName() + s.opts.CollectionSuffix
	details := types.NewFileDetails(s.opts.ServiceTag, collection, req.FileID, fileName, caller)

	verdict, err := s.antivirus.ScanFile(ctx, details, content)
	if err != nil {
		entry.WithError(err).Error("failed to scan file for download")
		return nil, fmt.Errorf("scan file: %w", err)
	}

	result := &DownloadResult{Content: content, ScanResult: verdict}
	s.metrics.ScanResult(result.Clean())

	err = s.store.RecordFileDownloadCheck(ctx, caller, req.SubmissionID, types.FileDownloadCheckEvent{
		ContentScan:    verdict,
		FileID:         req.FileID,
		FileName:       fileName,
		BlobName:       blobName,
		SubmissionID:   req.SubmissionID,
		SubmissionType: req.SubmissionType,
	})
	if err != nil {
		entry.WithError(err).Error("failed to record file download check")
		return nil, fmt.Errorf("record file download check: %w", err)
	}

	s.auditor.record(ctx, caller, auditEntry{
		pmcCode:         pmcFileDownload,
		transactionCode: "DownloadFile",
		message:         "file downloaded",
		additionalInfo:  fmt.Sprintf("fileName=%s scanResult=%s", fileName, verdict),
		submissionID:    req.SubmissionID,
		fileID:          req.FileID,
	})

	return result, nil
}
