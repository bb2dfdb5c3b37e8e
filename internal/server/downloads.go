package server

import (
	"mime"
	"net/http"
	"strconv"

	"submissionsbff/internal/services"
	"submissionsbff/pkg/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type downloadQuery struct {
	FileID         string `form:"fileId" validate:"required,guid"`
	FileName       string `form:"fileName" validate:"required"`
	SubmissionType string `form:"submissionType" validate:"required,submissiontype"`
	SubmissionID   string `form:"submissionId" validate:"required,guid"`
}

func (s *Service) handleGetFileDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := types.CallerFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err, "failed to read caller")
		return
	}

	var query downloadQuery
	if err := s.decodeQuery(r.URL.Query(), &query); err != nil {
		s.writeError(w, r, err, "failed to decode download query")
		return
	}

	result, err := s.downloads.DownloadFile(ctx, caller, services.DownloadRequest{
		FileID:         uuid.MustParse(query.FileID),
		FileName:       query.FileName,
		SubmissionType: types.SubmissionType(query.SubmissionType),
		SubmissionID:   uuid.MustParse(query.SubmissionID),
	})
	if err != nil {
		s.writeError(w, r, err, "failed to download file")
		return
	}

	if !result.Clean() {
		s.logger.WithFields(logrus.Fields{
			"file_id":     query.FileID,
			"scan_result": result.ScanResult,
		}).Warn("refused download of file that did not scan clean")
		s.writeMessage(w, http.StatusForbidden, infectedFileMessage)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": query.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Content)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(result.Content); err != nil {
		s.logger.WithError(err).Error("failed to write file content")
	}
}
