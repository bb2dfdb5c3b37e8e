package services

import (
	"context"

	"submissionsbff/internal/metrics"
	"submissionsbff/pkg/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const auditComponent = "submissions-bff"

// Protective monitoring codes recorded against file activity.
const (
	pmcFileUpload   = "0212"
	pmcFileDownload = "0213"
)

type AuditRecorder interface {
	RecordEvent(ctx context.Context, event types.ProtectiveMonitoringEvent) error
}

// LogAuditRecorder writes events to the log. It stands in when no database
// is configured.
type LogAuditRecorder struct {
	logger logrus.FieldLogger
}

func NewLogAuditRecorder(logger logrus.FieldLogger) *LogAuditRecorder {
	return &LogAuditRecorder{logger: logger}
}

func (r *LogAuditRecorder) RecordEvent(_ context.Context, event types.ProtectiveMonitoringEvent) error {
	r.logger.WithFields(logrus.Fields{
		"pmc_code":         event.PmcCode,
		"priority":         event.Priority,
		"transaction_code": event.TransactionCode,
		"user_id":          event.UserID,
		"organisation_id":  event.OrganisationID,
		"submission_id":    event.SubmissionID,
		"file_id":          event.FileID,
		"additional_info":  event.AdditionalInfo,
	}).Info(event.Message)
	return nil
}

// Auditor records protective monitoring events on a best effort basis. A
// failure is logged and counted but never reaches the caller.
type Auditor struct {
	recorder AuditRecorder
	logger   logrus.FieldLogger
	metrics  *metrics.Metrics
}

func NewAuditor(recorder AuditRecorder, logger logrus.FieldLogger, m *metrics.Metrics) *Auditor {
	return &Auditor{recorder: recorder, logger: logger, metrics: m}
}

type auditEntry struct {
	pmcCode         string
	transactionCode string
	message         string
	additionalInfo  string
	submissionID    uuid.UUID
	fileID          uuid.UUID
}

func (a *Auditor) record(ctx context.Context, caller types.Caller, entry auditEntry) {
	event := types.ProtectiveMonitoringEvent{
		SessionID:       uuid.NewString(),
		Component:       auditComponent,
		PmcCode:         entry.pmcCode,
		Priority:        types.AuditPriorityNormal,
		TransactionCode: entry.transactionCode,
		Message:         entry.message,
		AdditionalInfo:  entry.additionalInfo,
		UserID:          caller.UserID.String(),
		OrganisationID:  caller.OrganisationID.String(),
		SubmissionID:    entry.submissionID.String(),
		FileID:          entry.fileID.String(),
	}

	if err := a.recorder.RecordEvent(ctx, event); err != nil {
		a.metrics.AuditFailuresTotal.Inc()
		a.logger.WithError(err).WithFields(logrus.Fields{
			"transaction_code": entry.transactionCode,
			"submission_id":    entry.submissionID,
			"file_id":          entry.fileID,
		}).Error("failed to record protective monitoring event")
	}
}
