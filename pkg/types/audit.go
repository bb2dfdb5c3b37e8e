package types

import "time"

type AuditPriority int

const (
	AuditPriorityLow    AuditPriority = 0
	AuditPriorityNormal AuditPriority = 1
	AuditPriorityHigh   AuditPriority = 2
)

// ProtectiveMonitoringEvent is one audit row. Ids are stored as text so rows
// survive malformed identifiers coming from upstream.
type ProtectiveMonitoringEvent struct {
	ID              string        `db:"id" json:"id"`
	SessionID       string        `db:"session_id" json:"sessionId"`
	Component       string        `db:"component" json:"component"`
	PmcCode         string        `db:"pmc_code" json:"pmcCode"`
	Priority        AuditPriority `db:"priority" json:"priority"`
	TransactionCode string        `db:"transaction_code" json:"transactionCode"`
	Message         string        `db:"message" json:"message"`
	AdditionalInfo  string        `db:"additional_info" json:"additionalInfo"`
	UserID          string        `db:"user_id" json:"userId"`
	OrganisationID  string        `db:"organisation_id" json:"organisationId"`
	SubmissionID    string        `db:"submission_id" json:"submissionId"`
	FileID          string        `db:"file_id" json:"fileId"`
	CreatedAt       time.Time     `db:"created_at" json:"createdAt"`
}
