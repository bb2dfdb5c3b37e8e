package types

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeAntivirusCheck    EventType = "AntivirusCheck"
	EventTypeFileDownloadCheck EventType = "FileDownloadCheck"
)

// AntivirusCheckEvent binds a freshly minted file id to the submission the
// file belongs to. It is registered before any bytes reach the scanner.
type AntivirusCheckEvent struct {
	Type              EventType  `json:"type"`
	FileID            uuid.UUID  `json:"fileId"`
	FileName          string     `json:"fileName"`
	FileType          FileType   `json:"fileType"`
	BlobContainerName string     `json:"blobContainerName"`
	RegistrationSetID *uuid.UUID `json:"registrationSetId,omitempty"`
}

type FileDownloadCheckEvent struct {
	Type           EventType      `json:"type"`
	ContentScan    string         `json:"contentScan"`
	FileID         uuid.UUID      `json:"fileId"`
	FileName       string         `json:"fileName"`
	BlobName       string         `json:"blobName"`
	SubmissionID   uuid.UUID      `json:"submissionId"`
	SubmissionType SubmissionType `json:"submissionType"`
}

type SubmittedEvent struct {
	SubmissionID uuid.UUID `json:"submissionId"`
	FileID       uuid.UUID `json:"fileId"`
	FileName     string    `json:"fileName"`
	UserID       uuid.UUID `json:"userId"`
	Created      time.Time `json:"created"`
}

type RegulatorDecisionEvent struct {
	SubmissionID uuid.UUID `json:"submissionId"`
	FileID       uuid.UUID `json:"fileId"`
	Decision     string    `json:"decision"`
	Comment      string    `json:"comment,omitempty"`
	Created      time.Time `json:"created"`
}

type AntivirusCheckEventRecord struct {
	SubmissionID uuid.UUID `json:"submissionId"`
	FileID       uuid.UUID `json:"fileId"`
	FileName     string    `json:"fileName"`
	FileType     FileType  `json:"fileType"`
	Created      time.Time `json:"created"`
}

// SubmissionEvents is the bundle returned by the events-by-type endpoint.
type SubmissionEvents struct {
	SubmittedEvents         []SubmittedEvent            `json:"submittedEvents"`
	RegulatorDecisionEvents []RegulatorDecisionEvent    `json:"regulatorDecisionEvents"`
	AntivirusCheckEvents    []AntivirusCheckEventRecord `json:"antivirusCheckEvents"`
}

const HistoryStatusSubmitted = "Submitted"

type SubmissionHistory struct {
	SubmissionID             uuid.UUID `json:"submissionId"`
	FileID                   uuid.UUID `json:"fileId"`
	FileName                 string    `json:"fileName"`
	UserName                 string    `json:"userName"`
	SubmissionDate           time.Time `json:"submissionDate"`
	Status                   string    `json:"status"`
	DateofLatestStatusChange time.Time `json:"dateofLatestStatusChange"`
}
