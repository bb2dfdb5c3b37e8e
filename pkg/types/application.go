package types

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusNotStarted                      ApplicationStatus = "NotStarted"
	ApplicationStatusFileUploaded                    ApplicationStatus = "FileUploaded"
	ApplicationStatusSubmittedAndHasRecentFileUpload ApplicationStatus = "SubmittedAndHasRecentFileUpload"
	ApplicationStatusSubmittedToRegulator            ApplicationStatus = "SubmittedToRegulator"
	ApplicationStatusAcceptedByRegulator             ApplicationStatus = "AcceptedByRegulator"
	ApplicationStatusRejectedByRegulator             ApplicationStatus = "RejectedByRegulator"
	ApplicationStatusApprovedByRegulator             ApplicationStatus = "ApprovedByRegulator"
	ApplicationStatusCancelledByRegulator            ApplicationStatus = "CancelledByRegulator"
	ApplicationStatusQueriedByRegulator              ApplicationStatus = "QueriedByRegulator"
)

type LastSubmittedFile struct {
	FileID        *uuid.UUID `json:"fileId,omitempty"`
	SubmittedBy   string     `json:"submittedByName,omitempty"`
	SubmittedDate *time.Time `json:"submittedDateTime,omitempty"`
}

// submittedFileID returns the last submitted file id when the application
// has been submitted and carries one.
func submittedFileID(isSubmitted bool, file *LastSubmittedFile) (uuid.UUID, bool) {
	if !isSubmitted || file == nil || file.FileID == nil {
		return uuid.Nil, false
	}
	return *file.FileID, true
}

type PackagingResubmissionApplicationDetails struct {
	SubmissionID                            *uuid.UUID         `json:"submissionId,omitempty"`
	IsSubmitted                             bool               `json:"isSubmitted"`
	IsResubmitted                           *bool              `json:"isResubmitted,omitempty"`
	IsResubmissionFeeViewed                 *bool              `json:"isResubmissionFeeViewed,omitempty"`
	ApplicationReferenceNumber              string             `json:"applicationReferenceNumber,omitempty"`
	LastSubmittedFile                       *LastSubmittedFile `json:"lastSubmittedFile,omitempty"`
	ResubmissionFeePaymentMethod            string             `json:"resubmissionFeePaymentMethod,omitempty"`
	ResubmissionApplicationSubmittedDate    *time.Time         `json:"resubmissionApplicationSubmittedDate,omitempty"`
	ResubmissionApplicationSubmittedComment string             `json:"resubmissionApplicationSubmittedComment,omitempty"`
	ApplicationStatus                       ApplicationStatus  `json:"applicationStatus"`
	SynapseResponse                         SynapseResponse    `json:"synapseResponse"`
}

// SubmittedFileID reports the file the synapse sync check applies to.
func (d *PackagingResubmissionApplicationDetails) SubmittedFileID() (uuid.UUID, bool) {
	return submittedFileID(d.IsSubmitted, d.LastSubmittedFile)
}

type SynapseResponse struct {
	IsFileSynced bool `json:"isFileSynced"`
}

type RegistrationApplicationDetails struct {
	SubmissionID                            *uuid.UUID                          `json:"submissionId,omitempty"`
	IsSubmitted                             bool                                `json:"isSubmitted"`
	IsResubmission                          *bool                               `json:"isResubmission,omitempty"`
	ApplicationReferenceNumber              string                              `json:"applicationReferenceNumber,omitempty"`
	RegistrationReferenceNumber             string                              `json:"registrationReferenceNumber,omitempty"`
	LastSubmittedFile                       *LastSubmittedFile                  `json:"lastSubmittedFile,omitempty"`
	RegistrationFeePaymentMethod            string                              `json:"registrationFeePaymentMethod,omitempty"`
	RegistrationApplicationSubmittedDate    *time.Time                          `json:"registrationApplicationSubmittedDate,omitempty"`
	RegistrationApplicationSubmittedComment string                              `json:"registrationApplicationSubmittedComment,omitempty"`
	ApplicationStatus                       ApplicationStatus                   `json:"applicationStatus"`
	RegistrationFeeCalculationDetails       []RegistrationFeeCalculationDetails `json:"registrationFeeCalculationDetails"`
}

func (d *RegistrationApplicationDetails) SubmittedFileID() (uuid.UUID, bool) {
	return submittedFileID(d.IsSubmitted, d.LastSubmittedFile)
}

type RegistrationFeeCalculationDetails struct {
	OrganisationID                             string `json:"organisationId"`
	OrganisationSize                           string `json:"organisationSize"`
	NumberOfSubsidiaries                       int    `json:"numberOfSubsidiaries"`
	NumberOfSubsidiariesBeingOnlineMarketPlace int    `json:"numberOfSubsidiariesBeingOnlineMarketPlace"`
	IsOnlineMarketplace                        bool   `json:"isOnlineMarketplace"`
	IsNewJoiner                                bool   `json:"isNewJoiner"`
	IsLateFee                                  bool   `json:"isLateFee"`
	NationID                                   int    `json:"nationId"`
}

// LateFeeDeadlines are the two instants the fee calculation service uses to
// decide whether a registration is late.
type LateFeeDeadlines struct {
	LargeProducer time.Time `form:"LargeProducerLateFeeDeadline" validate:"required"`
	SmallProducer time.Time `form:"SmallProducerLateFeeDeadline" validate:"required"`
}

type PackagingResubmissionMemberDetails struct {
	MemberCount                int    `json:"memberCount"`
	Reference                  string `json:"reference,omitempty"`
	ReferenceFieldNotAvailable bool   `json:"referenceFieldNotAvailable"`
	ReferenceNotAvailable      bool   `json:"referenceNotAvailable"`
}

// MemberResponse carries either the member details or the message the store
// returned when resubmission preconditions are not met.
type MemberResponse struct {
	Details      *PackagingResubmissionMemberDetails `json:"details,omitempty"`
	ErrorMessage string                              `json:"errorMessage,omitempty"`
}

func (r *MemberResponse) PreconditionFailed() bool {
	return r != nil && r.ErrorMessage != ""
}
