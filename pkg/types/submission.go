package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SubmissionType string

const (
	SubmissionTypeProducer                         SubmissionType = "Producer"
	SubmissionTypeRegistration                     SubmissionType = "Registration"
	SubmissionTypeSubsidiary                       SubmissionType = "Subsidiary"
	SubmissionTypeCompaniesHouse                   SubmissionType = "CompaniesHouse"
	SubmissionTypeRegistrationFeePayment           SubmissionType = "RegistrationFeePayment"
	SubmissionTypeRegistrationApplicationSubmitted SubmissionType = "RegistrationApplicationSubmitted"
	SubmissionTypeAccreditation                    SubmissionType = "Accreditation"
)

var submissionTypeDisplayNames = map[SubmissionType]string{
	SubmissionTypeProducer:                         "pom",
	SubmissionTypeRegistration:                     "registration",
	SubmissionTypeSubsidiary:                       "subsidiary",
	SubmissionTypeCompaniesHouse:                   "companieshouse",
	SubmissionTypeRegistrationFeePayment:           "registrationfeepayment",
	SubmissionTypeRegistrationApplicationSubmitted: "registrationapplicationsubmitted",
	SubmissionTypeAccreditation:                    "accreditation",
}

// ParseSubmissionType accepts the exact enum name only.
func ParseSubmissionType(s string) (SubmissionType, error) {
	t := SubmissionType(s)
	if _, ok := submissionTypeDisplayNames[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSubmissionType, s)
	}
	return t, nil
}

// DisplayName is the short name used as the antivirus collection.
func (t SubmissionType) DisplayName() string {
	return submissionTypeDisplayNames[t]
}

type SubmissionSubType string

const (
	SubmissionSubTypeCompanyDetails SubmissionSubType = "CompanyDetails"
	SubmissionSubTypeBrands         SubmissionSubType = "Brands"
	SubmissionSubTypePartnerships   SubmissionSubType = "Partnerships"
)

func ParseSubmissionSubType(s string) (SubmissionSubType, error) {
	switch t := SubmissionSubType(s); t {
	case SubmissionSubTypeCompanyDetails, SubmissionSubTypeBrands, SubmissionSubTypePartnerships:
		return t, nil
	}
	return "", fmt.Errorf("unknown submission sub type %q", s)
}

type FileType string

const (
	FileTypePom            FileType = "Pom"
	FileTypeCompanyDetails FileType = "CompanyDetails"
	FileTypeBrands         FileType = "Brands"
	FileTypePartnerships   FileType = "Partnerships"
	FileTypeSubsidiaries   FileType = "Subsidiaries"
	FileTypeCompaniesHouse FileType = "CompaniesHouse"
	FileTypeAccreditation  FileType = "Accreditation"
)

// FileTypeFor maps a submission type and optional sub type to the file type
// recorded against an uploaded file. Producer submissions are always Pom;
// every other type takes the file type named by its sub type.
func FileTypeFor(submissionType SubmissionType, subType *SubmissionSubType) (FileType, error) {
	if submissionType == SubmissionTypeProducer {
		return FileTypePom, nil
	}

	if subType == nil || *subType == "" {
		return "", fmt.Errorf("%w: %s submissions require a sub type", ErrUnsupportedFileType, submissionType)
	}

	switch ft := FileType(*subType); ft {
	case FileTypeCompanyDetails, FileTypeBrands, FileTypePartnerships:
		return ft, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, *subType)
}

type DataSourceType string

const DataSourceTypeFile DataSourceType = "File"

type CreateSubmission struct {
	ID                 uuid.UUID      `json:"id"`
	DataSourceType     DataSourceType `json:"dataSourceType"`
	SubmissionType     SubmissionType `json:"submissionType"`
	SubmissionPeriod   string         `json:"submissionPeriod"`
	ComplianceSchemeID *uuid.UUID     `json:"complianceSchemeId,omitempty"`
}

type SubmitPayload struct {
	FileID             uuid.UUID `json:"fileId"`
	SubmittedBy        string    `json:"submittedBy,omitempty"`
	AppReferenceNumber *string   `json:"appReferenceNumber,omitempty"`
}

// Submission is one of *PomSubmission, *RegistrationSubmission,
// *SubsidiarySubmission or *BasicSubmission.
type Submission interface {
	Base() *SubmissionBase
	isSubmission()
}

type SubmissionBase struct {
	ID                 uuid.UUID      `json:"id"`
	Type               SubmissionType `json:"type"`
	SubmissionPeriod   string         `json:"submissionPeriod"`
	OrganisationID     uuid.UUID      `json:"organisationId"`
	ComplianceSchemeID *uuid.UUID     `json:"complianceSchemeId,omitempty"`
	ValidationPass     bool           `json:"validationPass"`
	IsSubmitted        bool           `json:"isSubmitted"`
	Errors             []string       `json:"errors"`
	Created            time.Time      `json:"created"`
}

func (b *SubmissionBase) Base() *SubmissionBase { return b }
func (*SubmissionBase) isSubmission()           {}

type UploadedFileInformation struct {
	FileID         uuid.UUID `json:"fileId"`
	FileName       string    `json:"fileName"`
	FileUploadDate time.Time `json:"fileUploadDateTime"`
	UploadedBy     uuid.UUID `json:"uploadedBy"`
	BlobName       string    `json:"blobName,omitempty"`
}

type SubmittedFileInformation struct {
	FileID        uuid.UUID `json:"fileId"`
	FileName      string    `json:"fileName"`
	SubmittedBy   uuid.UUID `json:"submittedBy"`
	SubmittedDate time.Time `json:"submittedDateTime"`
}

type PomSubmission struct {
	SubmissionBase
	HasWarnings           bool                      `json:"hasWarnings"`
	LastUploadedValidFile *UploadedFileInformation  `json:"lastUploadedValidFile,omitempty"`
	LastSubmittedFile     *SubmittedFileInformation `json:"lastSubmittedFile,omitempty"`
}

type RegistrationUploadedFiles struct {
	CompanyDetailsFileName string     `json:"companyDetailsFileName"`
	CompanyDetailsFileID   uuid.UUID  `json:"companyDetailsFileId"`
	BrandsFileName         string     `json:"brandsFileName,omitempty"`
	PartnershipsFileName   string     `json:"partnershipsFileName,omitempty"`
	UploadedBy             uuid.UUID  `json:"registrationUploadedBy"`
	UploadDate             *time.Time `json:"registrationUploadDatetime,omitempty"`
}

type RegistrationSubmittedFiles struct {
	CompanyDetailsFileID uuid.UUID  `json:"companyDetailsFileId"`
	SubmittedBy          uuid.UUID  `json:"submittedBy"`
	SubmittedDate        *time.Time `json:"submittedDateTime,omitempty"`
}

type RegistrationSubmission struct {
	SubmissionBase
	CompanyDetailsDataComplete bool                        `json:"companyDetailsDataComplete"`
	RequiresBrandsFile         bool                        `json:"requiresBrandsFile"`
	BrandsDataComplete         bool                        `json:"brandsDataComplete"`
	RequiresPartnershipsFile   bool                        `json:"requiresPartnershipsFile"`
	PartnershipsDataComplete   bool                        `json:"partnershipsDataComplete"`
	HasWarnings                bool                        `json:"hasWarnings"`
	LastUploadedValidFiles     *RegistrationUploadedFiles  `json:"lastUploadedValidFiles,omitempty"`
	LastSubmittedFiles         *RegistrationSubmittedFiles `json:"lastSubmittedFiles,omitempty"`
}

type SubsidiarySubmission struct {
	SubmissionBase
	RecordsAdded          *int                     `json:"recordsAdded,omitempty"`
	LastUploadedValidFile *UploadedFileInformation `json:"lastUploadedValidFile,omitempty"`
}

// BasicSubmission carries the known submission types that have no
// type-specific fields.
type BasicSubmission struct {
	SubmissionBase
}

// DecodeSubmission reads the "type" discriminator first and then decodes the
// whole document into the matching variant.
func DecodeSubmission(data []byte) (Submission, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to read submission type: %w", err)
	}

	var target Submission
	switch SubmissionType(probe.Type) {
	case SubmissionTypeProducer:
		target = new(PomSubmission)
	case SubmissionTypeRegistration:
		target = new(RegistrationSubmission)
	case SubmissionTypeSubsidiary:
		target = new(SubsidiarySubmission)
	case SubmissionTypeCompaniesHouse,
		SubmissionTypeRegistrationFeePayment,
		SubmissionTypeRegistrationApplicationSubmitted,
		SubmissionTypeAccreditation:
		target = new(BasicSubmission)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubmissionType, probe.Type)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return nil, fmt.Errorf("failed to decode %s submission: %w", probe.Type, err)
	}

	return target, nil
}

// DecodeSubmissions decodes a JSON array of submissions. A single unknown
// discriminator fails the whole list.
func DecodeSubmissions(data []byte) ([]Submission, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}

	out := make([]Submission, 0, len(raw))
	for i, item := range raw {
		s, err := DecodeSubmission(item)
		if err != nil {
			return nil, fmt.Errorf("submission %d: %w", i, err)
		}
		out = append(out, s)
	}

	return out, nil
}

type ProducerValidationIssueRow struct {
	RowNumber            int      `json:"rowNumber"`
	ProducerID           string   `json:"producerId"`
	SubsidiaryID         string   `json:"subsidiaryId,omitempty"`
	ProducerType         string   `json:"producerType,omitempty"`
	DataSubmissionPeriod string   `json:"dataSubmissionPeriod,omitempty"`
	ProducerSize         string   `json:"producerSize,omitempty"`
	WasteType            string   `json:"wasteType,omitempty"`
	PackagingCategory    string   `json:"packagingCategory,omitempty"`
	MaterialType         string   `json:"materialType,omitempty"`
	MaterialSubType      string   `json:"materialSubType,omitempty"`
	FromHomeNation       string   `json:"fromHomeNation,omitempty"`
	ToHomeNation         string   `json:"toHomeNation,omitempty"`
	QuantityKg           string   `json:"quantityKg,omitempty"`
	QuantityUnits        string   `json:"quantityUnits,omitempty"`
	ErrorCodes           []string `json:"errorCodes,omitempty"`
	Issue                string   `json:"issue,omitempty"`
}

type OrganisationDetailsError struct {
	RowNumber      int    `json:"rowNumber"`
	ErrorCode      string `json:"errorCode"`
	ColumnName     string `json:"columnName,omitempty"`
	OrganisationID string `json:"organisationId,omitempty"`
	SubsidiaryID   string `json:"subsidiaryId,omitempty"`
	Issue          string `json:"issue,omitempty"`
}
