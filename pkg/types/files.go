package types

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const ScanResultClean = "Clean"

// FileDetails is the metadata contract with the antivirus service. Collection
// doubles as the scanner-side bucket name.
type FileDetails struct {
	Service    string `json:"service"`
	Key        string `json:"key"`
	Extension  string `json:"extension"`
	FileName   string `json:"fileName"`
	Collection string `json:"collection"`
	UserID     string `json:"userId"`
	UserEmail  string `json:"userEmail"`
	Content    string `json:"content,omitempty"`
}

// NewFileDetails splits fileName into base name and extension.
func NewFileDetails(service, collection string, fileID uuid.UUID, fileName string, caller Caller) FileDetails {
	ext := filepath.Ext(fileName)
	return FileDetails{
		Service:    service,
		Key:        fileID.String(),
		Extension:  ext,
		FileName:   strings.TrimSuffix(fileName, ext),
		Collection: collection,
		UserID:     caller.UserID.String(),
		UserEmail:  caller.Email,
	}
}

// TruncateFileName shortens name to at most max characters. Names within the
// limit pass through unchanged.
func TruncateFileName(name string, max int) string {
	if max <= 0 {
		return name
	}
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max])
}

type BlobContainers struct {
	Pom           string
	Registration  string
	Subsidiary    string
	Accreditation string
}

// ForFileType resolves the container an uploaded file is written to.
func (c BlobContainers) ForFileType(ft FileType) string {
	switch ft {
	case FileTypePom:
		return c.Pom
	case FileTypeSubsidiaries:
		return c.Subsidiary
	case FileTypeAccreditation:
		return c.Accreditation
	default:
		return c.Registration
	}
}

// ForSubmissionType resolves the container a stored file is read back from.
func (c BlobContainers) ForSubmissionType(st SubmissionType) string {
	switch st {
	case SubmissionTypeProducer:
		return c.Pom
	case SubmissionTypeAccreditation:
		return c.Accreditation
	default:
		return c.Registration
	}
}
