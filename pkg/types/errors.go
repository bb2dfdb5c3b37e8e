package types

import "errors"

var (
	ErrSubmissionNotFound    = errors.New("submission not found")
	ErrBlobNotFound          = errors.New("blob not found")
	ErrIdentityNotFound      = errors.New("identity not found")
	ErrUnknownSubmissionType = errors.New("unknown submission type")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrCallerNotFound        = errors.New("caller not found in context")
)
