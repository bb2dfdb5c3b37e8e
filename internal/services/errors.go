package services

import "errors"

var ErrSubmissionIDRequired = errors.New("submission id required")
