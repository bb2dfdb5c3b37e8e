package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"submissionsbff/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testContainers = types.BlobContainers{
	Pom:           "pom",
	Registration:  "registration",
	Subsidiary:    "subsidiary",
	Accreditation: "accreditation",
}

func newTestStorage(t *testing.T, h http.HandlerFunc) *BlobStorage {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "eu-west-2",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  aws.AnonymousCredentials{},
	})

	return NewBlobStorage(client, testContainers)
}

func TestDownload(t *testing.T) {
	s := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/pom/blob-123", r.URL.Path)
		_, _ = w.Write([]byte("file contents"))
	})

	data, err := s.Download(context.Background(), "pom", "blob-123")
	require.NoError(t, err)
	assert.Equal(t, []byte("file contents"), data)
}

func TestDownloadMissingKey(t *testing.T) {
	s := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
	})

	_, err := s.Download(context.Background(), "pom", "missing")
	require.ErrorIs(t, err, types.ErrBlobNotFound)
}

func TestContainerResolution(t *testing.T) {
	s := NewBlobStorage(nil, testContainers)

	assert.Equal(t, "pom", s.ContainerForUpload(types.FileTypePom))
	assert.Equal(t, "subsidiary", s.ContainerForUpload(types.FileTypeSubsidiaries))
	assert.Equal(t, "accreditation", s.ContainerForUpload(types.FileTypeAccreditation))
	assert.Equal(t, "registration", s.ContainerForUpload(types.FileTypeCompanyDetails))
	assert.Equal(t, "registration", s.ContainerForUpload(types.FileTypeBrands))

	assert.Equal(t, "pom", s.ContainerForDownload(types.SubmissionTypeProducer))
	assert.Equal(t, "accreditation", s.ContainerForDownload(types.SubmissionTypeAccreditation))
	assert.Equal(t, "registration", s.ContainerForDownload(types.SubmissionTypeRegistration))
	assert.Equal(t, "registration", s.ContainerForDownload(types.SubmissionTypeSubsidiary))
}
