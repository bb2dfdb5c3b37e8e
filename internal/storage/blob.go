package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"submissionsbff/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// BlobStorage reads uploaded files back out of their containers. Each
// container is an S3 bucket.
type BlobStorage struct {
	client     *s3.Client
	containers types.BlobContainers
}

func NewBlobStorage(client *s3.Client, containers types.BlobContainers) *BlobStorage {
	return &BlobStorage{client: client, containers: containers}
}

// NewS3Client builds a client from the loaded AWS config. An empty endpoint
// keeps the SDK's resolution.
func NewS3Client(cfg aws.Config, endpoint string, usePathStyle bool) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = usePathStyle
	})
}

func (s *BlobStorage) ContainerForUpload(fileType types.FileType) string {
	return s.containers.ForFileType(fileType)
}

func (s *BlobStorage) ContainerForDownload(submissionType types.SubmissionType) string {
	return s.containers.ForSubmissionType(submissionType)
}

// Download reads the whole blob into memory.
func (s *BlobStorage) Download(ctx context.Context, container, blobName string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(blobName),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s/%s: %w", container, blobName, types.ErrBlobNotFound)
		}
		return nil, fmt.Errorf("failed to get blob %s/%s: %w", container, blobName, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s/%s: %w", container, blobName, err)
	}

	return data, nil
}

func isNotFound(err error) bool {
	var noKey *s3types.NoSuchKey
	var noBucket *s3types.NoSuchBucket
	if errors.As(err, &noKey) || errors.As(err, &noBucket) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return true
		}
	}

	return false
}
