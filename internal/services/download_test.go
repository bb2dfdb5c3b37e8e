package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"submissionsbff/internal/metrics"
	"submissionsbff/internal/storage"
	"submissionsbff/pkg/types"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downloadFixture struct {
	log       *callLog
	store     *fakeSubmissionStore
	blobs     *fakeBlobs
	antivirus *fakeAntivirus
	metrics   *metrics.Metrics
	svc       *DownloadService
}

func newDownloadFixture() *downloadFixture {
	log := &callLog{}
	f := &downloadFixture{
		log:       log,
		store:     &fakeSubmissionStore{log: log, blobName: "blob-abc"},
		blobs:     &fakeBlobs{BlobStorage: storage.NewBlobStorage(nil, testContainers), log: log, content: []byte("contents")},
		antivirus: &fakeAntivirus{log: log, verdict: types.ScanResultClean},
		metrics:   testMetrics(),
	}
	logger := testLogger()
	f.svc = NewDownloadService(
		logger,
		f.store,
		f.blobs,
		f.antivirus,
		NewAuditor(&fakeAuditRecorder{}, logger, f.metrics),
		f.metrics,
		testUploadOptions,
	)
	return f
}

func TestDownloadClean(t *testing.T) {
	f := newDownloadFixture()
	req := DownloadRequest{
		FileID:         uuid.New(),
		FileName:       "pom.csv",
		SubmissionType: types.SubmissionTypeProducer,
		SubmissionID:   uuid.New(),
	}

	result, err := f.svc.DownloadFile(context.Background(), testCaller(), req)
	require.NoError(t, err)

	assert.True(t, result.Clean())
	assert.Equal(t, []byte("contents"), result.Content)
	assert.Equal(t, "pom-container", f.blobs.container)
	assert.Equal(t, "blob-abc", f.blobs.blobName)
	assert.Equal(t, []string{"blob-name", "download", "scan", "download-check"}, f.log.all())

	require.Len(t, f.store.downloadChecks, 1)
	check := f.store.downloadChecks[0]
	assert.Equal(t, types.ScanResultClean, check.ContentScan)
	assert.Equal(t, req.FileID, check.FileID)
	assert.Equal(t, "blob-abc", check.BlobName)
	assert.Equal(t, req.SubmissionID, check.SubmissionID)
	assert.Equal(t, types.SubmissionTypeProducer, check.SubmissionType)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DownloadScansTotal.WithLabelValues("clean")))
}

func TestDownloadInfectedIsStillRecorded(t *testing.T) {
	for _, verdict := range []string{"Quarantined", "FailedToVirusScan", "clean", ""} {
		t.Run(fmt.Sprintf("verdict %q", verdict), func(t *testing.T) {
			f := newDownloadFixture()
			f.antivirus.verdict = verdict

			result, err := f.svc.DownloadFile(context.Background(), testCaller(), DownloadRequest{
				FileID:         uuid.New(),
				FileName:       "org.csv",
				SubmissionType: types.SubmissionTypeRegistration,
				SubmissionID:   uuid.New(),
			})
			require.NoError(t, err)

			assert.False(t, result.Clean())
			assert.Equal(t, "registration-container", f.blobs.container)
			require.Len(t, f.store.downloadChecks, 1)
			assert.Equal(t, verdict, f.store.downloadChecks[0].ContentScan)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DownloadScansTotal.WithLabelValues("not_clean")))
		})
	}
}

func TestDownloadAccreditationContainer(t *testing.T) {
	f := newDownloadFixture()

	_, err := f.svc.DownloadFile(context.Background(), testCaller(), DownloadRequest{
		FileID:         uuid.New(),
		FileName:       "evidence.pdf",
		SubmissionType: types.SubmissionTypeAccreditation,
		SubmissionID:   uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, "accreditation-container", f.blobs.container)
}

func TestDownloadBlobNotFound(t *testing.T) {
	f := newDownloadFixture()
	f.blobs.err = fmt.Errorf("pom-container/blob-abc: %w", types.ErrBlobNotFound)

	_, err := f.svc.DownloadFile(context.Background(), testCaller(), DownloadRequest{
		FileID:         uuid.New(),
		SubmissionType: types.SubmissionTypeProducer,
		SubmissionID:   uuid.New(),
	})
	require.ErrorIs(t, err, types.ErrBlobNotFound)
	assert.Equal(t, []string{"blob-name", "download"}, f.log.all())
}

func TestDownloadScanFailurePropagates(t *testing.T) {
	f := newDownloadFixture()
	f.antivirus.scanErr = errors.New("scanner down")

	_, err := f.svc.DownloadFile(context.Background(), testCaller(), DownloadRequest{
		FileID:         uuid.New(),
		SubmissionType: types.SubmissionTypeProducer,
		SubmissionID:   uuid.New(),
	})
	require.ErrorContains(t, err, "scanner down")
	assert.Empty(t, f.store.downloadChecks)
}
