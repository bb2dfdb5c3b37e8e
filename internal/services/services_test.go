package services

import (
	"context"
	"io"
	"sync"
	"time"

	"submissionsbff/internal/metrics"
	"submissionsbff/internal/storage"
	"submissionsbff/pkg/types"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var testContainers = types.BlobContainers{
	Pom:           "pom-container",
	Registration:  "registration-container",
	Subsidiary:    "subsidiary-container",
	Accreditation: "accreditation-container",
}

var testUploadOptions = UploadOptions{
	MaxFileNameLength: 100,
	ServiceTag:        "epr",
	CollectionSuffix:  "dev",
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

func testCaller() types.Caller {
	return types.Caller{
		UserID:         uuid.MustParse("6a1d3b52-3a0b-4c3e-9a8e-0b4d1a7c2f11"),
		OrganisationID: uuid.MustParse("0f1b6c4e-8d7a-4e0f-a2b3-9c8d7e6f5a40"),
		Email:          "jo@example.com",
		FirstName:      "Jo",
		LastName:       "Bloggs",
	}
}

// callLog records the order downstream calls were made in.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeSubmissionStore struct {
	log *callLog

	createErr error
	eventErr  error
	blobName  string
	blobErr   error

	created        []types.CreateSubmission
	antivirusCheck []registeredCheck
	downloadChecks []types.FileDownloadCheckEvent
}

type registeredCheck struct {
	submissionID uuid.UUID
	event        types.AntivirusCheckEvent
}

func (f *fakeSubmissionStore) CreateSubmission(_ context.Context, _ types.Caller, submission types.CreateSubmission) error {
	f.log.add("create")
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, submission)
	return nil
}

func (f *fakeSubmissionStore) RegisterAntivirusCheck(_ context.Context, _ types.Caller, submissionID uuid.UUID, event types.AntivirusCheckEvent) (uuid.UUID, error) {
	f.log.add("event")
	if f.eventErr != nil {
		return uuid.Nil, f.eventErr
	}
	event.FileID = uuid.New()
	f.antivirusCheck = append(f.antivirusCheck, registeredCheck{submissionID: submissionID, event: event})
	return event.FileID, nil
}

func (f *fakeSubmissionStore) FileBlobName(_ context.Context, _ types.Caller, _ uuid.UUID, _ types.SubmissionType) (string, error) {
	f.log.add("blob-name")
	return f.blobName, f.blobErr
}

func (f *fakeSubmissionStore) RecordFileDownloadCheck(_ context.Context, _ types.Caller, _ uuid.UUID, event types.FileDownloadCheckEvent) error {
	f.log.add("download-check")
	if f.eventErr != nil {
		return f.eventErr
	}
	f.downloadChecks = append(f.downloadChecks, event)
	return nil
}

type sentFile struct {
	details types.FileDetails
	content []byte
}

type fakeAntivirus struct {
	log *callLog

	mu      sync.Mutex
	sent    []sentFile
	sendErr error
	verdict string
	scanErr error
}

func (f *fakeAntivirus) SendFile(_ context.Context, details types.FileDetails, content []byte) error {
	f.log.add("send")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentFile{details: details, content: content})
	return f.sendErr
}

func (f *fakeAntivirus) ScanFile(_ context.Context, details types.FileDetails, content []byte) (string, error) {
	f.log.add("scan")
	return f.verdict, f.scanErr
}

func (f *fakeAntivirus) sentFiles() []sentFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentFile(nil), f.sent...)
}

type fakeBlobs struct {
	*storage.BlobStorage
	log *callLog

	content   []byte
	err       error
	container string
	blobName  string
}

func (f *fakeBlobs) Download(_ context.Context, container, blobName string) ([]byte, error) {
	f.log.add("download")
	f.container = container
	f.blobName = blobName
	return f.content, f.err
}

type fakeAuditRecorder struct {
	mu     sync.Mutex
	err    error
	events []types.ProtectiveMonitoringEvent
}

func (f *fakeAuditRecorder) RecordEvent(_ context.Context, event types.ProtectiveMonitoringEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func waitDispatches(d *Dispatcher) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.Wait(ctx)
}
