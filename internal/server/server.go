package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"submissionsbff/internal/metrics"
	"submissionsbff/internal/services"
	"submissionsbff/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const apiPrefix = "/api/v1"

type callerResolver interface {
	Caller(ctx context.Context, userID uuid.UUID, email string) (types.Caller, error)
}

type uploader interface {
	UploadFile(ctx context.Context, caller types.Caller, req services.UploadRequest) (uuid.UUID, error)
	UploadSubsidiaryFile(ctx context.Context, caller types.Caller, req services.UploadRequest) (uuid.UUID, error)
	UploadAccreditationFile(ctx context.Context, caller types.Caller, req services.UploadRequest) (uuid.UUID, error)
}

type downloader interface {
	DownloadFile(ctx context.Context, caller types.Caller, req services.DownloadRequest) (*services.DownloadResult, error)
}

type submissionStore interface {
	Submission(ctx context.Context, caller types.Caller, submissionID uuid.UUID) (types.Submission, error)
	Submissions(ctx context.Context, caller types.Caller, rawQuery string) ([]types.Submission, error)
	ProducerValidations(ctx context.Context, caller types.Caller, submissionID uuid.UUID) ([]types.ProducerValidationIssueRow, error)
	ProducerWarningValidations(ctx context.Context, caller types.Caller, submissionID uuid.UUID) ([]types.ProducerValidationIssueRow, error)
	OrganisationDetailsErrors(ctx context.Context, caller types.Caller, submissionID uuid.UUID) ([]types.OrganisationDetailsError, error)
	Submit(ctx context.Context, caller types.Caller, submissionID uuid.UUID, payload types.SubmitPayload) error
}

type applicationDetails interface {
	PackagingResubmissionApplicationDetails(ctx context.Context, caller types.Caller, rawQuery string) (*types.PackagingResubmissionApplicationDetails, error)
	RegistrationApplicationDetails(ctx context.Context, caller types.Caller, rawQuery string, deadlines types.LateFeeDeadlines) (*types.RegistrationApplicationDetails, error)
	PackagingResubmissionMemberDetails(ctx context.Context, caller types.Caller, submissionID uuid.UUID, complianceSchemeID string) (*types.MemberResponse, error)
}

type submissionHistory interface {
	SubmissionHistory(ctx context.Context, caller types.Caller, submissionID uuid.UUID, rawQuery string) ([]types.SubmissionHistory, error)
}

// Dependencies are the collaborators the HTTP API fans out to.
type Dependencies struct {
	Auth         Authenticator
	Identity     callerResolver
	Uploads      uploader
	Downloads    downloader
	Submissions  submissionStore
	Applications applicationDetails
	History      submissionHistory
}

type Service struct {
	logger  logrus.FieldLogger
	config  *types.Config
	metrics *metrics.Metrics
	decoder *form.Decoder

	auth         Authenticator
	identity     callerResolver
	uploads      uploader
	downloads    downloader
	submissions  submissionStore
	applications applicationDetails
	history      submissionHistory

	handler http.Handler
	server  *http.Server
}

func New(config *types.Config, logger logrus.FieldLogger, m *metrics.Metrics, deps Dependencies) *Service {
	mux := flow.New()

	s := &Service{
		logger:  logger,
		config:  config,
		metrics: m,
		decoder: newQueryDecoder(),

		auth:         deps.Auth,
		identity:     deps.Identity,
		uploads:      deps.Uploads,
		downloads:    deps.Downloads,
		submissions:  deps.Submissions,
		applications: deps.Applications,
		history:      deps.History,
	}

	s.buildRouter(mux)
	s.handler = s.StripTrailingSlash(mux)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", config.ServerPort),
		Handler:           s.handler,
		ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ServeHTTP lets tests drive the full middleware chain without a listener.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)
	r.Use(s.Recover)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler(), http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)
		r.Use(s.ResolveCaller)

		r.HandleFunc(apiPrefix+"/file-upload", s.handlePostFileUpload, http.MethodPost)
		r.HandleFunc(apiPrefix+"/file-upload-subsidiary", s.handlePostFileUploadSubsidiary, http.MethodPost)
		r.HandleFunc(apiPrefix+"/file-upload-accreditation", s.handlePostFileUploadAccreditation, http.MethodPost)
		r.HandleFunc(apiPrefix+"/file-download", s.handleGetFileDownload, http.MethodGet)

		r.HandleFunc(apiPrefix+"/submissions", s.handleGetSubmissions, http.MethodGet)
		r.HandleFunc(apiPrefix+"/submissions/:submissionId", s.handleGetSubmission, http.MethodGet)
		r.HandleFunc(apiPrefix+"/submissions/:submissionId/producer-validations", s.handleGetProducerValidations, http.MethodGet)
		r.HandleFunc(apiPrefix+"/submissions/:submissionId/producer-warning-validations", s.handleGetProducerWarningValidations, http.MethodGet)
		r.HandleFunc(apiPrefix+"/submissions/:submissionId/organisation-details-errors", s.handleGetOrganisationDetailsErrors, http.MethodGet)
		r.HandleFunc(apiPrefix+"/submissions/:submissionId/submit", s.handlePostSubmit, http.MethodPost)
		r.HandleFunc(apiPrefix+"/submissions/:submissionId/submission-history", s.handleGetSubmissionHistory, http.MethodGet)

		r.HandleFunc(apiPrefix+"/packaging-resubmission-application-details", s.handleGetPackagingResubmissionApplicationDetails, http.MethodGet)
		r.HandleFunc(apiPrefix+"/registration-application-details", s.handleGetRegistrationApplicationDetails, http.MethodGet)
		r.HandleFunc(apiPrefix+"/packaging-resubmission-member-details/:submissionId", s.handleGetPackagingResubmissionMemberDetails, http.MethodGet)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
