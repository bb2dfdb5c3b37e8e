package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"submissionsbff/pkg/types"

	"github.com/google/uuid"
)

// SubmissionsGateway is the client of the submission status store. Every call
// is made on behalf of a resolved caller.
type SubmissionsGateway struct {
	service
}

func NewSubmissionsGateway(baseURL string, client *http.Client) *SubmissionsGateway {
	return &SubmissionsGateway{service{name: "submissions", baseURL: baseURL, client: client}}
}

func (g *SubmissionsGateway) send(ctx context.Context, caller types.Caller, method, endpoint string, payload any) error {
	req, err := newJSONRequest(ctx, method, endpoint, payload, caller)
	if err != nil {
		return err
	}

	resp, err := g.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return g.expect(resp)
}

func (g *SubmissionsGateway) get(ctx context.Context, caller types.Caller, endpoint string) (*http.Response, error) {
	req, err := newRequest(ctx, http.MethodGet, endpoint, nil, caller)
	if err != nil {
		return nil, err
	}
	return g.do(req)
}

func (g *SubmissionsGateway) getJSON(ctx context.Context, caller types.Caller, endpoint string, out any) error {
	resp, err := g.get(ctx, caller, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := g.expect(resp); err != nil {
		return err
	}

	return g.decode(resp, out)
}

func (g *SubmissionsGateway) CreateSubmission(ctx context.Context, caller types.Caller, submission types.CreateSubmission) error {
	return g.send(ctx, caller, http.MethodPost, g.url("/submissions"), submission)
}

// RegisterAntivirusCheck records the antivirus check event for a new file and
// returns the file id it was registered under.
func (g *SubmissionsGateway) RegisterAntivirusCheck(ctx context.Context, caller types.Caller, submissionID uuid.UUID, event types.AntivirusCheckEvent) (uuid.UUID, error) {
	event.Type = types.EventTypeAntivirusCheck
	if event.FileID == uuid.Nil {
		event.FileID = uuid.New()
	}

	if err := g.createEvent(ctx, caller, submissionID, event); err != nil {
		return uuid.Nil, err
	}

	return event.FileID, nil
}

func (g *SubmissionsGateway) RecordFileDownloadCheck(ctx context.Context, caller types.Caller, submissionID uuid.UUID, event types.FileDownloadCheckEvent) error {
	event.Type = types.EventTypeFileDownloadCheck
	return g.createEvent(ctx, caller, submissionID, event)
}

func (g *SubmissionsGateway) createEvent(ctx context.Context, caller types.Caller, submissionID uuid.UUID, event any) error {
	return g.send(ctx, caller, http.MethodPost, g.url("/submissions/%s/events", submissionID), event)
}

// Submission fetches one submission and decodes it into its variant.
func (g *SubmissionsGateway) Submission(ctx context.Context, caller types.Caller, submissionID uuid.UUID) (types.Submission, error) {
	resp, err := g.get(ctx, caller, g.url("/submissions/%s", submissionID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("submission %s: %w", submissionID, types.ErrSubmissionNotFound)
	}
	if err := g.expect(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read submission: %w", err)
	}

	return types.DecodeSubmission(data)
}

// Submissions lists submissions. rawQuery is passed through untouched.
func (g *SubmissionsGateway) Submissions(ctx context.Context, caller types.Caller, rawQuery string) ([]types.Submission, error) {
	resp, err := g.get(ctx, caller, withQuery(g.url("/submissions"), rawQuery))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := g.expect(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read submissions: %w", err)
	}

	return types.DecodeSubmissions(data)
}

func (g *SubmissionsGateway) ProducerValidations(ctx context.Context, caller types.Caller, submissionID uuid.UUID) ([]types.ProducerValidationIssueRow, error) {
	var out []types.ProducerValidationIssueRow
	err := g.getJSON(ctx, caller, g.url("/submissions/%s/producer-validations", submissionID), &out)
	return out, err
}

func (g *SubmissionsGateway) ProducerWarningValidations(ctx context.Context, caller types.Caller, submissionID uuid.UUID) ([]types.ProducerValidationIssueRow, error) {
	var out []types.ProducerValidationIssueRow
	err := g.getJSON(ctx, caller, g.url("/submissions/%s/producer-warning-validations", submissionID), &out)
	return out, err
}

func (g *SubmissionsGateway) OrganisationDetailsErrors(ctx context.Context, caller types.Caller, submissionID uuid.UUID) ([]types.OrganisationDetailsError, error) {
	var out []types.OrganisationDetailsError
	err := g.getJSON(ctx, caller, g.url("/submissions/%s/organisation-details-errors", submissionID), &out)
	return out, err
}

func (g *SubmissionsGateway) Submit(ctx context.Context, caller types.Caller, submissionID uuid.UUID, payload types.SubmitPayload) error {
	return g.send(ctx, caller, http.MethodPost, g.url("/submissions/%s/submit", submissionID), payload)
}

func (g *SubmissionsGateway) SubmissionEvents(ctx context.Context, caller types.Caller, submissionID uuid.UUID, rawQuery string) (*types.SubmissionEvents, error) {
	var out types.SubmissionEvents
	endpoint := withQuery(g.url("/submissions/events/events-by-type/%s", submissionID), rawQuery)
	if err := g.getJSON(ctx, caller, endpoint, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FileBlobName maps a logical file id to the name of the blob holding it.
func (g *SubmissionsGateway) FileBlobName(ctx context.Context, caller types.Caller, fileID uuid.UUID, submissionType types.SubmissionType) (string, error) {
	endpoint := g.url("/submissions/files/%s/blob-name?submissionType=%s", fileID, url.QueryEscape(string(submissionType)))

	resp, err := g.get(ctx, caller, endpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("file %s: %w", fileID, types.ErrBlobNotFound)
	}
	if err := g.expect(resp); err != nil {
		return "", err
	}

	var name string
	if err := g.decode(resp, &name); err != nil {
		return "", err
	}

	return name, nil
}

func (g *SubmissionsGateway) PackagingResubmissionApplicationDetails(ctx context.Context, caller types.Caller, rawQuery string) (*types.PackagingResubmissionApplicationDetails, error) {
	var out types.PackagingResubmissionApplicationDetails
	found, err := g.applicationDetails(ctx, caller, withQuery(g.url("/submissions/package-resubmission-application-details"), rawQuery), &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

func (g *SubmissionsGateway) RegistrationApplicationDetails(ctx context.Context, caller types.Caller, rawQuery string) (*types.RegistrationApplicationDetails, error) {
	var out types.RegistrationApplicationDetails
	found, err := g.applicationDetails(ctx, caller, withQuery(g.url("/submissions/registration-application-details"), rawQuery), &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

// applicationDetails treats the statuses the store uses for "nothing to show"
// as an absent record rather than an error.
func (g *SubmissionsGateway) applicationDetails(ctx context.Context, caller types.Caller, endpoint string, out any) (bool, error) {
	resp, err := g.get(ctx, caller, endpoint)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError:
		return false, nil
	}
	if err := g.expect(resp); err != nil {
		return false, err
	}

	if err := g.decode(resp, out); err != nil {
		return false, err
	}

	return true, nil
}
