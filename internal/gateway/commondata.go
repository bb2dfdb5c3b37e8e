package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"submissionsbff/pkg/types"

	"github.com/google/uuid"
)

type CommonDataGateway struct {
	service
}

func NewCommonDataGateway(baseURL string, client *http.Client) *CommonDataGateway {
	return &CommonDataGateway{service{name: "commondata", baseURL: baseURL, client: client}}
}

// IsFileSynced reports whether the file has reached the reporting store.
func (g *CommonDataGateway) IsFileSynced(ctx context.Context, caller types.Caller, fileID uuid.UUID) (bool, error) {
	req, err := newRequest(ctx, http.MethodGet, g.url("/submissions/is_file_synced_with_cosmos/%s", fileID), nil, caller)
	if err != nil {
		return false, err
	}

	resp, err := g.do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if err := g.expect(resp); err != nil {
		return false, err
	}

	var synced bool
	if err := g.decode(resp, &synced); err != nil {
		return false, err
	}

	return synced, nil
}

// PackagingResubmissionMemberDetails returns nil when the store has nothing.
// A 428 is not an error: its body comes back as the response's ErrorMessage.
func (g *CommonDataGateway) PackagingResubmissionMemberDetails(ctx context.Context, caller types.Caller, submissionID uuid.UUID, complianceSchemeID string) (*types.MemberResponse, error) {
	endpoint := g.url("/submissions/pom-resubmission-paycal-parameters/%s", submissionID)
	if complianceSchemeID != "" {
		endpoint += "?ComplianceSchemeId=" + url.QueryEscape(complianceSchemeID)
	}

	req, err := newRequest(ctx, http.MethodGet, endpoint, nil, caller)
	if err != nil {
		return nil, err
	}

	resp, err := g.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var details types.PackagingResubmissionMemberDetails
		if err := g.decode(resp, &details); err != nil {
			return nil, err
		}
		return &types.MemberResponse{Details: &details}, nil
	case http.StatusNoContent:
		return nil, nil
	case http.StatusPreconditionRequired:
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read precondition message: %w", err)
		}
		message := strings.TrimSpace(string(msg))
		if message == "" {
			message = http.StatusText(http.StatusPreconditionRequired)
		}
		return &types.MemberResponse{ErrorMessage: message}, nil
	}

	return nil, g.statusError(resp)
}
