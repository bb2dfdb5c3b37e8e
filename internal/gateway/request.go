package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"submissionsbff/pkg/types"
)

const (
	HeaderOrganisationID = "OrganisationId"
	HeaderUserID         = "UserId"
)

// newRequest builds a request made on behalf of caller. Every call to the
// submission store goes through here so no request leaves without the
// identity headers.
func newRequest(ctx context.Context, method, url string, body io.Reader, caller types.Caller) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	stampCaller(req.Header, caller)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

func newJSONRequest(ctx context.Context, method, url string, payload any, caller types.Caller) (*http.Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := newRequest(ctx, method, url, bytes.NewReader(data), caller)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

// stampCaller sets the identity headers only when they are absent. The first
// value written wins.
func stampCaller(h http.Header, caller types.Caller) {
	if h.Get(HeaderOrganisationID) == "" {
		h.Set(HeaderOrganisationID, caller.OrganisationID.String())
	}
	if h.Get(HeaderUserID) == "" {
		h.Set(HeaderUserID, caller.UserID.String())
	}
}
