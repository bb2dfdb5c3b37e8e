package gateway

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestStampsCallerHeaders(t *testing.T) {
	caller := testCaller()

	req, err := newRequest(context.Background(), http.MethodGet, "http://store/submissions", nil, caller)
	require.NoError(t, err)

	assert.Equal(t, caller.OrganisationID.String(), req.Header.Get(HeaderOrganisationID))
	assert.Equal(t, caller.UserID.String(), req.Header.Get(HeaderUserID))
}

func TestStampCallerIsIdempotent(t *testing.T) {
	first := testCaller()
	second := first
	second.UserID = uuid.New()
	second.OrganisationID = uuid.New()

	h := http.Header{}
	stampCaller(h, first)
	stampCaller(h, first)
	stampCaller(h, second)

	assert.Equal(t, []string{first.OrganisationID.String()}, h.Values(HeaderOrganisationID))
	assert.Equal(t, []string{first.UserID.String()}, h.Values(HeaderUserID))
}

func TestWithQuery(t *testing.T) {
	assert.Equal(t, "http://x/a", withQuery("http://x/a", ""))
	assert.Equal(t, "http://x/a?b=1", withQuery("http://x/a", "b=1"))
	assert.Equal(t, "http://x/a?b=1", withQuery("http://x/a", "?b=1"))
}
