package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"submissionsbff/pkg/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountGatewayCaller(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/user-organisations", r.URL.Path)
		assert.Equal(t, userID.String(), r.URL.Query().Get("userId"))

		_ = json.NewEncoder(w).Encode(types.UserOrganisations{User: &types.UserDetails{
			ID:        userID,
			FirstName: "Jo",
			LastName:  "Bloggs",
			Email:     "jo@example.com",
			Organisations: []types.Organisation{
				{ID: orgID, Name: "First"},
				{ID: uuid.New(), Name: "Second"},
			},
		}})
	})

	g := NewAccountGateway(srv.URL, noRetryClient())

	caller, err := g.Caller(context.Background(), userID, "token@example.com")
	require.NoError(t, err)

	assert.Equal(t, userID, caller.UserID)
	assert.Equal(t, orgID, caller.OrganisationID)
	assert.Equal(t, "jo@example.com", caller.Email)
	assert.Equal(t, "Jo Bloggs", caller.DisplayName())
}

func TestAccountGatewayNotFound(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusNoContent} {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		g := NewAccountGateway(srv.URL, noRetryClient())

		_, err := g.UserOrganisations(context.Background(), uuid.New())
		require.ErrorIs(t, err, types.ErrIdentityNotFound)
	}
}

func TestAccountGatewayNoOrganisation(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"firstName":"Jo","organisations":[]}}`))
	})

	g := NewAccountGateway(srv.URL, noRetryClient())

	_, err := g.Caller(context.Background(), uuid.New(), "")
	require.ErrorIs(t, err, types.ErrIdentityNotFound)
}

func TestAccountGatewayServerErrorPropagates(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	g := NewAccountGateway(srv.URL, noRetryClient())

	_, err := g.UserOrganisations(context.Background(), uuid.New())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "account", statusErr.Service)
}
