package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"submissionsbff/pkg/types"

	"github.com/google/uuid"
)

type AccountGateway struct {
	service
}

func NewAccountGateway(baseURL string, client *http.Client) *AccountGateway {
	return &AccountGateway{service{name: "account", baseURL: baseURL, client: client}}
}

// UserOrganisations looks up the user and the organisations they belong to.
func (g *AccountGateway) UserOrganisations(ctx context.Context, userID uuid.UUID) (*types.UserOrganisations, error) {
	endpoint := g.url("/users/user-organisations?userId=%s", url.QueryEscape(userID.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusNoContent:
		return nil, fmt.Errorf("user %s: %w", userID, types.ErrIdentityNotFound)
	}
	if err := g.expect(resp); err != nil {
		return nil, err
	}

	var out types.UserOrganisations
	if err := g.decode(resp, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, fmt.Errorf("user %s: %w", userID, types.ErrIdentityNotFound)
	}

	return &out, nil
}

// Caller resolves userID to the identity downstream calls are stamped with.
// The caller acts for the first organisation the user belongs to.
func (g *AccountGateway) Caller(ctx context.Context, userID uuid.UUID, email string) (types.Caller, error) {
	orgs, err := g.UserOrganisations(ctx, userID)
	if err != nil {
		return types.Caller{}, err
	}

	user := orgs.User
	if len(user.Organisations) == 0 {
		return types.Caller{}, fmt.Errorf("user %s has no organisation: %w", userID, types.ErrIdentityNotFound)
	}

	if user.Email != "" {
		email = user.Email
	}

	return types.Caller{
		UserID:         userID,
		OrganisationID: user.Organisations[0].ID,
		Email:          email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
	}, nil
}
