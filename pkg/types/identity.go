package types

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type UserOrganisations struct {
	User *UserDetails `json:"user"`
}

type UserDetails struct {
	ID                 uuid.UUID      `json:"id"`
	FirstName          string         `json:"firstName"`
	LastName           string         `json:"lastName"`
	Email              string         `json:"email"`
	RoleInOrganisation string         `json:"roleInOrganisation,omitempty"`
	ServiceRole        string         `json:"serviceRole,omitempty"`
	Organisations      []Organisation `json:"organisations"`
}

type Organisation struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	OrganisationRole   string    `json:"organisationRole,omitempty"`
	OrganisationNumber string    `json:"organisationNumber,omitempty"`
	NationID           int       `json:"nationId,omitempty"`
}

func (u *UserDetails) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Caller is the resolved identity every downstream call is made on behalf of.
type Caller struct {
	UserID         uuid.UUID
	OrganisationID uuid.UUID
	Email          string
	FirstName      string
	LastName       string
}

func (c Caller) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type callerContextKey struct{}

func ContextWithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerContextKey{}, caller)
}

func CallerFromContext(ctx context.Context) (Caller, error) {
	caller, ok := ctx.Value(callerContextKey{}).(Caller)
	if !ok {
		return Caller{}, ErrCallerNotFound
	}
	return caller, nil
}
