package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"submissionsbff/pkg/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventStore struct {
	events *types.SubmissionEvents
	err    error
}

func (f *fakeEventStore) SubmissionEvents(_ context.Context, _ types.Caller, _ uuid.UUID, _ string) (*types.SubmissionEvents, error) {
	return f.events, f.err
}

type fakeIdentity struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*types.UserDetails
	err    error
	lookup []uuid.UUID
}

func (f *fakeIdentity) UserOrganisations(_ context.Context, userID uuid.UUID) (*types.UserOrganisations, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookup = append(f.lookup, userID)

	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, types.ErrIdentityNotFound)
	}
	return &types.UserOrganisations{User: user}, nil
}

func TestSubmissionHistoryLatestDecisionWins(t *testing.T) {
	submissionID := uuid.New()
	fileID := uuid.New()
	userID := uuid.New()
	submitted := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	t1 := submitted.Add(24 * time.Hour)
	t2 := submitted.Add(48 * time.Hour)

	svc := NewHistoryService(testLogger(), &fakeEventStore{events: &types.SubmissionEvents{
		SubmittedEvents: []types.SubmittedEvent{
			{SubmissionID: submissionID, FileID: fileID, FileName: "pom.csv", UserID: userID, Created: submitted},
		},
		RegulatorDecisionEvents: []types.RegulatorDecisionEvent{
			{SubmissionID: submissionID, FileID: fileID, Decision: "Accepted", Created: t2},
			{SubmissionID: submissionID, FileID: fileID, Decision: "Queried", Created: t1},
			{SubmissionID: submissionID, FileID: uuid.New(), Decision: "Rejected", Created: t2.Add(time.Hour)},
		},
	}}, &fakeIdentity{users: map[uuid.UUID]*types.UserDetails{
		userID: {FirstName: "Jo", LastName: "Bloggs"},
	}})

	rows, err := svc.SubmissionHistory(context.Background(), testCaller(), submissionID, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Accepted", rows[0].Status)
	assert.True(t, t2.Equal(rows[0].DateofLatestStatusChange))
	assert.True(t, submitted.Equal(rows[0].SubmissionDate))
	assert.Equal(t, "Jo Bloggs", rows[0].UserName)
	assert.Equal(t, fileID, rows[0].FileID)
	assert.Equal(t, "pom.csv", rows[0].FileName)
}

func TestSubmissionHistoryDefaultsToSubmitted(t *testing.T) {
	submissionID := uuid.New()
	userID := uuid.New()
	submitted := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	svc := NewHistoryService(testLogger(), &fakeEventStore{events: &types.SubmissionEvents{
		SubmittedEvents: []types.SubmittedEvent{
			{SubmissionID: submissionID, FileID: uuid.New(), UserID: userID, Created: submitted},
		},
	}}, &fakeIdentity{users: map[uuid.UUID]*types.UserDetails{userID: {FirstName: "Sam"}}})

	rows, err := svc.SubmissionHistory(context.Background(), testCaller(), submissionID, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, types.HistoryStatusSubmitted, rows[0].Status)
	assert.True(t, submitted.Equal(rows[0].DateofLatestStatusChange))
	assert.Equal(t, "Sam", rows[0].UserName)
}

func TestSubmissionHistoryKeepsOrderAndBlankUnknownUsers(t *testing.T) {
	submissionID := uuid.New()
	known := uuid.New()
	unknown := uuid.New()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	var submitted []types.SubmittedEvent
	for i := range 6 {
		userID := known
		if i%2 == 1 {
			userID = unknown
		}
		submitted = append(submitted, types.SubmittedEvent{
			SubmissionID: submissionID,
			FileID:       uuid.New(),
			FileName:     fmt.Sprintf("file-%d.csv", i),
			UserID:       userID,
			Created:      base.Add(-time.Duration(i) * time.Hour),
		})
	}

	identity := &fakeIdentity{users: map[uuid.UUID]*types.UserDetails{known: {FirstName: "Jo", LastName: "Bloggs"}}}
	svc := NewHistoryService(testLogger(), &fakeEventStore{events: &types.SubmissionEvents{SubmittedEvents: submitted}}, identity)

	rows, err := svc.SubmissionHistory(context.Background(), testCaller(), submissionID, "")
	require.NoError(t, err)
	require.Len(t, rows, 6)

	for i, row := range rows {
		assert.Equal(t, fmt.Sprintf("file-%d.csv", i), row.FileName)
		if i%2 == 1 {
			assert.Empty(t, row.UserName)
		} else {
			assert.Equal(t, "Jo Bloggs", row.UserName)
		}
	}

	assert.Len(t, identity.lookup, 2)
}

func TestSubmissionHistoryIdentityFailurePropagates(t *testing.T) {
	svc := NewHistoryService(testLogger(), &fakeEventStore{events: &types.SubmissionEvents{
		SubmittedEvents: []types.SubmittedEvent{{SubmissionID: uuid.New(), UserID: uuid.New()}},
	}}, &fakeIdentity{err: errors.New("account service down")})

	_, err := svc.SubmissionHistory(context.Background(), testCaller(), uuid.New(), "")
	require.ErrorContains(t, err, "account service down")
}

func TestSubmissionHistoryEventsFailure(t *testing.T) {
	svc := NewHistoryService(testLogger(), &fakeEventStore{err: errors.New("store down")}, &fakeIdentity{})

	_, err := svc.SubmissionHistory(context.Background(), testCaller(), uuid.New(), "")
	require.ErrorContains(t, err, "store down")
}
