package services

import (
	"context"
	"errors"
	"fmt"

	"submissionsbff/pkg/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const identityLookupLimit = 4

type EventStore interface {
	SubmissionEvents(ctx context.Context, caller types.Caller, submissionID uuid.UUID, rawQuery string) (*types.SubmissionEvents, error)
}

type IdentityLookup interface {
	UserOrganisations(ctx context.Context, userID uuid.UUID) (*types.UserOrganisations, error)
}

type HistoryService struct {
	logger   logrus.FieldLogger
	events   EventStore
	identity IdentityLookup
}

func NewHistoryService(logger logrus.FieldLogger, events EventStore, identity IdentityLookup) *HistoryService {
	return &HistoryService{logger: logger, events: events, identity: identity}
}

// SubmissionHistory builds one row per submitted event, in the order the
// store returned them. Each row takes the status of the latest regulator
// decision for its submission and file, or "Submitted" when there is none.
func (s *HistoryService) SubmissionHistory(ctx context.Context, caller types.Caller, submissionID uuid.UUID, rawQuery string) ([]types.SubmissionHistory, error) {
	events, err := s.events.SubmissionEvents(ctx, caller, submissionID, rawQuery)
	if err != nil {
		return nil, fmt.Errorf("fetch submission events: %w", err)
	}

	names, err := s.submitterNames(ctx, events.SubmittedEvents)
	if err != nil {
		return nil, err
	}

	return mergeHistory(events.SubmittedEvents, events.RegulatorDecisionEvents, names), nil
}

// submitterNames resolves display names in parallel. A user the account
// service does not know gets a blank name.
func (s *HistoryService) submitterNames(ctx context.Context, submitted []types.SubmittedEvent) (map[uuid.UUID]string, error) {
	unique := make([]uuid.UUID, 0, len(submitted))
	seen := make(map[uuid.UUID]bool, len(submitted))
	for _, e := range submitted {
		if !seen[e.UserID] {
			seen[e.UserID] = true
			unique = append(unique, e.UserID)
		}
	}

	resolved := make([]string, len(unique))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(identityLookupLimit)
	for i, userID := range unique {
		g.Go(func() error {
			orgs, err := s.identity.UserOrganisations(gctx, userID)
			if errors.Is(err, types.ErrIdentityNotFound) {
				s.logger.WithField("user_id", userID).Error("failed to resolve submitting user")
				return nil
			}
			if err != nil {
				return fmt.Errorf("resolve user %s: %w", userID, err)
			}
			resolved[i] = orgs.User.DisplayName()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(unique))
	for i, userID := range unique {
		names[userID] = resolved[i]
	}

	return names, nil
}

type decisionKey struct {
	submissionID uuid.UUID
	fileID       uuid.UUID
}

func mergeHistory(submitted []types.SubmittedEvent, decisions []types.RegulatorDecisionEvent, names map[uuid.UUID]string) []types.SubmissionHistory {
	latest := make(map[decisionKey]types.RegulatorDecisionEvent, len(decisions))
	for _, d := range decisions {
		key := decisionKey{d.SubmissionID, d.FileID}
		if current, ok := latest[key]; !ok || d.Created.After(current.Created) {
			latest[key] = d
		}
	}

	rows := make([]types.SubmissionHistory, 0, len(submitted))
	for _, e := range submitted {
		row := types.SubmissionHistory{
			SubmissionID:             e.SubmissionID,
			FileID:                   e.FileID,
			FileName:                 e.FileName,
			UserName:                 names[e.UserID],
			SubmissionDate:           e.Created,
			Status:                   types.HistoryStatusSubmitted,
			DateofLatestStatusChange: e.Created,
		}

		if d, ok := latest[decisionKey{e.SubmissionID, e.FileID}]; ok {
			row.Status = d.Decision
			row.DateofLatestStatusChange = d.Created
		}

		rows = append(rows, row)
	}

	return rows
}
