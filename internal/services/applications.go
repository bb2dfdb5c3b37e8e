package services

import (
	"context"
	"fmt"

	"submissionsbff/pkg/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ApplicationStore interface {
	PackagingResubmissionApplicationDetails(ctx context.Context, caller types.Caller, rawQuery string) (*types.PackagingResubmissionApplicationDetails, error)
	RegistrationApplicationDetails(ctx context.Context, caller types.Caller, rawQuery string) (*types.RegistrationApplicationDetails, error)
}

type CommonData interface {
	IsFileSynced(ctx context.Context, caller types.Caller, fileID uuid.UUID) (bool, error)
	PackagingResubmissionMemberDetails(ctx context.Context, caller types.Caller, submissionID uuid.UUID, complianceSchemeID string) (*types.MemberResponse, error)
}

type FeeCalculator interface {
	RegistrationFeeCalculationDetails(ctx context.Context, caller types.Caller, fileID uuid.UUID, deadlines types.LateFeeDeadlines) ([]types.RegistrationFeeCalculationDetails, error)
}

// ApplicationService assembles application details. Secondary data is only
// fetched for an application that has been submitted with a file.
type ApplicationService struct {
	logger     logrus.FieldLogger
	store      ApplicationStore
	commonData CommonData
	fees       FeeCalculator
}

func NewApplicationService(logger logrus.FieldLogger, store ApplicationStore, commonData CommonData, fees FeeCalculator) *ApplicationService {
	return &ApplicationService{logger: logger, store: store, commonData: commonData, fees: fees}
}

// PackagingResubmissionApplicationDetails returns nil when the store has no
// application.
func (s *ApplicationService) PackagingResubmissionApplicationDetails(ctx context.Context, caller types.Caller, rawQuery string) (*types.PackagingResubmissionApplicationDetails, error) {
	details, err := s.store.PackagingResubmissionApplicationDetails(ctx, caller, rawQuery)
	if err != nil {
		return nil, fmt.Errorf("fetch packaging resubmission application details: %w", err)
	}
	if details == nil {
		return nil, nil
	}

	fileID, ok := details.SubmittedFileID()
	if !ok {
		return details, nil
	}

	synced, err := s.commonData.IsFileSynced(ctx, caller, fileID)
	if err != nil {
		s.logger.WithError(err).WithField("file_id", fileID).Error("failed to check file sync")
		return nil, fmt.Errorf("check file sync: %w", err)
	}
	details.SynapseResponse.IsFileSynced = synced

	return details, nil
}

func (s *ApplicationService) RegistrationApplicationDetails(ctx context.Context, caller types.Caller, rawQuery string, deadlines types.LateFeeDeadlines) (*types.RegistrationApplicationDetails, error) {
	details, err := s.store.RegistrationApplicationDetails(ctx, caller, rawQuery)
	if err != nil {
		return nil, fmt.Errorf("fetch registration application details: %w", err)
	}
	if details == nil {
		return nil, nil
	}

	fileID, ok := details.SubmittedFileID()
	if !ok {
		return details, nil
	}

	fees, err := s.fees.RegistrationFeeCalculationDetails(ctx, caller, fileID, deadlines)
	if err != nil {
		s.logger.WithError(err).WithField("file_id", fileID).Error("failed to fetch registration fee calculation details")
		return nil, fmt.Errorf("fetch registration fee calculation details: %w", err)
	}
	details.RegistrationFeeCalculationDetails = fees

	return details, nil
}

// PackagingResubmissionMemberDetails returns nil when there is nothing to
// show. Unmet preconditions come back as a response carrying ErrorMessage.
func (s *ApplicationService) PackagingResubmissionMemberDetails(ctx context.Context, caller types.Caller, submissionID uuid.UUID, complianceSchemeID string) (*types.MemberResponse, error) {
	resp, err := s.commonData.PackagingResubmissionMemberDetails(ctx, caller, submissionID, complianceSchemeID)
	if err != nil {
		s.logger.WithError(err).WithField("submission_id", submissionID).Error("failed to fetch member details")
		return nil, fmt.Errorf("fetch member details: %w", err)
	}
	return resp, nil
}
