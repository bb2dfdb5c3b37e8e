package gateway

import (
	"context"
	"net/http"
	"net/url"

	"submissionsbff/pkg/types"

	"github.com/google/uuid"
)

// roundTripLayout always carries seven fractional digits, matching the
// fee calculation service's route format.
const roundTripLayout = "2006-01-02T15:04:05.0000000Z07:00"

type FeeCalculationGateway struct {
	service
}

func NewFeeCalculationGateway(baseURL string, client *http.Client) *FeeCalculationGateway {
	return &FeeCalculationGateway{service{name: "feecalculation", baseURL: baseURL, client: client}}
}

// RegistrationFeeCalculationDetails returns nil for any non-200 answer.
func (g *FeeCalculationGateway) RegistrationFeeCalculationDetails(ctx context.Context, caller types.Caller, fileID uuid.UUID, deadlines types.LateFeeDeadlines) ([]types.RegistrationFeeCalculationDetails, error) {
	endpoint := g.url("/registration-fee-calculation-details/get-registration-fee-calculation-details/%s/%s/%s",
		fileID,
		url.PathEscape(deadlines.LargeProducer.UTC().Format(roundTripLayout)),
		url.PathEscape(deadlines.SmallProducer.UTC().Format(roundTripLayout)),
	)

	req, err := newRequest(ctx, http.MethodGet, endpoint, nil, caller)
	if err != nil {
		return nil, err
	}

	resp, err := g.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var out []types.RegistrationFeeCalculationDetails
	if err := g.decode(resp, &out); err != nil {
		return nil, err
	}

	return out, nil
}
