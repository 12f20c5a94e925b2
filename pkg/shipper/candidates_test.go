package shipper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/rateshop/pkg/shipper"
)

func TestBuildCandidates_PrimaryOnly(t *testing.T) {
	req := shipper.ShipmentRequest{PrimaryPostalCode: "90210"}

	candidates := shipper.BuildCandidates(req)

	require.Len(t, candidates, 1)
	assert.Equal(t, shipper.DestinationCandidate{PostalCode: "90210", Label: shipper.LabelPrimary}, candidates[0])
	for _, c := range candidates {
		assert.NotEqual(t, shipper.LabelSecondary, c.Label)
	}
}

func TestBuildCandidates_BlankSecondaryIgnored(t *testing.T) {
	req := shipper.ShipmentRequest{PrimaryPostalCode: "90210", SecondaryPostalCode: "   "}

	assert.Len(t, shipper.BuildCandidates(req), 1)
	assert.False(t, req.HasSecondary())
}

func TestBuildCandidates_WithSecondary(t *testing.T) {
	req := shipper.ShipmentRequest{PrimaryPostalCode: "90210", SecondaryPostalCode: " 10001 "}

	candidates := shipper.BuildCandidates(req)

	require.Len(t, candidates, 2)
	assert.Equal(t, shipper.LabelPrimary, candidates[0].Label)
	assert.Equal(t, shipper.DestinationCandidate{PostalCode: "10001", Label: shipper.LabelSecondary}, candidates[1])
}

func TestNormalize_ForcesCountryAndResidential(t *testing.T) {
	req := shipper.ShipmentRequest{DestinationCountry: "CA", Residential: false}

	got := shipper.Normalize(req)

	assert.Equal(t, "US", got.DestinationCountry)
	assert.True(t, got.Residential)
}

func TestCarriers_Order(t *testing.T) {
	carriers := shipper.Carriers()

	require.Len(t, carriers, 3)
	assert.Equal(t, "fedex", carriers[0].Code)
	assert.Equal(t, "ups", carriers[1].Code)
	assert.Equal(t, "stamps_com", carriers[2].Code)
	assert.Equal(t, "USPS", carriers[2].Name)
}

func TestIsTargetService(t *testing.T) {
	assert.True(t, shipper.IsTargetService("fedex_ground"))
	assert.True(t, shipper.IsTargetService("usps_ground_advantage"))
	assert.False(t, shipper.IsTargetService("fedex_2day"))
	assert.False(t, shipper.IsTargetService(""))
}
