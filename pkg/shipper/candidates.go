package shipper

import (
	"strings"
)

// Carrier codes as understood by the rating provider.
const (
	CarrierFedEx = "fedex"
	CarrierUPS   = "ups"
	CarrierUSPS  = "stamps_com"
)

// Carriers returns the fixed carrier set in enumeration order. The order is
// also the order in which tied cheapest quotes are reported.
func Carriers() []CarrierSpec {
	return []CarrierSpec{
		{Code: CarrierFedEx, Name: "FedEx"},
		{Code: CarrierUPS, Name: "UPS"},
		{Code: CarrierUSPS, Name: "USPS"},
	}
}

// TargetServices maps the service codes worth quoting to their display names.
// Anything the provider returns outside this set is dropped.
var TargetServices = map[string]string{
	"fedex_ground":          "FedEx Ground",
	"fedex_home_delivery":   "FedEx Home Delivery",
	"ups_ground":            "UPS Ground",
	"usps_parcel_select":    "USPS Parcel Select Ground",
	"usps_ground_advantage": "USPS Ground Advantage",
}

// IsTargetService reports whether code is on the service allow-list.
func IsTargetService(code string) bool {
	_, ok := TargetServices[code]
	return ok
}

// Normalize forces the destination country to US and marks the shipment as
// residential, whatever the dataset says.
func Normalize(req ShipmentRequest) ShipmentRequest {
	req.DestinationCountry = DefaultCountry
	req.Residential = true
	req.PrimaryPostalCode = trimmed(req.PrimaryPostalCode)
	req.SecondaryPostalCode = trimmed(req.SecondaryPostalCode)
	return req
}

// BuildCandidates returns the destination candidates for a shipment: the
// primary postal code always, the secondary one only when it is set.
func BuildCandidates(req ShipmentRequest) []DestinationCandidate {
	candidates := []DestinationCandidate{
		{PostalCode: trimmed(req.PrimaryPostalCode), Label: LabelPrimary},
	}
	if req.HasSecondary() {
		candidates = append(candidates, DestinationCandidate{
			PostalCode: trimmed(req.SecondaryPostalCode),
			Label:      LabelSecondary,
		})
	}
	return candidates
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
