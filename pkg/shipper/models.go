package shipper

import (
	"github.com/shopspring/decimal"
)

// WeightUnit represents weight measurement unit.
type WeightUnit string

const WeightPounds WeightUnit = "pounds"

// DimensionUnit represents dimension measurement unit.
type DimensionUnit string

const DimensionInches DimensionUnit = "inches"

// Confirmation is the delivery confirmation mode sent with every rate request.
type Confirmation string

const ConfirmationDelivery Confirmation = "delivery"

// DefaultCountry is the destination country every request is normalized to.
const DefaultCountry = "US"

// Candidate labels.
const (
	LabelPrimary   = "to postal code 1"
	LabelSecondary = "to postal code 2"
)

// ShipmentRequest is one row of the input dataset.
type ShipmentRequest struct {
	OriginPostalCode    string
	DestinationState    string
	DestinationCountry  string
	PrimaryPostalCode   string
	SecondaryPostalCode string // Optional
	DestinationCity     string
	Weight              float64 // pounds
	Length              float64 // inches
	Width               float64 // inches
	Height              float64 // inches
	Residential         bool
}

// HasSecondary reports whether the request carries a second destination postal code.
func (r ShipmentRequest) HasSecondary() bool {
	return trimmed(r.SecondaryPostalCode) != ""
}

// DestinationCandidate is one destination postal code to shop rates for.
type DestinationCandidate struct {
	PostalCode string
	Label      string
}

// CarrierSpec identifies a carrier by its provider code and display name.
type CarrierSpec struct {
	Code string
	Name string
}

// RateQuote is one carrier/service price offer for one candidate.
type RateQuote struct {
	Carrier string
	Service string
	Price   decimal.Decimal
	Label   string
}

// RateRequest is a single rate call: one shipment, one candidate, one carrier.
type RateRequest struct {
	Shipment  ShipmentRequest
	Candidate DestinationCandidate
	Carrier   CarrierSpec
}

// CallResult is the outcome of one (candidate, carrier) rate call. A call is
// either Ok, carrying zero or more quotes, or skipped with a reason.
type CallResult struct {
	Candidate DestinationCandidate
	Carrier   CarrierSpec
	Quotes    []RateQuote
	Reason    error
}

// Ok returns a successful call result.
func Ok(req *RateRequest, quotes []RateQuote) CallResult {
	return CallResult{
		Candidate: req.Candidate,
		Carrier:   req.Carrier,
		Quotes:    quotes,
	}
}

// Skip returns a call result that yielded no quotes because of a soft failure.
func Skip(req *RateRequest, reason error) CallResult {
	return CallResult{
		Candidate: req.Candidate,
		Carrier:   req.Carrier,
		Reason:    reason,
	}
}

// Skipped reports whether the call was a soft failure.
func (r CallResult) Skipped() bool {
	return r.Reason != nil
}
