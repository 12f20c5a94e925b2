package shipper

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Sentinel display values written when nothing could be quoted.
const (
	NoMethodsAvailable = "No methods available"
	NoPriceAvailable   = "No price available"
	NoRatesAvailable   = "No rates available"
)

// Best is the cheapest offer for one destination candidate, ready for display.
type Best struct {
	Label   string
	Methods string // newline-joined "Carrier (Service)" of every quote at the minimum
	Price   string // "$12.00", or NoPriceAvailable
	Found   bool
	Min     decimal.Decimal
}

// Aggregation is everything written back for one shipment row.
type Aggregation struct {
	Listing string // one line per quote, or NoRatesAvailable
	Best    map[string]Best
	Quotes  []RateQuote
}

// Collect flattens the quotes of every Ok call result, keeping call order.
func Collect(results []CallResult) []RateQuote {
	var quotes []RateQuote
	for _, r := range results {
		if r.Skipped() {
			continue
		}
		quotes = append(quotes, r.Quotes...)
	}
	return quotes
}

// Aggregate builds the full listing and the per-candidate cheapest offers.
// Every candidate gets a Best entry; empty ones carry the sentinel values.
func Aggregate(quotes []RateQuote, candidates []DestinationCandidate) Aggregation {
	agg := Aggregation{
		Listing: Listing(quotes),
		Best:    make(map[string]Best, len(candidates)),
		Quotes:  quotes,
	}
	for _, c := range candidates {
		agg.Best[c.Label] = Cheapest(c.Label, Partition(quotes, c.Label))
	}
	return agg
}

// Partition returns the quotes carrying the given candidate label, in order.
func Partition(quotes []RateQuote, label string) []RateQuote {
	var out []RateQuote
	for _, q := range quotes {
		if q.Label == label {
			out = append(out, q)
		}
	}
	return out
}

// Cheapest selects the minimum price of a partition and every quote tied at
// that price. Ties are reported in the order the quotes were collected.
func Cheapest(label string, quotes []RateQuote) Best {
	if len(quotes) == 0 {
		return Best{
			Label:   label,
			Methods: NoMethodsAvailable,
			Price:   NoPriceAvailable,
		}
	}

	minPrice := quotes[0].Price
	for _, q := range quotes[1:] {
		if q.Price.LessThan(minPrice) {
			minPrice = q.Price
		}
	}

	var methods []string
	for _, q := range quotes {
		if q.Price.Equal(minPrice) {
			methods = append(methods, fmt.Sprintf("%s (%s)", q.Carrier, q.Service))
		}
	}

	return Best{
		Label:   label,
		Methods: strings.Join(methods, "\n"),
		Price:   FormatPrice(minPrice),
		Found:   true,
		Min:     minPrice,
	}
}

// Listing renders every quote as "Carrier: $x.xx (Service, label)", one per line.
func Listing(quotes []RateQuote) string {
	if len(quotes) == 0 {
		return NoRatesAvailable
	}
	lines := make([]string, len(quotes))
	for i, q := range quotes {
		lines[i] = fmt.Sprintf("%s: %s (%s, %s)", q.Carrier, FormatPrice(q.Price), q.Service, q.Label)
	}
	return strings.Join(lines, "\n")
}

// FormatPrice renders a price in dollars with two decimals.
func FormatPrice(p decimal.Decimal) string {
	return "$" + p.StringFixed(2)
}
