package shipper

import (
	"context"
	"fmt"
	"sync"
)

// Registry holds the carriers to shop, in enumeration order.
type Registry struct {
	carriers []CarrierSpec
	index    map[string]int
	mu       sync.RWMutex
}

// NewRegistry creates a new, empty carrier registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// DefaultRegistry returns a registry holding the fixed FedEx, UPS, USPS set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range Carriers() {
		r.Register(c)
	}
	return r
}

// Register adds a carrier. Registering an existing code replaces its display
// name but keeps its position.
func (r *Registry) Register(c CarrierSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.index[c.Code]; ok {
		r.carriers[i] = c
		return
	}
	r.index[c.Code] = len(r.carriers)
	r.carriers = append(r.carriers, c)
}

// Get returns a carrier by code.
func (r *Registry) Get(code string) (CarrierSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i, ok := r.index[code]; ok {
		return r.carriers[i], nil
	}
	return CarrierSpec{}, fmt.Errorf("%w: %s", ErrCarrierNotFound, code)
}

// All returns all registered carriers in registration order.
func (r *Registry) All() []CarrierSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]CarrierSpec, len(r.carriers))
	copy(result, r.carriers)
	return result
}

// Shop requests rates for every (candidate, carrier) pair of a shipment, one
// call at a time: candidates in order, carriers in registration order within
// each candidate. A skipped pair never stops the remaining ones.
func (r *Registry) Shop(ctx context.Context, provider RateProvider, req ShipmentRequest) []CallResult {
	req = Normalize(req)
	candidates := BuildCandidates(req)
	carriers := r.All()

	results := make([]CallResult, 0, len(candidates)*len(carriers))
	for _, candidate := range candidates {
		for _, carrier := range carriers {
			if err := ctx.Err(); err != nil {
				results = append(results, Skip(&RateRequest{Candidate: candidate, Carrier: carrier}, err))
				continue
			}
			results = append(results, provider.GetRates(ctx, &RateRequest{
				Shipment:  req,
				Candidate: candidate,
				Carrier:   carrier,
			}))
		}
	}
	return results
}
