package provider

import (
	"context"
	"strings"

	"voyago/models"
)

// SearchAdapter is the operation every provider adapter supports.
type SearchAdapter interface {
	Provider() string
	Kind() string
	Search(ctx context.Context, criteria models.SearchCriteria) ([]models.CanonicalOffer, error)
}

// DetailsAdapter fetches a single offer by its provider id.
type DetailsAdapter interface {
	Details(ctx context.Context, offerID string) (*models.CanonicalOffer, error)
}

// PricingAdapter re-quotes held offers for an authoritative total before
// booking. Flights only.
type PricingAdapter interface {
	Price(ctx context.Context, offers []models.CanonicalOffer) ([]models.CanonicalOffer, error)
}

// BookingAdapter instructs the upstream to create a reservation. Book is NOT
// idempotent here; every invocation issues a new reservation upstream, and
// exactly-once semantics are the orchestrator's responsibility.
type BookingAdapter interface {
	Book(ctx context.Context, offers []models.CanonicalOffer, travelers []models.Traveler) (*models.CanonicalBookingResult, error)
}

// Registry holds the configured adapters keyed by provider id.
type Registry struct {
	adapters map[string]SearchAdapter
}

// NewRegistry builds a registry from the given adapters.
func NewRegistry(adapters ...SearchAdapter) *Registry {
	m := make(map[string]SearchAdapter, len(adapters))
	for _, a := range adapters {
		m[strings.ToLower(a.Provider())] = a
	}
	return &Registry{adapters: m}
}

// Lookup returns the adapter for a provider id, or nil when unknown.
func (r *Registry) Lookup(provider string) SearchAdapter {
	return r.adapters[strings.ToLower(provider)]
}
