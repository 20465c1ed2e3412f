package provider

import "fmt"

// ProviderNotConfigured means no base URL could be resolved for the provider;
// no network call is attempted in that state.
type ProviderNotConfigured struct {
	Provider string
}

func (e *ProviderNotConfigured) Error() string {
	return fmt.Sprintf("provider %s is not configured", e.Provider)
}

// ProviderSearchFailed wraps an upstream search error together with the
// status code and payload the upstream returned.
type ProviderSearchFailed struct {
	Provider string
	Status   int
	Body     string
	Cause    error
}

func (e *ProviderSearchFailed) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search failed for %s: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("search failed for %s: upstream status %d", e.Provider, e.Status)
}

func (e *ProviderSearchFailed) Unwrap() error {
	return e.Cause
}

// ProviderBookingFailed wraps an upstream reservation error. Kept distinct
// from search failures so a persisted failure cause names the operation that
// actually failed.
type ProviderBookingFailed struct {
	Provider string
	Status   int
	Body     string
	Cause    error
}

func (e *ProviderBookingFailed) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("booking failed for %s: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("booking failed for %s: upstream status %d", e.Provider, e.Status)
}

func (e *ProviderBookingFailed) Unwrap() error {
	return e.Cause
}

// ProviderPricingFailed wraps an upstream re-quote error.
type ProviderPricingFailed struct {
	Provider string
	Status   int
	Body     string
	Cause    error
}

func (e *ProviderPricingFailed) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pricing failed for %s: %v", e.Provider, e.Cause)
	}
	return fmt.Sprintf("pricing failed for %s: upstream status %d", e.Provider, e.Status)
}

func (e *ProviderPricingFailed) Unwrap() error {
	return e.Cause
}
