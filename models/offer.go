package models

import "encoding/json"

// Segment is one leg of travel within a slice: a single flight, drive, or ride.
type Segment struct {
	Carrier         string `bson:"carrier" json:"carrier"`                   // Marketing carrier or operator code
	Number          string `bson:"number" json:"number"`                     // Flight or vehicle number
	Origin          string `bson:"origin" json:"origin"`                     // IATA code or pickup location
	Destination     string `bson:"destination" json:"destination"`           // IATA code or dropoff location
	DepartureTime   string `bson:"departure_time" json:"departure_time"`     // RFC3339 local timestamp as given upstream
	ArrivalTime     string `bson:"arrival_time" json:"arrival_time"`         // RFC3339 local timestamp as given upstream
	DurationMinutes int    `bson:"duration_minutes" json:"duration_minutes"` // Normalized from upstream ISO-8601 durations
	Equipment       string `bson:"equipment,omitempty" json:"equipment,omitempty"`
}

// Slice is an ordered sequence of segments sold as one direction of travel.
type Slice struct {
	Segments        []Segment `bson:"segments" json:"segments"`
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes"`
}

// OfferPricing carries normalized money fields. Total is always a non-negative
// number in Currency, whatever format the upstream used.
type OfferPricing struct {
	Currency string  `bson:"currency" json:"currency"`
	Total    float64 `bson:"total" json:"total"`
	Base     float64 `bson:"base" json:"base"`
	Taxes    float64 `bson:"taxes" json:"taxes"`
}

// CanonicalOffer is the unified internal representation of a bookable item,
// independent of which provider produced it.
type CanonicalOffer struct {
	Provider   string          `bson:"provider" json:"provider"`
	OfferID    string          `bson:"offer_id" json:"offer_id"` // The provider's own offer identifier
	Kind       string          `bson:"kind" json:"kind"`         // "flight", "hotel", "car", "tour", "transfer"
	Slices     []Slice         `bson:"slices,omitempty" json:"slices,omitempty"`
	Pricing    OfferPricing    `bson:"pricing" json:"pricing"`
	Cabins     []string        `bson:"cabins,omitempty" json:"cabins,omitempty"` // Deduplicated cabin/category codes
	Refundable *bool           `bson:"refundable,omitempty" json:"refundable,omitempty"`
	Raw        json.RawMessage `bson:"raw,omitempty" json:"raw,omitempty"` // Untouched upstream payload
}
