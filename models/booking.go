package models

import (
	"encoding/json"
	"time"
)

// Booking status values as stored on BookingRecord.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusBooked    = "BOOKED"
	BookingStatusFailed    = "FAILED"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusUnknown   = "UNKNOWN"
)

// Traveler identifies one passenger/guest on a booking.
type Traveler struct {
	ID          string `bson:"id" json:"id"`
	FirstName   string `bson:"first_name" json:"first_name" binding:"required"`
	LastName    string `bson:"last_name" json:"last_name" binding:"required"`
	DateOfBirth string `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	Gender      string `bson:"gender,omitempty" json:"gender,omitempty"`
	Email       string `bson:"email,omitempty" json:"email,omitempty"`
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// CanonicalBookingResult is the unified shape of an issued upstream reservation.
type CanonicalBookingResult struct {
	Provider         string           `bson:"provider" json:"provider"`
	ProviderOrderID  string           `bson:"provider_order_id" json:"provider_order_id"`
	BookingReference *string          `bson:"booking_reference,omitempty" json:"booking_reference,omitempty"`
	CreatedAt        time.Time        `bson:"created_at" json:"created_at"`
	Travelers        []Traveler       `bson:"travelers,omitempty" json:"travelers,omitempty"`
	Offers           []CanonicalOffer `bson:"offers,omitempty" json:"offers,omitempty"`
	Status           string           `bson:"status" json:"status"` // CONFIRMED, PENDING, CANCELLED, UNKNOWN
	Raw              json.RawMessage  `bson:"raw,omitempty" json:"raw,omitempty"`
}

// BookingRecord is the persisted booking row, keyed by order number.
// The unique index on OrderNumber doubles as the idempotency marker:
// duplicate confirmation triggers race on it and exactly one proceeds.
type BookingRecord struct {
	OrderNumber      string                   `bson:"order_number" json:"order_number"`
	Status           string                   `bson:"status" json:"status"`
	ProviderOrderID  string                   `bson:"provider_order_id,omitempty" json:"provider_order_id,omitempty"`
	BookingReference *string                  `bson:"booking_reference,omitempty" json:"booking_reference,omitempty"`
	Total            float64                  `bson:"total" json:"total"`
	Currency         string                   `bson:"currency" json:"currency"`
	Results          []CanonicalBookingResult `bson:"results,omitempty" json:"results,omitempty"`
	ConfirmedRefs    []string                 `bson:"confirmed_refs,omitempty" json:"confirmed_refs,omitempty"` // References issued before a mid-sequence failure
	FailureCause     string                   `bson:"failure_cause,omitempty" json:"failure_cause,omitempty"`
	CreatedAt        time.Time                `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time                `bson:"updated_at" json:"updated_at"`
}
