package models

import "time"

// Intent status values.
const (
	IntentStatusPending = "PENDING"
	IntentStatusBooked  = "BOOKED"
	IntentStatusFailed  = "FAILED"
)

// BookingIntent is the ephemeral record of what a customer is about to buy.
// Created when checkout starts, read back when the payment redirect returns,
// cleared once a terminal state has been observed by the caller.
type BookingIntent struct {
	OrderNumber   string           `bson:"order_number" json:"order_number"`
	Currency      string           `bson:"currency" json:"currency"`
	Total         float64          `bson:"total" json:"total"`
	Offers        []CanonicalOffer `bson:"offers" json:"offers"`
	Travelers     []Traveler       `bson:"travelers" json:"travelers"`
	PaymentMethod string           `bson:"payment_method" json:"payment_method"` // "card" or "cash"
	Email         string           `bson:"email,omitempty" json:"email,omitempty"`
	Status        string           `bson:"status" json:"status"`
	CreatedAt     time.Time        `bson:"created_at" json:"created_at"`
}
