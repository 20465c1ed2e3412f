package booking

import (
	"context"

	"voyago/models"
	"voyago/services/provider"
)

// Orchestrator drives the post-payment issuance sequence exactly once per
// order number.
type Orchestrator interface {
	ConfirmPayment(ctx context.Context, orderNumber, paymentRef string) (*models.BookingRecord, error)
}

// FlightBooker is the slice of the flight adapter the orchestrator needs:
// re-quoting before purchase and issuing the order.
type FlightBooker interface {
	provider.PricingAdapter
	provider.BookingAdapter
}

// Mailer delivers booking outcomes best-effort. A delivery problem must never
// fail the booking itself.
type Mailer interface {
	EnqueueBookingConfirmation(ctx context.Context, recipient string, record *models.BookingRecord) error
}
