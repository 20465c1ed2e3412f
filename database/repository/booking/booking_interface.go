package booking

import (
	"context"

	"voyago/models"
)

// BookingRepository defines data access for persisted booking records.
type BookingRepository interface {
	// Claim inserts a fresh PENDING record for the order number. It returns
	// false without error when a record already exists, which is how the
	// replay guard detects a duplicate trigger.
	Claim(ctx context.Context, rec *models.BookingRecord) (bool, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*models.BookingRecord, error)
	MarkBooked(ctx context.Context, orderNumber string, update BookedUpdate) error
	MarkFailed(ctx context.Context, orderNumber string, update FailedUpdate) error
	ListFailed(ctx context.Context, limit int64) ([]models.BookingRecord, error)
}

// BookedUpdate carries the fields persisted on a successful issuance.
type BookedUpdate struct {
	ProviderOrderID  string
	BookingReference *string
	Total            float64
	Currency         string
	Results          []models.CanonicalBookingResult
}

// FailedUpdate carries the fields persisted on a failed issuance. ConfirmedRefs
// retains references issued before the failure so an operator can reconcile.
type FailedUpdate struct {
	FailureCause  string
	ConfirmedRefs []string
	Results       []models.CanonicalBookingResult
}
