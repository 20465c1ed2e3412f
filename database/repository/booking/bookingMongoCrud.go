// File: database/repository/booking/bookingMongoCrud.go
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voyago/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Claim inserts a fresh PENDING record for the order number. A duplicate-key
// error means another trigger already claimed the order; that is reported as
// (false, nil) so the caller can consult the existing record instead.
func (r *MongoBookingRepo) Claim(ctx context.Context, rec *models.BookingRecord) (bool, error) {
	now := time.Now()
	rec.Status = models.BookingStatusPending
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim booking %s: %w", rec.OrderNumber, err)
	}
	return true, nil
}

// GetByOrderNumber retrieves a booking record by its order number.
func (r *MongoBookingRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.BookingRecord, error) {
	var rec models.BookingRecord
	err := r.coll.FindOne(ctx, bson.M{"order_number": orderNumber}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", orderNumber, err)
	}
	return &rec, nil
}

// MarkBooked transitions a PENDING record to BOOKED with the full result set.
func (r *MongoBookingRepo) MarkBooked(ctx context.Context, orderNumber string, update BookedUpdate) error {
	filter := bson.M{"order_number": orderNumber, "status": models.BookingStatusPending}
	set := bson.M{
		"status":            models.BookingStatusBooked,
		"provider_order_id": update.ProviderOrderID,
		"booking_reference": update.BookingReference,
		"total":             update.Total,
		"currency":          update.Currency,
		"results":           update.Results,
		"updated_at":        time.Now(),
	}

	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to mark booking %s booked: %w", orderNumber, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("booking %s is not pending", orderNumber)
	}
	return nil
}

// MarkFailed transitions a PENDING record to FAILED, retaining any references
// that were already issued so an operator can reconcile.
func (r *MongoBookingRepo) MarkFailed(ctx context.Context, orderNumber string, update FailedUpdate) error {
	filter := bson.M{"order_number": orderNumber, "status": models.BookingStatusPending}
	set := bson.M{
		"status":         models.BookingStatusFailed,
		"failure_cause":  update.FailureCause,
		"confirmed_refs": update.ConfirmedRefs,
		"results":        update.Results,
		"updated_at":     time.Now(),
	}

	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to mark booking %s failed: %w", orderNumber, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("booking %s is not pending", orderNumber)
	}
	return nil
}

// ListFailed returns FAILED records, most recent first, for manual reconciliation.
func (r *MongoBookingRepo) ListFailed(ctx context.Context, limit int64) ([]models.BookingRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{"status": models.BookingStatusFailed}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list failed bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.BookingRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode failed bookings: %w", err)
	}
	return records, nil
}
