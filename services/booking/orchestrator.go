package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "voyago/database/repository/booking"
	"voyago/models"
	"voyago/services/provider"

	"go.uber.org/zap"
)

// issuanceTimeout bounds the whole detached pricing+booking sequence.
const issuanceTimeout = 5 * time.Minute

// DefaultOrchestrator is the production implementation of the post-payment
// state machine: replay guard, PRICING, sequential BOOKING, terminal persist.
type DefaultOrchestrator struct {
	Intents  IntentStore
	Bookings bookingRepo.BookingRepository
	Flights  FlightBooker
	Bookers  map[string]provider.BookingAdapter // non-flight adapters keyed by provider id
	Payments PaymentVerifier
	Mailer   Mailer
	Logger   *zap.Logger
}

// ConfirmPayment handles one payment-confirmation trigger. Replayed triggers
// for an order that already reached a terminal state return the stored record
// without any upstream call.
func (o *DefaultOrchestrator) ConfirmPayment(ctx context.Context, orderNumber, paymentRef string) (*models.BookingRecord, error) {
	// Replay guard, first pass: a terminal record short-circuits everything.
	if rec, err := o.Bookings.GetByOrderNumber(ctx, orderNumber); err != nil {
		return nil, err
	} else if rec != nil {
		return o.replay(rec)
	}

	intent, err := o.Intents.Get(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	// The redirect that delivered this trigger is replayable and forgeable;
	// card payments are verified against the gateway before issuance.
	if intent.PaymentMethod == "card" {
		if err := o.Payments.Verify(ctx, orderNumber, paymentRef); err != nil {
			return nil, err
		}
	} else {
		o.Logger.Warn("skipping gateway verification for offline payment",
			zap.String("orderNumber", orderNumber),
			zap.String("method", intent.PaymentMethod))
	}

	// Claim the idempotency marker. Losing the race means another trigger
	// got here first; defer to whatever it produced.
	claimed, err := o.Bookings.Claim(ctx, &models.BookingRecord{
		OrderNumber: orderNumber,
		Total:       intent.Total,
		Currency:    intent.Currency,
	})
	if err != nil {
		return nil, err
	}
	if !claimed {
		rec, err := o.Bookings.GetByOrderNumber(ctx, orderNumber)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, ErrBookingInProgress
		}
		return o.replay(rec)
	}

	// From here on the work must run to completion even if the inbound
	// request is cancelled: an abandoned partial purchase is worse than a
	// slow response.
	dctx, cancel := context.WithTimeout(context.Background(), issuanceTimeout)
	defer cancel()

	return o.issue(dctx, intent)
}

// replay surfaces a previously persisted outcome. BOOKED and FAILED are both
// terminal; a PENDING record means a concurrent trigger is still working.
func (o *DefaultOrchestrator) replay(rec *models.BookingRecord) (*models.BookingRecord, error) {
	switch rec.Status {
	case models.BookingStatusBooked, models.BookingStatusFailed:
		o.Logger.Info("replayed booking trigger served from stored record",
			zap.String("orderNumber", rec.OrderNumber),
			zap.String("status", rec.Status))
		return rec, nil
	default:
		return nil, ErrBookingInProgress
	}
}

// issue runs PRICING then the sequential BOOKING loop for a claimed order.
func (o *DefaultOrchestrator) issue(ctx context.Context, intent *models.BookingIntent) (*models.BookingRecord, error) {
	orderNumber := intent.OrderNumber

	offers, total, err := o.price(ctx, intent)
	if err != nil {
		o.persistFailure(ctx, intent, bookingRepo.FailedUpdate{FailureCause: err.Error()})
		return nil, &TotalBookingFailure{OrderNumber: orderNumber, Cause: err}
	}

	// Sequential by design: upstream booking APIs rate-limit per account,
	// and a mid-loop failure must know exactly which offers already issued.
	var results []models.CanonicalBookingResult
	var confirmedRefs []string
	for _, offer := range offers {
		result, err := o.bookOne(ctx, offer, intent.Travelers)
		if err != nil {
			update := bookingRepo.FailedUpdate{
				FailureCause:  err.Error(),
				ConfirmedRefs: confirmedRefs,
				Results:       results,
			}
			o.persistFailure(ctx, intent, update)
			if len(confirmedRefs) > 0 {
				return nil, &PartialBookingFailure{
					OrderNumber:   orderNumber,
					ConfirmedRefs: confirmedRefs,
					FailedOfferID: offer.OfferID,
					Cause:         err,
				}
			}
			return nil, &TotalBookingFailure{OrderNumber: orderNumber, Cause: err}
		}
		results = append(results, *result)
		confirmedRefs = append(confirmedRefs, referenceOf(result))
	}

	// The first successful booking's reference is canonical.
	update := bookingRepo.BookedUpdate{
		Total:    total,
		Currency: intent.Currency,
		Results:  results,
	}
	if len(results) > 0 {
		update.ProviderOrderID = results[0].ProviderOrderID
		update.BookingReference = results[0].BookingReference
	}
	if err := o.Bookings.MarkBooked(ctx, orderNumber, update); err != nil {
		// The upstream purchases went through; surface the record as booked
		// and leave the persistence discrepancy to the logs.
		o.Logger.Error("failed to persist booked state",
			zap.String("orderNumber", orderNumber), zap.Error(err))
	}

	rec, err := o.Bookings.GetByOrderNumber(ctx, orderNumber)
	if err != nil || rec == nil {
		rec = &models.BookingRecord{
			OrderNumber:      orderNumber,
			Status:           models.BookingStatusBooked,
			ProviderOrderID:  update.ProviderOrderID,
			BookingReference: update.BookingReference,
			Total:            total,
			Currency:         intent.Currency,
			Results:          results,
		}
	}

	o.notify(intent, rec)

	// Terminal outcome observed by the caller; the intent is done.
	if err := o.Intents.Clear(ctx, orderNumber); err != nil {
		o.Logger.Warn("failed to clear booking intent", zap.String("orderNumber", orderNumber), zap.Error(err))
	}
	return rec, nil
}

// price re-quotes flight offers for an authoritative total; non-flight offers
// keep the totals they were held at.
func (o *DefaultOrchestrator) price(ctx context.Context, intent *models.BookingIntent) ([]models.CanonicalOffer, float64, error) {
	var flights, others []models.CanonicalOffer
	for _, offer := range intent.Offers {
		if offer.Kind == "flight" {
			flights = append(flights, offer)
		} else {
			others = append(others, offer)
		}
	}

	if len(flights) > 0 {
		priced, err := o.Flights.Price(ctx, flights)
		if err != nil {
			return nil, 0, err
		}
		flights = priced
	}

	offers := append(flights, others...)
	var total float64
	for _, offer := range offers {
		total += offer.Pricing.Total
	}

	o.Logger.Info("order priced",
		zap.String("orderNumber", intent.OrderNumber),
		zap.Float64("total", total),
		zap.String("currency", intent.Currency),
		zap.Int("offers", len(offers)))
	return offers, total, nil
}

func (o *DefaultOrchestrator) bookOne(ctx context.Context, offer models.CanonicalOffer, travelers []models.Traveler) (*models.CanonicalBookingResult, error) {
	if offer.Kind == "flight" {
		return o.Flights.Book(ctx, []models.CanonicalOffer{offer}, travelers)
	}
	booker := o.Bookers[offer.Provider]
	if booker == nil {
		return nil, &provider.ProviderNotConfigured{Provider: offer.Provider}
	}
	return booker.Book(ctx, []models.CanonicalOffer{offer}, travelers)
}

// persistFailure marks the order FAILED and mails the customer so they know
// to contact support; the confirmed subset rides along for reconciliation.
func (o *DefaultOrchestrator) persistFailure(ctx context.Context, intent *models.BookingIntent, update bookingRepo.FailedUpdate) {
	orderNumber := intent.OrderNumber
	if err := o.Bookings.MarkFailed(ctx, orderNumber, update); err != nil {
		o.Logger.Error("failed to persist failed state",
			zap.String("orderNumber", orderNumber), zap.Error(err))
	}

	rec, err := o.Bookings.GetByOrderNumber(ctx, orderNumber)
	if err != nil || rec == nil {
		rec = &models.BookingRecord{
			OrderNumber:   orderNumber,
			Status:        models.BookingStatusFailed,
			FailureCause:  update.FailureCause,
			ConfirmedRefs: update.ConfirmedRefs,
			Results:       update.Results,
		}
	}
	o.notify(intent, rec)
}

// notify dispatches the outcome email best-effort, for BOOKED and FAILED
// alike. Delivery problems are logged as soft warnings and never change the
// outcome.
func (o *DefaultOrchestrator) notify(intent *models.BookingIntent, rec *models.BookingRecord) {
	if o.Mailer == nil || intent.Email == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.Mailer.EnqueueBookingConfirmation(ctx, intent.Email, rec); err != nil {
		o.Logger.Warn("booking confirmation email not enqueued",
			zap.String("orderNumber", rec.OrderNumber), zap.Error(err))
	}
}

func referenceOf(result *models.CanonicalBookingResult) string {
	if result.BookingReference != nil && *result.BookingReference != "" {
		return *result.BookingReference
	}
	return fmt.Sprintf("%s:%s", result.Provider, result.ProviderOrderID)
}
