package booking

import (
	"errors"
	"fmt"
)

// ErrIntentNotFound means no booking intent exists for the order number; the
// checkout either never started or the intent expired.
var ErrIntentNotFound = errors.New("booking intent not found or expired")

// ErrBookingInProgress means another trigger for the same order number holds
// the idempotency marker and has not reached a terminal state yet.
var ErrBookingInProgress = errors.New("booking already in progress for this order")

// PaymentNotConfirmed rejects a confirmation trigger whose payment reference
// does not correspond to a succeeded payment. The redirect that carries the
// trigger is client-controlled and replayable, so it is never trusted on its own.
type PaymentNotConfirmed struct {
	OrderNumber string
	PaymentRef  string
	Status      string
}

func (e *PaymentNotConfirmed) Error() string {
	return fmt.Sprintf("payment %s for order %s is not confirmed (status %s)", e.PaymentRef, e.OrderNumber, e.Status)
}

// TotalBookingFailure means no offer was issued; nothing upstream needs
// reconciliation.
type TotalBookingFailure struct {
	OrderNumber string
	Cause       error
}

func (e *TotalBookingFailure) Error() string {
	return fmt.Sprintf("booking failed for order %s: %v", e.OrderNumber, e.Cause)
}

func (e *TotalBookingFailure) Unwrap() error {
	return e.Cause
}

// PartialBookingFailure means some offers were issued before one failed. The
// confirmed references are retained so an operator can reconcile the
// already-purchased offers; they are never silently discarded.
type PartialBookingFailure struct {
	OrderNumber   string
	ConfirmedRefs []string
	FailedOfferID string
	Cause         error
}

func (e *PartialBookingFailure) Error() string {
	return fmt.Sprintf("booking partially failed for order %s: offer %s failed after %d confirmed: %v",
		e.OrderNumber, e.FailedOfferID, len(e.ConfirmedRefs), e.Cause)
}

func (e *PartialBookingFailure) Unwrap() error {
	return e.Cause
}
