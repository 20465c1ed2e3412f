package booking

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// PaymentVerifier checks that a payment reference corresponds to money
// actually captured before any issuance happens.
type PaymentVerifier interface {
	Verify(ctx context.Context, orderNumber, paymentRef string) error
}

// StripePaymentVerifier verifies card payments against the gateway. The
// global stripe key is set from config at startup.
type StripePaymentVerifier struct {
	Logger *zap.Logger
}

// Verify retrieves the payment intent and requires a succeeded status.
func (v *StripePaymentVerifier) Verify(ctx context.Context, orderNumber, paymentRef string) error {
	pi, err := paymentintent.Get(paymentRef, nil)
	if err != nil {
		return fmt.Errorf("failed to verify payment %s: %w", paymentRef, err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		v.Logger.Warn("payment confirmation rejected",
			zap.String("orderNumber", orderNumber),
			zap.String("paymentRef", paymentRef),
			zap.String("status", string(pi.Status)))
		return &PaymentNotConfirmed{
			OrderNumber: orderNumber,
			PaymentRef:  paymentRef,
			Status:      string(pi.Status),
		}
	}
	return nil
}
