package notification

import (
	"context"
	"fmt"

	"voyago/models"
	"voyago/services/invoice"
	"voyago/utils"

	"go.uber.org/zap"
)

// EmailSender delivers a rendered confirmation email. The worker calls it
// once per dequeued task.
type EmailSender interface {
	SendBookingConfirmation(ctx context.Context, recipient string, record *models.BookingRecord) error
}

// DefaultEmailSender renders the invoice and hands the message to the mail
// gateway. Until a gateway account is provisioned the outgoing message is
// logged in full.
type DefaultEmailSender struct {
	Invoices invoice.Generator
}

func NewDefaultEmailSender(gen invoice.Generator) (*DefaultEmailSender, error) {
	if gen == nil {
		return nil, fmt.Errorf("email sender initialization error: invoice generator is nil")
	}
	return &DefaultEmailSender{Invoices: gen}, nil
}

func (s *DefaultEmailSender) SendBookingConfirmation(ctx context.Context, recipient string, record *models.BookingRecord) error {
	body, err := s.Invoices.Generate(record)
	if err != nil {
		return fmt.Errorf("SendBookingConfirmation: could not render invoice for %s: %w", record.OrderNumber, err)
	}

	subject := fmt.Sprintf("Your booking %s is confirmed", record.OrderNumber)
	if record.Status == models.BookingStatusFailed {
		subject = fmt.Sprintf("Your booking %s needs attention", record.OrderNumber)
	}

	utils.GetLogger().Info("Sending booking confirmation email",
		zap.String("recipient", recipient),
		zap.String("subject", subject),
		zap.Int("bodyBytes", len(body)))
	return nil
}
