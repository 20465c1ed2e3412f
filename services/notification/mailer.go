package notification

import (
	"context"
	"fmt"

	"voyago/models"
	"voyago/services/tasks"

	"github.com/hibiken/asynq"
)

// AsynqMailer enqueues confirmation emails onto the mail queue. Delivery
// happens asynchronously in the worker so a slow or down mail path never
// blocks the booking response.
type AsynqMailer struct {
	Client *asynq.Client
}

func NewAsynqMailer(client *asynq.Client) (*AsynqMailer, error) {
	if client == nil {
		return nil, fmt.Errorf("mailer initialization error: asynq client is nil")
	}
	return &AsynqMailer{Client: client}, nil
}

// EnqueueBookingConfirmation queues one confirmation email task.
func (m *AsynqMailer) EnqueueBookingConfirmation(ctx context.Context, recipient string, record *models.BookingRecord) error {
	task, opts, err := tasks.NewBookingConfirmationTask(tasks.MailPayload{
		Recipient: recipient,
		Record:    record,
	})
	if err != nil {
		return fmt.Errorf("failed to build confirmation mail task: %w", err)
	}
	if _, err := m.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue confirmation mail: %w", err)
	}
	return nil
}
