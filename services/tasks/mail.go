package tasks

import (
	"encoding/json"

	"voyago/models"

	"github.com/hibiken/asynq"
)

const TypeBookingConfirmation = "mail:booking_confirmation"

// MailPayload is the queued unit of work for one confirmation email.
type MailPayload struct {
	Recipient string                `json:"recipient"`
	Record    *models.BookingRecord `json:"record"`
}

func NewBookingConfirmationTask(payload MailPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingConfirmation, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Queue("default")}

	return task, opts, nil
}
