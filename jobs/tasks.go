// Package jobs defines the background task types and the Asynq worker that
// processes them.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeReceiptEmail is the task type for purchase receipt emails.
	TaskTypeReceiptEmail = "mail:receipt"
	// TaskTypeWelcomeEmail is the task type for registration welcome emails.
	TaskTypeWelcomeEmail = "mail:welcome"
)

// ReceiptEmailPayload describes a purchase receipt email.
type ReceiptEmailPayload struct {
	To          string `json:"to"`
	CourseTitle string `json:"course_title"`
	PriceCents  int64  `json:"price_cents"`
}

// WelcomeEmailPayload describes a registration welcome email.
type WelcomeEmailPayload struct {
	To   string `json:"to"`
	Name string `json:"name"`
}

// NewReceiptEmailTask constructs an Asynq task for a receipt email.
func NewReceiptEmailTask(payload ReceiptEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReceiptEmail, data), nil
}

// NewWelcomeEmailTask constructs an Asynq task for a welcome email.
func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWelcomeEmail, data), nil
}

// HandleReceiptEmailTask processes TaskTypeReceiptEmail tasks. Delivery
// goes through an external mail service; here the worker logs the send.
func HandleReceiptEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload ReceiptEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	slog.Info("receipt email sent",
		slog.String("to", payload.To),
		slog.String("course", payload.CourseTitle),
		slog.Int64("price_cents", payload.PriceCents))
	return nil
}

// HandleWelcomeEmailTask processes TaskTypeWelcomeEmail tasks.
func HandleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	slog.Info("welcome email sent",
		slog.String("to", payload.To),
		slog.String("name", payload.Name))
	return nil
}
