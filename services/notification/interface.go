package notification

import (
	"context"

	"lashbook/models"
)

// Sender delivers client-facing notifications. Fire-and-forget: failures
// are logged by callers and never propagate into the booking pipeline.
type Sender interface {
	Send(ctx context.Context, msg models.EmailMessage) error
	SendBookingConfirmation(ctx context.Context, booking *models.Booking) error
}
