package booking

import (
	"context"

	"lashbook/models"
)

// CheckoutService runs the pre-payment half of the pipeline: claim the
// slot, freeze the draft payload, open the gateway transaction.
type CheckoutService interface {
	StartCheckout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResponse, error)
}

// ConfirmationService runs the post-payment half. Both the gateway webhook
// and the client-driven confirm endpoint funnel into the one Confirm
// operation; there is no second path.
type ConfirmationService interface {
	// Confirm verifies the payment and idempotently promotes the pending
	// booking. alreadyConfirmed is true when the reference had been
	// promoted before; that is a success, not an error.
	Confirm(ctx context.Context, bookingReference, paymentReference string) (booking *models.Booking, alreadyConfirmed bool, err error)
	// Lookup returns the confirmed booking for a reference.
	Lookup(ctx context.Context, bookingReference string) (*models.Booking, error)
}

// TaskQueue enqueues post-commit side-effect work for the background
// worker.
type TaskQueue interface {
	EnqueueBookingFinalize(ctx context.Context, bookingID string) error
}
