package bookingRepo

import (
	"context"
	"errors"

	"lashbook/models"
)

// ErrNotFound is returned when no confirmed booking matches a lookup.
var ErrNotFound = errors.New("booking: not found")

// ErrDuplicateReference is returned by Create when a confirmed booking
// already exists for the booking reference. Confirmed bookings are
// append-only: one reference maps to at most one record.
var ErrDuplicateReference = errors.New("booking: duplicate booking reference")

// BookingRepository persists confirmed bookings. The booking reference is
// the idempotency key for the confirmation pipeline, so GetByReference and
// GetByPaymentReference back the Confirm short-circuit.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByReference(ctx context.Context, bookingReference string) (*models.Booking, error)
	GetByPaymentReference(ctx context.Context, paymentReference string) (*models.Booking, error)
	SetCalendarEventID(ctx context.Context, id, eventID string) error
}
