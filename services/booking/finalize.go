package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "lashbook/database/repository/booking"
	"lashbook/services/calendar"
	"lashbook/services/client"
	"lashbook/services/notification"

	"go.uber.org/zap"
)

// Finalizer performs the post-commit side effects for a confirmed booking:
// calendar event, client profile upsert, confirmation email. Every step is
// best-effort and idempotent, so the same booking id can be finalized more
// than once (queue retries) without harm.
type Finalizer struct {
	Bookings bookingRepo.BookingRepository
	Calendar calendar.Service
	Profiles client.ProfileService
	Notifier notification.Sender
	Logger   *zap.Logger
}

// Run executes the side effects. It returns an error only when the booking
// itself cannot be loaded; individual effect failures are logged and
// surfaced to operators, never unwound into the booking.
func (f *Finalizer) Run(ctx context.Context, bookingID string) error {
	booking, err := f.Bookings.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return fmt.Errorf("finalize: booking %s not found", bookingID)
	}
	if err != nil {
		return fmt.Errorf("finalize: load booking %s: %w", bookingID, err)
	}

	if f.Calendar != nil && booking.CalendarEventID == "" {
		eventID, err := f.Calendar.CreateEvent(ctx, booking)
		if err != nil {
			f.Logger.Error("calendar event creation failed",
				zap.String("bookingId", bookingID), zap.Error(err))
		} else if err := f.Bookings.SetCalendarEventID(ctx, bookingID, eventID); err != nil {
			f.Logger.Error("failed to attach calendar event to booking",
				zap.String("bookingId", bookingID), zap.Error(err))
		}
	}

	if f.Profiles != nil {
		if err := f.Profiles.UpsertFromBooking(ctx, booking); err != nil {
			f.Logger.Error("client profile upsert failed",
				zap.String("bookingId", bookingID), zap.Error(err))
		}
	}

	if f.Notifier != nil {
		if err := f.Notifier.SendBookingConfirmation(ctx, booking); err != nil {
			f.Logger.Error("confirmation email failed",
				zap.String("bookingId", bookingID), zap.Error(err))
		}
	}
	return nil
}
