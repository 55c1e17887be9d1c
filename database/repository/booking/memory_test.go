package bookingRepo

import (
	"context"
	"errors"
	"testing"

	"lashbook/models"
)

func TestCreateEnforcesUniqueReference(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo()

	booking := &models.Booking{
		ID:               "id-1",
		BookingReference: "BK-1",
		PaymentReference: "PAY-1",
		Status:           models.BookingStatusConfirmed,
	}
	if err := repo.Create(ctx, booking); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dup := &models.Booking{ID: "id-2", BookingReference: "BK-1", PaymentReference: "PAY-2"}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrDuplicateReference) {
		t.Fatalf("duplicate Create() error = %v, want %v", err, ErrDuplicateReference)
	}
}

func TestLookups(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo()

	booking := &models.Booking{
		ID:               "id-1",
		BookingReference: "BK-1",
		PaymentReference: "PAY-1",
	}
	if err := repo.Create(ctx, booking); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	byRef, err := repo.GetByReference(ctx, "BK-1")
	if err != nil {
		t.Fatalf("GetByReference() error = %v", err)
	}
	if byRef.ID != "id-1" {
		t.Errorf("GetByReference().ID = %v, want id-1", byRef.ID)
	}

	byPay, err := repo.GetByPaymentReference(ctx, "PAY-1")
	if err != nil {
		t.Fatalf("GetByPaymentReference() error = %v", err)
	}
	if byPay.ID != "id-1" {
		t.Errorf("GetByPaymentReference().ID = %v, want id-1", byPay.ID)
	}

	byID, err := repo.GetByID(ctx, "id-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if byID.BookingReference != "BK-1" {
		t.Errorf("GetByID().BookingReference = %v, want BK-1", byID.BookingReference)
	}

	if _, err := repo.GetByReference(ctx, "BK-NOPE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByReference() on missing ref error = %v, want %v", err, ErrNotFound)
	}
}

func TestSetCalendarEventID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo()

	if err := repo.Create(ctx, &models.Booking{ID: "id-1", BookingReference: "BK-1"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.SetCalendarEventID(ctx, "id-1", "evt-9"); err != nil {
		t.Fatalf("SetCalendarEventID() error = %v", err)
	}

	booking, err := repo.GetByID(ctx, "id-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if booking.CalendarEventID != "evt-9" {
		t.Errorf("CalendarEventID = %v, want evt-9", booking.CalendarEventID)
	}
	if err := repo.SetCalendarEventID(ctx, "id-missing", "evt-9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetCalendarEventID() on missing booking error = %v, want %v", err, ErrNotFound)
	}
}
