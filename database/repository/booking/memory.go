package bookingRepo

import (
	"context"
	"sync"

	"lashbook/models"
)

// MemoryBookingRepo is an in-process BookingRepository for tests and local
// development. It enforces the same bookingReference uniqueness as the
// Mongo implementation.
type MemoryBookingRepo struct {
	mu    sync.RWMutex
	byRef map[string]*models.Booking
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{byRef: make(map[string]*models.Booking)}
}

func (r *MemoryBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byRef[booking.BookingReference]; exists {
		return ErrDuplicateReference
	}
	cp := *booking
	r.byRef[booking.BookingReference] = &cp
	return nil
}

func (r *MemoryBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.find(func(b *models.Booking) bool { return b.ID == id })
}

func (r *MemoryBookingRepo) GetByReference(ctx context.Context, ref string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byRef[ref]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *MemoryBookingRepo) GetByPaymentReference(ctx context.Context, payRef string) (*models.Booking, error) {
	return r.find(func(b *models.Booking) bool { return b.PaymentReference == payRef })
}

func (r *MemoryBookingRepo) SetCalendarEventID(ctx context.Context, id, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.byRef {
		if b.ID == id {
			b.CalendarEventID = eventID
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryBookingRepo) find(match func(*models.Booking) bool) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.byRef {
		if match(b) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}
