package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	ledgerRepo "lashbook/database/repository/ledger"
	"lashbook/models"

	"go.uber.org/zap"
)

func TestReserveConflict(t *testing.T) {
	ctx := context.Background()
	m := NewDefaultReservationManager(ledgerRepo.NewMemoryStore(), 30*time.Minute, zap.NewNop())

	if err := m.Reserve(ctx, "2026-09-01", "10:00", "BK-A"); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if err := m.Reserve(ctx, "2026-09-01", "10:00", "BK-B"); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("second Reserve() error = %v, want %v", err, ErrSlotTaken)
	}

	// A different slot on the same day is free.
	if err := m.Reserve(ctx, "2026-09-01", "11:00", "BK-B"); err != nil {
		t.Fatalf("Reserve() on free slot error = %v", err)
	}
}

func TestConcurrentReserveSingleWinner(t *testing.T) {
	ctx := context.Background()
	m := NewDefaultReservationManager(ledgerRepo.NewMemoryStore(), 30*time.Minute, zap.NewNop())

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.Reserve(ctx, "2026-09-01", "10:00", "BK-"+string(rune('A'+i)))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else if !errors.Is(err, ErrSlotTaken) {
			t.Errorf("Reserve() error = %v, want nil or %v", err, ErrSlotTaken)
		}
	}
	if winners != 1 {
		t.Fatalf("winning reservations = %d, want exactly 1", winners)
	}
}

func TestReserveReclaimsExpired(t *testing.T) {
	ctx := context.Background()
	store := ledgerRepo.NewMemoryStore()
	m := NewDefaultReservationManager(store, 10*time.Minute, zap.NewNop())

	// Plant a reservation that is already past its TTL.
	stale := models.Reservation{
		Date:             "2026-09-01",
		TimeSlot:         "10:00",
		BookingReference: "BK-OLD",
		CreatedAt:        time.Now().Add(-time.Hour),
	}
	slotKey := ledgerRepo.SlotKey(stale.Date, stale.TimeSlot)
	if err := ledgerRepo.WriteJSON(ctx, store, slotKey, &stale); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	if err := store.Put(ctx, ledgerRepo.SlotRefKey(stale.BookingReference), []byte(slotKey)); err != nil {
		t.Fatalf("seed index: %v", err)
	}

	if err := m.Reserve(ctx, "2026-09-01", "10:00", "BK-NEW"); err != nil {
		t.Fatalf("Reserve() over stale claim error = %v", err)
	}

	var current models.Reservation
	if err := ledgerRepo.ReadJSON(ctx, store, slotKey, &current); err != nil {
		t.Fatalf("read reservation: %v", err)
	}
	if current.BookingReference != "BK-NEW" {
		t.Errorf("slot owner = %v, want BK-NEW", current.BookingReference)
	}
	if _, err := store.Get(ctx, ledgerRepo.SlotRefKey("BK-OLD")); !errors.Is(err, ledgerRepo.ErrNotFound) {
		t.Errorf("stale index still present, err = %v", err)
	}
}

func TestReleaseOnlyByOwner(t *testing.T) {
	ctx := context.Background()
	store := ledgerRepo.NewMemoryStore()
	m := NewDefaultReservationManager(store, time.Millisecond, zap.NewNop())

	if err := m.Reserve(ctx, "2026-09-01", "10:00", "BK-A"); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	// The slot expires and someone else claims it; BK-A's release must not
	// evict the new owner.
	if err := m.Reserve(ctx, "2026-09-01", "10:00", "BK-B"); err != nil {
		t.Fatalf("Reserve() after expiry error = %v", err)
	}
	if err := m.Release(ctx, "BK-A"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	var current models.Reservation
	if err := ledgerRepo.ReadJSON(ctx, store, ledgerRepo.SlotKey("2026-09-01", "10:00"), &current); err != nil {
		t.Fatalf("reservation gone after stale release: %v", err)
	}
	if current.BookingReference != "BK-B" {
		t.Errorf("slot owner = %v, want BK-B", current.BookingReference)
	}

	// Releasing something never reserved is a no-op.
	if err := m.Release(ctx, "BK-GHOST"); err != nil {
		t.Errorf("Release() of unknown reference error = %v, want nil", err)
	}
}

func TestSweepExpiredReservations(t *testing.T) {
	ctx := context.Background()
	store := ledgerRepo.NewMemoryStore()
	m := NewDefaultReservationManager(store, 10*time.Minute, zap.NewNop())

	fresh := models.Reservation{
		Date: "2026-09-01", TimeSlot: "10:00",
		BookingReference: "BK-FRESH", CreatedAt: time.Now(),
	}
	stale := models.Reservation{
		Date: "2026-09-01", TimeSlot: "11:00",
		BookingReference: "BK-STALE", CreatedAt: time.Now().Add(-time.Hour),
	}
	for _, r := range []models.Reservation{fresh, stale} {
		key := ledgerRepo.SlotKey(r.Date, r.TimeSlot)
		if err := ledgerRepo.WriteJSON(ctx, store, key, &r); err != nil {
			t.Fatalf("seed reservation: %v", err)
		}
		if err := store.Put(ctx, ledgerRepo.SlotRefKey(r.BookingReference), []byte(key)); err != nil {
			t.Fatalf("seed index: %v", err)
		}
	}

	swept, err := m.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired() error = %v", err)
	}
	if swept != 1 {
		t.Fatalf("SweepExpired() = %d, want 1", swept)
	}

	if _, err := store.Get(ctx, ledgerRepo.SlotKey("2026-09-01", "11:00")); !errors.Is(err, ledgerRepo.ErrNotFound) {
		t.Errorf("stale reservation survived the sweep, err = %v", err)
	}
	if _, err := store.Get(ctx, ledgerRepo.SlotKey("2026-09-01", "10:00")); err != nil {
		t.Errorf("fresh reservation swept, err = %v", err)
	}
}

// flakyIndexStore refuses reverse-index writes while fail is set.
type flakyIndexStore struct {
	ledgerRepo.Store
	mu   sync.Mutex
	fail bool
}

func (s *flakyIndexStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	fail := s.fail
	s.mu.Unlock()
	if fail && strings.HasPrefix(key, ledgerRepo.SlotRefKey("")) {
		return errors.New("index write refused")
	}
	return s.Store.Put(ctx, key, value)
}

func TestReserveUndoneWhenIndexWriteFails(t *testing.T) {
	ctx := context.Background()
	store := &flakyIndexStore{Store: ledgerRepo.NewMemoryStore(), fail: true}
	m := NewDefaultReservationManager(store, 30*time.Minute, zap.NewNop())

	if err := m.Reserve(ctx, "2026-09-01", "10:00", "BK-A"); err == nil {
		t.Fatal("Reserve() error = nil, want index write error")
	}

	// The failed reserve must leave no claim behind: the record is gone
	// immediately, not only once the sweep runs.
	if _, err := store.Get(ctx, ledgerRepo.SlotKey("2026-09-01", "10:00")); !errors.Is(err, ledgerRepo.ErrNotFound) {
		t.Fatalf("reservation record survived failed Reserve, err = %v", err)
	}

	store.mu.Lock()
	store.fail = false
	store.mu.Unlock()
	if err := m.Reserve(ctx, "2026-09-01", "10:00", "BK-B"); err != nil {
		t.Fatalf("Reserve() after failed attempt error = %v", err)
	}
	if err := m.Release(ctx, "BK-B"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
}
