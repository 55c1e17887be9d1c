package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	ledgerRepo "lashbook/database/repository/ledger"
	"lashbook/models"

	"go.uber.org/zap"
)

// ReservationManager guarantees mutually exclusive ownership of a
// (date, timeSlot) pair across concurrent checkouts.
type ReservationManager interface {
	// Reserve claims the slot for the reference. First writer under the
	// slot's key lock wins; losers get ErrSlotTaken.
	Reserve(ctx context.Context, date, timeSlot, bookingReference string) error
	// Release removes the reservation held by the reference. Releasing a
	// reservation that no longer exists is not an error.
	Release(ctx context.Context, bookingReference string) error
	// SweepExpired discards abandoned reservations and returns how many
	// were removed.
	SweepExpired(ctx context.Context) (int, error)
}

// DefaultReservationManager implements ReservationManager on the ledger
// store. Besides the reservation record under the slot key, it keeps a
// reverse index from the booking reference to the slot key so release never
// scans.
type DefaultReservationManager struct {
	Store  ledgerRepo.Store
	TTL    time.Duration
	Logger *zap.Logger
}

func NewDefaultReservationManager(store ledgerRepo.Store, ttl time.Duration, logger *zap.Logger) *DefaultReservationManager {
	return &DefaultReservationManager{Store: store, TTL: ttl, Logger: logger}
}

func (m *DefaultReservationManager) Reserve(ctx context.Context, date, timeSlot, bookingReference string) error {
	slotKey := ledgerRepo.SlotKey(date, timeSlot)

	return m.Store.WithKeyLock(slotKey, func() error {
		var existing models.Reservation
		err := ledgerRepo.ReadJSON(ctx, m.Store, slotKey, &existing)
		switch {
		case err == nil:
			// An unexpired reservation wins; an abandoned one is reclaimed.
			if time.Since(existing.CreatedAt) < m.TTL {
				return ErrSlotTaken
			}
			m.Logger.Info("reclaiming abandoned reservation",
				zap.String("slot", slotKey),
				zap.String("staleReference", existing.BookingReference),
			)
			if derr := m.Store.Delete(ctx, ledgerRepo.SlotRefKey(existing.BookingReference)); derr != nil {
				return fmt.Errorf("reservation: drop stale index: %w", derr)
			}
		case !errors.Is(err, ledgerRepo.ErrNotFound):
			return err
		}

		res := models.Reservation{
			Date:             date,
			TimeSlot:         timeSlot,
			BookingReference: bookingReference,
			CreatedAt:        time.Now(),
		}
		if err := ledgerRepo.WriteJSON(ctx, m.Store, slotKey, &res); err != nil {
			return err
		}
		if err := m.Store.Put(ctx, ledgerRepo.SlotRefKey(bookingReference), []byte(slotKey)); err != nil {
			// Undo the reservation record while the lock is still held so a
			// failed reserve never leaves the slot claimed.
			if derr := m.Store.Delete(ctx, slotKey); derr != nil {
				m.Logger.Error("failed to undo reservation after index write failure",
					zap.String("slot", slotKey),
					zap.String("reference", bookingReference),
					zap.Error(derr),
				)
			}
			return err
		}
		m.Logger.Info("slot reserved",
			zap.String("date", date),
			zap.String("timeSlot", timeSlot),
			zap.String("reference", bookingReference),
		)
		return nil
	})
}

func (m *DefaultReservationManager) Release(ctx context.Context, bookingReference string) error {
	refKey := ledgerRepo.SlotRefKey(bookingReference)
	slotKeyRaw, err := m.Store.Get(ctx, refKey)
	if errors.Is(err, ledgerRepo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	slotKey := string(slotKeyRaw)

	return m.Store.WithKeyLock(slotKey, func() error {
		var existing models.Reservation
		err := ledgerRepo.ReadJSON(ctx, m.Store, slotKey, &existing)
		if errors.Is(err, ledgerRepo.ErrNotFound) {
			return m.Store.Delete(ctx, refKey)
		}
		if err != nil {
			return err
		}
		// The slot may have been reclaimed and re-reserved by someone else;
		// only the owning reference may release it.
		if existing.BookingReference == bookingReference {
			if err := m.Store.Delete(ctx, slotKey); err != nil {
				return err
			}
		}
		return m.Store.Delete(ctx, refKey)
	})
}

func (m *DefaultReservationManager) SweepExpired(ctx context.Context) (int, error) {
	records, err := m.Store.List(ctx, ledgerRepo.SlotPrefix())
	if err != nil {
		return 0, err
	}

	swept := 0
	for key, raw := range records {
		var res models.Reservation
		if err := json.Unmarshal(raw, &res); err != nil {
			m.Logger.Warn("skipping undecodable reservation", zap.String("key", key), zap.Error(err))
			continue
		}
		if time.Since(res.CreatedAt) < m.TTL {
			continue
		}
		slotKey := key
		err := m.Store.WithKeyLock(slotKey, func() error {
			// Re-read under the lock: the slot may have been re-reserved
			// since the scan.
			var current models.Reservation
			if err := ledgerRepo.ReadJSON(ctx, m.Store, slotKey, &current); err != nil {
				if errors.Is(err, ledgerRepo.ErrNotFound) {
					return nil
				}
				return err
			}
			if time.Since(current.CreatedAt) < m.TTL {
				return nil
			}
			if err := m.Store.Delete(ctx, slotKey); err != nil {
				return err
			}
			if err := m.Store.Delete(ctx, ledgerRepo.SlotRefKey(current.BookingReference)); err != nil {
				return err
			}
			swept++
			return nil
		})
		if err != nil {
			return swept, err
		}
	}
	if swept > 0 {
		m.Logger.Info("swept abandoned reservations", zap.Int("count", swept))
	}
	return swept, nil
}
