package booking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	ledgerRepo "lashbook/database/repository/ledger"
	"lashbook/models"

	"go.uber.org/zap"
)

// PendingStore holds tentative bookings keyed by booking reference between
// checkout and payment confirmation.
type PendingStore interface {
	Create(ctx context.Context, pending models.PendingBooking) error
	Get(ctx context.Context, bookingReference string) (*models.PendingBooking, error)
	// Consume atomically reads and deletes the pending booking in one locked
	// step, so a retried confirmation can never reprocess the same payload.
	Consume(ctx context.Context, bookingReference string) (*models.PendingBooking, error)
	// Restore puts a consumed pending booking back. Used only by the
	// confirmation rollback path when the confirmed write fails.
	Restore(ctx context.Context, pending models.PendingBooking) error
	SweepExpired(ctx context.Context) (int, error)
}

// DefaultPendingStore implements PendingStore on the ledger store.
type DefaultPendingStore struct {
	Store  ledgerRepo.Store
	TTL    time.Duration
	Logger *zap.Logger
}

func NewDefaultPendingStore(store ledgerRepo.Store, ttl time.Duration, logger *zap.Logger) *DefaultPendingStore {
	return &DefaultPendingStore{Store: store, TTL: ttl, Logger: logger}
}

func (s *DefaultPendingStore) Create(ctx context.Context, pending models.PendingBooking) error {
	key := ledgerRepo.PendingKey(pending.BookingReference)
	return s.Store.WithKeyLock(key, func() error {
		if _, err := s.Store.Get(ctx, key); err == nil {
			return ErrDuplicateReference
		} else if !errors.Is(err, ledgerRepo.ErrNotFound) {
			return err
		}
		if pending.CreatedAt.IsZero() {
			pending.CreatedAt = time.Now()
		}
		return ledgerRepo.WriteJSON(ctx, s.Store, key, &pending)
	})
}

func (s *DefaultPendingStore) Get(ctx context.Context, bookingReference string) (*models.PendingBooking, error) {
	var pending models.PendingBooking
	err := ledgerRepo.ReadJSON(ctx, s.Store, ledgerRepo.PendingKey(bookingReference), &pending)
	if errors.Is(err, ledgerRepo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pending, nil
}

func (s *DefaultPendingStore) Consume(ctx context.Context, bookingReference string) (*models.PendingBooking, error) {
	key := ledgerRepo.PendingKey(bookingReference)

	var pending models.PendingBooking
	err := s.Store.WithKeyLock(key, func() error {
		if err := ledgerRepo.ReadJSON(ctx, s.Store, key, &pending); err != nil {
			if errors.Is(err, ledgerRepo.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		return s.Store.Delete(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return &pending, nil
}

func (s *DefaultPendingStore) Restore(ctx context.Context, pending models.PendingBooking) error {
	key := ledgerRepo.PendingKey(pending.BookingReference)
	return s.Store.WithKeyLock(key, func() error {
		return ledgerRepo.WriteJSON(ctx, s.Store, key, &pending)
	})
}

func (s *DefaultPendingStore) SweepExpired(ctx context.Context) (int, error) {
	records, err := s.Store.List(ctx, ledgerRepo.PendingPrefix())
	if err != nil {
		return 0, err
	}

	swept := 0
	for key, raw := range records {
		var pending models.PendingBooking
		if err := json.Unmarshal(raw, &pending); err != nil {
			s.Logger.Warn("skipping undecodable pending booking", zap.String("key", key), zap.Error(err))
			continue
		}
		if time.Since(pending.CreatedAt) < s.TTL {
			continue
		}
		pendingKey := key
		err := s.Store.WithKeyLock(pendingKey, func() error {
			var current models.PendingBooking
			if err := ledgerRepo.ReadJSON(ctx, s.Store, pendingKey, &current); err != nil {
				if errors.Is(err, ledgerRepo.ErrNotFound) {
					return nil
				}
				return err
			}
			if time.Since(current.CreatedAt) < s.TTL {
				return nil
			}
			if err := s.Store.Delete(ctx, pendingKey); err != nil {
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
		s.Logger.Info("swept expired pending bookings", zap.Int("count", swept))
	}
	return swept, nil
}
