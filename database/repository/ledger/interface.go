package ledgerRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no record exists under a key.
var ErrNotFound = errors.New("ledger: record not found")

// Store is durable key -> JSON record persistence with per-key serialized
// access. Every ledger in the system (reservations, pending bookings, promo
// codes, gift cards, client profiles) is built on top of it. Mutations made
// inside WithKeyLock are durable before the lock is released, and no
// read-modify-write sequence against a key may run outside WithKeyLock.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// List returns all records whose key starts with prefix, keyed by full key.
	List(ctx context.Context, prefix string) (map[string][]byte, error)
	// WithKeyLock serializes fn against every other caller locking the same
	// key. Unrelated keys proceed independently. fn's error is returned as-is.
	WithKeyLock(key string, fn func() error) error
}

// ReadJSON loads and decodes the record under key into v.
func ReadJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("ledger: decode record %q: %w", key, err)
	}
	return nil
}

// WriteJSON encodes v and stores it under key.
func WriteJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ledger: encode record %q: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}
