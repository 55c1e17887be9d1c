package ledgerRepo

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want %v", err, ErrNotFound)
	}

	if err := s.Put(ctx, "k1", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	raw, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(raw) != `{"a":1}` {
		t.Errorf("Get() = %s, want {\"a\":1}", raw)
	}

	// Stored bytes are isolated from caller mutation.
	raw[0] = 'X'
	again, _ := s.Get(ctx, "k1")
	if string(again) != `{"a":1}` {
		t.Errorf("stored value mutated through returned slice: %s", again)
	}

	if err := s.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after delete error = %v, want %v", err, ErrNotFound)
	}
	// Deleting again is a no-op.
	if err := s.Delete(ctx, "k1"); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	records := map[string]string{
		"slot:2026-09-01:10:00": "a",
		"slot:2026-09-01:11:00": "b",
		"pending:BK-1":          "c",
	}
	for k, v := range records {
		if err := s.Put(ctx, k, []byte(v)); err != nil {
			t.Fatalf("Put(%q) error = %v", k, err)
		}
	}

	slots, err := s.List(ctx, "slot:")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("List(slot:) returned %d records, want 2", len(slots))
	}
	if _, ok := slots["pending:BK-1"]; ok {
		t.Error("List(slot:) leaked a pending record")
	}
}

func TestWithKeyLockSerializesPerKey(t *testing.T) {
	s := NewMemoryStore()

	// 100 goroutines doing read-modify-write under the same key lock must
	// never lose an increment.
	ctx := context.Background()
	if err := s.Put(ctx, "counter", []byte{'0'}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithKeyLock("counter", func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	if counter != 100 {
		t.Fatalf("counter = %d, want 100", counter)
	}
}

func TestWithKeyLockAllowsNestedDistinctKeys(t *testing.T) {
	s := NewMemoryStore()

	// The confirmation pipeline locks a booking's confirm key and then its
	// pending, slot and promo keys inside the critical section. Distinct
	// keys must nest without deadlocking.
	done := make(chan error, 1)
	go func() {
		done <- s.WithKeyLock("confirm:BK-1", func() error {
			return s.WithKeyLock("pending:BK-1", func() error {
				return s.WithKeyLock("slot:2026-09-01:10:00", func() error {
					return s.WithKeyLock("promo:WELCOME", func() error {
						return nil
					})
				})
			})
		})
	}()
	if err := <-done; err != nil {
		t.Fatalf("nested WithKeyLock() error = %v", err)
	}
}

func TestReadWriteJSON(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type rec struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	if err := WriteJSON(ctx, s, "r1", rec{Name: "ada", Count: 3}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var got rec
	if err := ReadJSON(ctx, s, "r1", &got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.Name != "ada" || got.Count != 3 {
		t.Errorf("ReadJSON() = %+v, want {ada 3}", got)
	}

	if err := ReadJSON(ctx, s, "absent", &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadJSON() on missing key error = %v, want %v", err, ErrNotFound)
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"summer-10", "SUMMER10"},
		{" Summer 10 ", "SUMMER10"},
		{"GIFT100", "GIFT100"},
		{"g i-f t", "GIFT"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCode(tt.in); got != tt.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
