package ledgerRepo

import "sync"

// keyMutex hands out one mutex per exact key, created on demand and dropped
// when the last holder releases it. Exact-key granularity matters: the
// confirmation pipeline nests locks (booking reference, then pending key,
// slot key, promo key, gift-card key), so two distinct keys must never
// share a mutex.
type keyMutex struct {
	mu      sync.Mutex
	entries map[string]*keyLockEntry
}

type keyLockEntry struct {
	mu   sync.Mutex
	refs int
}

// withLock runs fn while holding the mutex for key.
func (m *keyMutex) withLock(key string, fn func() error) error {
	m.mu.Lock()
	if m.entries == nil {
		m.entries = make(map[string]*keyLockEntry)
	}
	entry, ok := m.entries[key]
	if !ok {
		entry = &keyLockEntry{}
		m.entries[key] = entry
	}
	entry.refs++
	m.mu.Unlock()

	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(m.entries, key)
		}
		m.mu.Unlock()
	}()
	return fn()
}
