package docstate

import "sync"

// memoryBackend is the default Backend: an in-memory map guarded by its own
// mutex. Spec §5 notes the single executor already serializes access to
// document state, but the cache is kept lock-safe independently so a
// Valkey-backed Backend and a direct unit test can both exercise it without
// relying on that external guarantee.
type memoryBackend struct {
	mu      sync.Mutex
	entries map[Key]Entry
}

// NewMemoryBackend constructs the default in-process Backend.
func NewMemoryBackend() Backend {
	return &memoryBackend{entries: make(map[Key]Entry)}
}

func (b *memoryBackend) Get(key Key) (Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	return e, ok
}

func (b *memoryBackend) Put(key Key, entry Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = entry
}

func (b *memoryBackend) EvictOlderVersions(uri string, keepVersion int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for key := range b.entries {
		if key.URI == uri && key.Version < keepVersion {
			delete(b.entries, key)
		}
	}
}

// Cache is the orchestrator-facing handle onto a Backend (spec §4.7).
type Cache struct {
	backend Backend
}

// New constructs a Cache over backend. Pass NewMemoryBackend() for the
// default single-process behavior.
func New(backend Backend) *Cache {
	return &Cache{backend: backend}
}

// Get looks up the cached entry for (uri, version).
func (c *Cache) Get(uri string, version int) (Entry, bool) {
	return c.backend.Get(Key{URI: uri, Version: version})
}

// Put stores entry under (uri, version), then evicts every strictly older
// cached version of uri.
func (c *Cache) Put(uri string, version int, entry Entry) {
	c.backend.Put(Key{URI: uri, Version: version}, entry)
	c.backend.EvictOlderVersions(uri, version)
}
