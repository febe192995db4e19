package database

import (
	"fmt"
	"slices"
	"sync"

	"databazaar/internal/bazaar"
	"databazaar/internal/record"
)

// MemoryStore is an in-memory implementation of bazaar.Storage.
// Listings are held in their encoded form, so every read decodes a fresh copy
// and callers can never reach the stored state. Useful for tests and for
// throwaway sessions. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[uint64][]byte
	nextID   uint64
	isClosed bool
}

// NewMemoryStore creates an empty in-memory store whose first identifier is 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uint64][]byte),
		nextID:  1,
	}
}

// Next returns the next identifier and advances the counter.
func (m *MemoryStore) Next() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isClosed {
		return 0, errStoreClosed
	}
	id := m.nextID
	m.nextID++
	return id, nil
}

// Insert stores listing under id, overwriting any existing record.
func (m *MemoryStore) Insert(id uint64, listing *bazaar.Listing) error {
	b := record.Encode(listing)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isClosed {
		return errStoreClosed
	}
	m.records[id] = b
	return nil
}

// Update is identical to Insert.
func (m *MemoryStore) Update(id uint64, listing *bazaar.Listing) error {
	return m.Insert(id, listing)
}

// Get returns the listing stored under id, or nil if there is none.
func (m *MemoryStore) Get(id uint64) (*bazaar.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.isClosed {
		return nil, errStoreClosed
	}
	b, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	l, err := record.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("decoding listing %d: %w", id, err)
	}
	return l, nil
}

// Scan returns all listings in ascending identifier order.
func (m *MemoryStore) Scan() ([]*bazaar.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.isClosed {
		return nil, errStoreClosed
	}

	ids := make([]uint64, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	result := make([]*bazaar.Listing, 0, len(ids))
	for _, id := range ids {
		l, err := record.Decode(m.records[id])
		if err != nil {
			return nil, fmt.Errorf("decoding listing %d: %w", id, err)
		}
		result = append(result, l)
	}
	return result, nil
}

// Close discards all state. Further calls fail.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = nil
	m.isClosed = true
	return nil
}

// Compile-time check that MemoryStore implements bazaar.Storage interface
var _ bazaar.Storage = (*MemoryStore)(nil)
