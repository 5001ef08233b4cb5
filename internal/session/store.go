package session

import (
	"sync"
)

// Store is the narrow persistence contract for in-flight booking state:
// the current trip selection, the selected plan, and open booking sessions.
// Both operations are synchronous and best-effort; writes are
// last-writer-wins with no merge.
type Store interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Delete(key string)
	Keys() []string
}

// MemoryStore is the canonical Store implementation. It also serves as
// the test fake, so handlers and services never see a concrete store type.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]interface{}),
	}
}

// Get returns the value stored under key, if any
func (s *MemoryStore) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// Set stores value under key, replacing any previous value
func (s *MemoryStore) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes the value stored under key
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Keys returns a snapshot of all keys currently in the store
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

// Well-known key prefixes. Key layout mirrors the storage keys of the
// original client: one slot per user for the in-flight selection and plan,
// one slot per session.
const (
	KeyPrefixSession       = "booking_session:"
	KeyPrefixTripSelection = "trip_selection:"
	KeyPrefixSelectedPlan  = "selected_plan:"
)

// SessionKey builds the store key for a booking session ID
func SessionKey(sessionID string) string {
	return KeyPrefixSession + sessionID
}

// TripSelectionKey builds the store key for a user's in-flight trip selection
func TripSelectionKey(userID string) string {
	return KeyPrefixTripSelection + userID
}

// SelectedPlanKey builds the store key for a user's selected plan
func SelectedPlanKey(userID string) string {
	return KeyPrefixSelectedPlan + userID
}
