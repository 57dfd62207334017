// Package inmemorystate provides an ephemeral, thread-safe, in-memory
// implementation of the statestore.Store interface.
//
// It is the default backend for local sessions and for tests. Writes notify
// subscribers of the exact changed key synchronously, before Set returns,
// which is the strongest delivery guarantee any backend offers.
package inmemorystate

import (
	"context"
	"sync"

	"github.com/vk/contentgraph/internal/statekey"
	"github.com/vk/contentgraph/internal/statestore"
)

// Store is an in-memory implementation of statestore.Store backed by maps
// and a sync.RWMutex.
type Store struct {
	mu     sync.RWMutex
	values map[statekey.Key]any
	subs   map[statekey.Key]map[int]statestore.ChangeFunc
	nextID int
}

// New creates a new, empty in-memory state store.
func New() *Store {
	return &Store{
		values: make(map[statekey.Key]any),
		subs:   make(map[statekey.Key]map[int]statestore.ChangeFunc),
	}
}

// Get retrieves the value at key.
func (s *Store) Get(ctx context.Context, key statekey.Key) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value at key and synchronously invokes the subscribers of that
// exact key. Subscribers of unrelated keys are not notified.
func (s *Store) Set(ctx context.Context, key statekey.Key, value any) error {
	s.mu.Lock()
	s.values[key] = value
	fns := make([]statestore.ChangeFunc, 0, len(s.subs[key]))
	for _, fn := range s.subs[key] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	// Invoked outside the lock so a subscriber may read or write state.
	for _, fn := range fns {
		fn(key, value)
	}
	return nil
}

// Subscribe registers fn for changes to exactly key.
func (s *Store) Subscribe(key statekey.Key, fn statestore.ChangeFunc) statestore.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[key] == nil {
		s.subs[key] = make(map[int]statestore.ChangeFunc)
	}
	id := s.nextID
	s.nextID++
	s.subs[key][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[key], id)
	}
}

// Close is a no-op for the in-memory backend.
func (s *Store) Close() error {
	return nil
}
