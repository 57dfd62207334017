// Package statestore defines the interface for the externally-owned
// key-value store that holds all mutable field state.
//
// # Why the store is external
//
// The graph core never owns field values: it only derives keys and hands them
// to whichever backend the hosting session chose. Parsing a new document
// replaces the id map wholesale but leaves stored state untouched; lifetime
// of the values is the session's concern.
//
// # Notification model
//
// Subscriptions are fine-grained: a write to one key notifies only the
// subscribers of that exact key, never all observers of a node. The in-memory
// backend delivers notifications synchronously inside Set; distributed
// backends may deliver asynchronously, and the core assumes no batching
// either way.
package statestore

import (
	"context"

	"github.com/vk/contentgraph/internal/statekey"
)

// ChangeFunc is invoked when the value at a subscribed key changes.
type ChangeFunc func(key statekey.Key, value any)

// CancelFunc removes a subscription. Safe to call more than once.
type CancelFunc func()

// Store is a flat key-value backend for scoped field state.
type Store interface {
	// Get retrieves the value at key. The second return is false when the
	// key has never been written.
	Get(ctx context.Context, key statekey.Key) (any, bool, error)

	// Set stores value at key and notifies subscribers of that exact key.
	Set(ctx context.Context, key statekey.Key, value any) error

	// Subscribe registers fn for changes to exactly key. The returned cancel
	// function removes the subscription.
	Subscribe(key statekey.Key, fn ChangeFunc) CancelFunc

	// Close releases backend resources.
	Close() error
}
