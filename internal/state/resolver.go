// Package state binds registered field descriptors to an external key-value
// store through deterministic scoped addressing.
//
// # Failure modes
//
// Read never fails for unset state: the caller's fallback (or nothing) comes
// back. Reading or writing a field name that was never registered panics
// immediately. That asymmetry is deliberate: missing data is normal, a
// missing registration is a defect in a tag module and must not be silently
// tolerated.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/vk/contentgraph/internal/ctxlog"
	"github.com/vk/contentgraph/internal/field"
	"github.com/vk/contentgraph/internal/statekey"
	"github.com/vk/contentgraph/internal/statestore"
)

// ErrStaleWrite reports that a stamped write lost to a newer writer for the
// same key and was discarded.
var ErrStaleWrite = errors.New("state: stale write discarded")

// Resolver reads and writes scoped field state. Resolvers derived with
// WithPrefix share the table, store, and write-generation state of their
// parent; only the instantiation prefix differs.
type Resolver struct {
	table  *field.Table
	store  statestore.Store
	prefix string

	gens *generations
}

// generations tracks a monotonic write counter per key, shared across all
// prefix-derived resolvers.
type generations struct {
	mu   sync.Mutex
	next map[statekey.Key]uint64
}

// New creates a resolver over the given field table and store, with no
// instantiation prefix.
func New(table *field.Table, store statestore.Store) *Resolver {
	return &Resolver{
		table: table,
		store: store,
		gens:  &generations{next: make(map[statekey.Key]uint64)},
	}
}

// WithPrefix derives a resolver whose component-scope keys are qualified by
// the given instantiation prefix. Two instances of the same repeated template
// get independent state this way even though they share raw ids.
func (r *Resolver) WithPrefix(prefix string) *Resolver {
	derived := *r
	derived.prefix = prefix
	return &derived
}

// Prefix returns the resolver's instantiation prefix, if any.
func (r *Resolver) Prefix() string {
	return r.prefix
}

// Key derives the storage key for a descriptor and raw id. Panics when the
// descriptor is not present in the resolver's table.
func (r *Resolver) Key(d *field.Descriptor, rawID string) statekey.Key {
	r.table.MustLookup(d.Name)
	return statekey.ForDescriptor(d, rawID, r.prefix)
}

// ReadOptions selects the target and unset behavior of a Read.
type ReadOptions struct {
	// ID is the raw node id the field is read for.
	ID string
	// Fallback is returned when the key has never been written. When nil,
	// the descriptor's default is returned instead.
	Fallback any
}

// Read returns the field value for the given target. It never fails for
// unset state: the fallback (or the descriptor default) is returned when the
// key is absent or the backend errs.
func (r *Resolver) Read(ctx context.Context, d *field.Descriptor, opts ReadOptions) any {
	key := r.Key(d, opts.ID)
	value, ok, err := r.store.Get(ctx, key)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("State read failed, using fallback.", "key", key.String(), "error", err)
		ok = false
	}
	if !ok {
		if opts.Fallback != nil {
			return opts.Fallback
		}
		return d.Default
	}
	return value
}

// WriteOptions selects the target of a Write.
type WriteOptions struct {
	// ID is the raw node id the field is written for.
	ID string
}

// Write stores value at the resolved key. Subscribers of that exact key are
// notified by the store; unrelated keys are not. Plain writes are
// last-write-wins; overlapping async writers should use Stamp/WriteStamped.
func (r *Resolver) Write(ctx context.Context, d *field.Descriptor, value any, opts WriteOptions) error {
	key := r.Key(d, opts.ID)
	ctxlog.FromContext(ctx).Debug("Writing field.", "key", key.String(), "event", d.MutationEvent)
	return r.store.Set(ctx, key, value)
}

// Subscribe registers fn for changes to the field at the given target id.
func (r *Resolver) Subscribe(d *field.Descriptor, rawID string, fn statestore.ChangeFunc) statestore.CancelFunc {
	return r.store.Subscribe(r.Key(d, rawID), fn)
}

// WriteStamp is a claim on the next write to one key. Issuing a newer stamp
// for the same key invalidates all earlier ones.
type WriteStamp struct {
	key statekey.Key
	gen uint64
}

// Stamp claims the next write to the field at the given target. An async
// operation takes a stamp before starting; by the time it completes, a newer
// operation may have claimed the key, and the older write will be discarded.
func (r *Resolver) Stamp(d *field.Descriptor, rawID string) WriteStamp {
	key := r.Key(d, rawID)
	r.gens.mu.Lock()
	defer r.gens.mu.Unlock()
	r.gens.next[key]++
	return WriteStamp{key: key, gen: r.gens.next[key]}
}

// WriteStamped performs a guarded write: when stamp is no longer the newest
// claim on its key, the write is discarded and ErrStaleWrite is returned.
func (r *Resolver) WriteStamped(ctx context.Context, d *field.Descriptor, value any, stamp WriteStamp, opts WriteOptions) error {
	key := r.Key(d, opts.ID)
	if key != stamp.key {
		return errors.New("state: stamp was issued for a different key")
	}
	r.gens.mu.Lock()
	current := r.gens.next[key]
	r.gens.mu.Unlock()
	if current != stamp.gen {
		ctxlog.FromContext(ctx).Debug("Discarding stale write.", "key", key.String(), "stamp", stamp.gen, "current", current)
		return ErrStaleWrite
	}
	return r.store.Set(ctx, key, value)
}
