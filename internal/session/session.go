// Package session composes the content-graph runtime for one document: the
// blueprint registry, the field table assembled from every registered tag,
// the state resolver over the chosen store backend, and the relationship
// engine over the current parse.
//
// A session outlives re-parses: loading a new document replaces the id map
// and the inference engine wholesale but leaves field state in the store
// untouched, so authoring round-trips keep learner state.
package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vk/contentgraph/internal/aggregate"
	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/ctxlog"
	"github.com/vk/contentgraph/internal/document"
	"github.com/vk/contentgraph/internal/field"
	"github.com/vk/contentgraph/internal/graphbuild"
	"github.com/vk/contentgraph/internal/infer"
	"github.com/vk/contentgraph/internal/state"
	"github.com/vk/contentgraph/internal/statestore"
)

// Session is the per-document composition root.
type Session struct {
	registry *blueprint.Registry
	table    *field.Table
	store    statestore.Store
	resolver *state.Resolver

	doc    *document.Document
	engine *infer.Engine
}

// New creates a session over a populated blueprint registry and a state
// store. The field table is assembled here from every blueprint's declared
// fields; a field name claimed by two tags is a registration defect.
func New(ctx context.Context, registry *blueprint.Registry, store statestore.Store) (*Session, error) {
	table := field.NewTable()
	for _, name := range registry.Names() {
		bp, _ := registry.Resolve(name)
		for _, d := range bp.Fields {
			if err := table.Register(d); err != nil {
				return nil, fmt.Errorf("registering fields of blueprint %q: %w", name, err)
			}
		}
	}
	ctxlog.FromContext(ctx).Debug("Session field table assembled.", "field_count", table.Len())

	return &Session{
		registry: registry,
		table:    table,
		store:    store,
		resolver: state.New(table, store),
	}, nil
}

// LoadDocument parses src and replaces the session's current document and
// inference engine. Field state in the store is untouched.
func (s *Session) LoadDocument(ctx context.Context, src []byte, filename string) error {
	doc, err := graphbuild.Build(ctx, src, filename, s.registry)
	if err != nil {
		return err
	}
	s.doc = doc
	s.engine = infer.New(doc, s.registry)
	return nil
}

// Document returns the current parse result, or nil before the first load.
func (s *Session) Document() *document.Document {
	return s.doc
}

// Registry returns the session's blueprint registry.
func (s *Session) Registry() *blueprint.Registry {
	return s.registry
}

// Fields returns the session's assembled field table.
func (s *Session) Fields() *field.Table {
	return s.table
}

// State returns the session's root resolver (no instantiation prefix).
func (s *Session) State() *state.Resolver {
	return s.resolver
}

// Instance returns a resolver scoped to the given instantiation prefix.
func (s *Session) Instance(prefix string) *state.Resolver {
	return s.resolver.WithPrefix(prefix)
}

// NewInstancePrefix mints a fresh instantiation prefix for one expansion of
// a repeated template.
func (s *Session) NewInstancePrefix() string {
	return uuid.NewString()[:8]
}

// Infer resolves the ids related to startID per the query. Returns nil
// before the first document load.
func (s *Session) Infer(ctx context.Context, startID string, q infer.Query) []string {
	if s.engine == nil {
		return nil
	}
	return s.engine.Infer(ctx, startID, q)
}

// AggregateList reads one field across targets, in input order.
func (s *Session) AggregateList(ctx context.Context, d *field.Descriptor, ids []string, fallback any) []any {
	return aggregate.List(ctx, s.resolver, d, ids, fallback)
}

// AggregateByID reads one field across targets into an id-keyed map.
func (s *Session) AggregateByID(ctx context.Context, d *field.Descriptor, ids []string, fallback any) map[string]any {
	return aggregate.ByID(ctx, s.resolver, d, ids, fallback)
}

// Close releases the state store.
func (s *Session) Close(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Session closing.")
	return s.store.Close()
}
