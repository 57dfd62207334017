// Package aggregate reads one field across many targets.
//
// Values are read live through the state resolver on every call; the layer
// holds no cache. A caller whose target set changed simply aggregates again.
package aggregate

import (
	"context"

	"github.com/vk/contentgraph/internal/field"
	"github.com/vk/contentgraph/internal/state"
)

// List reads the field for each target id and returns values in exactly the
// input-id order, 1:1 including duplicated ids. Targets never written yield
// the fallback.
func List(ctx context.Context, r *state.Resolver, d *field.Descriptor, ids []string, fallback any) []any {
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = r.Read(ctx, d, state.ReadOptions{ID: id, Fallback: fallback})
	}
	return values
}

// ByID reads the field for each target id into an id-keyed map. Duplicate
// ids collapse; the last read wins.
func ByID(ctx context.Context, r *state.Resolver, d *field.Descriptor, ids []string, fallback any) map[string]any {
	values := make(map[string]any, len(ids))
	for _, id := range ids {
		values[id] = r.Read(ctx, d, state.ReadOptions{ID: id, Fallback: fallback})
	}
	return values
}
