// Package textinput registers the TextInput tag: a leaf node that accepts a
// free-form learner response.
package textinput

import (
	"context"

	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/entry"
	"github.com/vk/contentgraph/internal/field"
	"github.com/vk/contentgraph/internal/state"
)

// TagName is the canonical tag this module registers.
const TagName = "TextInput"

// ResponseField holds the learner's current response per input instance.
var ResponseField = field.NewDescriptor("response", field.ScopeComponent, "")

// Module implements blueprint.Module for this package.
type Module struct{}

// Register registers the TextInput blueprint.
func (m *Module) Register(r *blueprint.Registry) {
	r.Register(&blueprint.Blueprint{
		Name:         TagName,
		Parser:       parseInput,
		Fields:       []*field.Descriptor{ResponseField},
		Capabilities: blueprint.Capabilities{Input: true},
		GetValue: func(ctx context.Context, res *state.Resolver, id string) any {
			return res.Read(ctx, ResponseField, state.ReadOptions{ID: id})
		},
	})
}

// parseInput stores the node as a leaf: a text input renders a control, it
// never owns child nodes. Child blocks in the markup are a soft authoring
// mistake and are dropped rather than parsed.
func parseInput(ctx context.Context, req *blueprint.ParseRequest) error {
	return req.StoreEntry(req.ID, &entry.Entry{
		ID:         req.ID,
		Tag:        req.Tag,
		Attributes: req.Attributes,
		Kids:       []entry.Ref{},
		Provenance: req.Provenance,
	})
}
