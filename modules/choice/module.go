// Package choice registers the Choice tag: a selection input whose options
// are declared inline. Its payload shows a plugin storing a richer parsed
// structure than the default child list.
package choice

import (
	"context"
	"strings"

	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/entry"
	"github.com/vk/contentgraph/internal/field"
	"github.com/vk/contentgraph/internal/state"
)

// TagName is the canonical tag this module registers.
const TagName = "Choice"

// SelectionField holds the learner's selected option per choice instance.
var SelectionField = field.NewDescriptor("selection", field.ScopeComponent, "")

// Payload is the parsed form of a Choice node.
type Payload struct {
	// Options are the declared choices, in declaration order.
	Options []string
	// Kids are any child nodes (e.g. a Passage rendering the prompt).
	Kids []entry.Ref
}

// Module implements blueprint.Module for this package.
type Module struct{}

// Register registers the Choice blueprint.
func (m *Module) Register(r *blueprint.Registry) {
	r.Register(&blueprint.Blueprint{
		Name:         TagName,
		Parser:       parseChoice,
		Fields:       []*field.Descriptor{SelectionField},
		Capabilities: blueprint.Capabilities{Input: true},
		GetValue: func(ctx context.Context, res *state.Resolver, id string) any {
			return res.Read(ctx, SelectionField, state.ReadOptions{ID: id})
		},
		StaticKids: func(e *entry.Entry) []string {
			payload, ok := e.Kids.(*Payload)
			if !ok {
				return nil
			}
			ids := make([]string, 0, len(payload.Kids))
			for _, ref := range payload.Kids {
				ids = append(ids, ref.ID)
			}
			return ids
		},
	})
}

// parseChoice splits the comma-delimited `options` attribute and parses any
// child blocks into the payload.
func parseChoice(ctx context.Context, req *blueprint.ParseRequest) error {
	payload := &Payload{}
	for _, raw := range strings.Split(req.Attributes["options"], ",") {
		if option := strings.TrimSpace(raw); option != "" {
			payload.Options = append(payload.Options, option)
		}
	}
	for _, child := range req.Block.Body.Blocks {
		ref, err := req.ParseNode(child)
		if err != nil {
			return err
		}
		payload.Kids = append(payload.Kids, ref)
	}
	return req.StoreEntry(req.ID, &entry.Entry{
		ID:         req.ID,
		Tag:        req.Tag,
		Attributes: req.Attributes,
		Kids:       payload,
		Provenance: req.Provenance,
	})
}
