// Package errorbox registers the ErrorBox tag: the error-display node that
// renders failure information in place of a failed subtree instead of
// failing the whole page.
package errorbox

import (
	"context"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/entry"
)

// TagName is the canonical tag this module registers.
const TagName = "ErrorBox"

// Module implements blueprint.Module for this package.
type Module struct{}

// Register registers the ErrorBox blueprint.
func (m *Module) Register(r *blueprint.Registry) {
	r.Register(&blueprint.Blueprint{
		Name:         TagName,
		Parser:       parseErrorBox,
		Capabilities: blueprint.Capabilities{Extra: map[string]bool{"error": true}},
	})
}

// parseErrorBox stores the node as a leaf carrying its message attribute.
func parseErrorBox(ctx context.Context, req *blueprint.ParseRequest) error {
	return req.StoreEntry(req.ID, &entry.Entry{
		ID:         req.ID,
		Tag:        req.Tag,
		Attributes: req.Attributes,
		Kids:       []entry.Ref{},
		Provenance: req.Provenance,
	})
}

// Synthesize builds a generated ErrorBox entry for a failure the runtime
// detected itself (e.g. a ParseError in one subtree). The render
// orchestrator swaps it in for the failed node.
func Synthesize(id, message, source string) *entry.Entry {
	return &entry.Entry{
		ID:         id,
		Tag:        TagName,
		Attributes: map[string]string{"message": message},
		Kids:       []entry.Ref{},
		Provenance: entry.Provenance{Source: source, Range: hcl.Range{Filename: source}},
		Generated:  true,
	}
}
