package parser

import (
	"context"

	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/entry"
)

// Default is the fallback parser plugin: it recurses into child blocks and
// stores the node with its child placeholders as the payload, uninterpreted.
// Unregistered tags parse this way, and simple container tags reuse it
// directly.
func Default(ctx context.Context, req *blueprint.ParseRequest) error {
	kids := make([]entry.Ref, 0, len(req.Block.Body.Blocks))
	for _, child := range req.Block.Body.Blocks {
		ref, err := req.ParseNode(child)
		if err != nil {
			return err
		}
		kids = append(kids, ref)
	}
	return req.StoreEntry(req.ID, &entry.Entry{
		ID:         req.ID,
		Tag:        req.Tag,
		Attributes: req.Attributes,
		Kids:       kids,
		Provenance: req.Provenance,
	})
}
