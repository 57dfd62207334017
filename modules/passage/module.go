// Package passage registers the Passage tag: a plain prose container with no
// capabilities and no fields.
package passage

import (
	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/parser"
)

// TagName is the canonical tag this module registers.
const TagName = "Passage"

// Module implements blueprint.Module for this package.
type Module struct{}

// Register registers the Passage blueprint.
func (m *Module) Register(r *blueprint.Registry) {
	r.Register(&blueprint.Blueprint{
		Name:   TagName,
		Parser: parser.Default,
	})
}
