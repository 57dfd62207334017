// Package repeat registers the Repeat tag: a repeatable template container.
// The render orchestrator expands it N times, minting one instantiation
// prefix per expansion so each instance gets independent component-scope
// state for the shared raw ids underneath.
package repeat

import (
	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/parser"
)

// TagName is the canonical tag this module registers.
const TagName = "Repeat"

// Module implements blueprint.Module for this package.
type Module struct{}

// Register registers the Repeat blueprint.
func (m *Module) Register(r *blueprint.Registry) {
	r.Register(&blueprint.Blueprint{
		Name:         TagName,
		Parser:       parser.Default,
		Capabilities: blueprint.Capabilities{Template: true},
	})
}
