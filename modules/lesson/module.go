// Package lesson registers the Lesson tag: the root container of a content
// document. It owns the session-wide progress and locale fields, which
// demonstrate the system and global scope tiers.
package lesson

import (
	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/field"
	"github.com/vk/contentgraph/internal/parser"
)

// TagName is the canonical tag this module registers.
const TagName = "Lesson"

// ProgressField tracks completion per lesson node, shared across template
// instances (system scope).
var ProgressField = field.NewDescriptor("progress", field.ScopeSystem, 0.0)

// LocaleField is the single process-wide display locale (global scope).
var LocaleField = field.NewDescriptor("locale", field.ScopeGlobal, "en")

// Module implements blueprint.Module for this package.
type Module struct{}

// Register registers the Lesson blueprint.
func (m *Module) Register(r *blueprint.Registry) {
	r.Register(&blueprint.Blueprint{
		Name:   TagName,
		Parser: parser.Default,
		Fields: []*field.Descriptor{ProgressField, LocaleField},
	})
}
