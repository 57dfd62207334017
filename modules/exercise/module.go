// Package exercise registers the Exercise tag: a grading container. Input
// nodes beneath it resolve to it via the "grader" capability, and it owns
// the per-instance score and attempts fields.
package exercise

import (
	"context"

	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/field"
	"github.com/vk/contentgraph/internal/parser"
	"github.com/vk/contentgraph/internal/state"
)

// TagName is the canonical tag this module registers.
const TagName = "Exercise"

// ScoreField is the grading result for one exercise instance.
var ScoreField = field.NewDescriptor("score", field.ScopeComponent, 0.0)

// AttemptsField counts grading attempts for one exercise instance.
var AttemptsField = field.NewDescriptor("attempts", field.ScopeComponent, 0)

// Module implements blueprint.Module for this package.
type Module struct{}

// Register registers the Exercise blueprint.
func (m *Module) Register(r *blueprint.Registry) {
	r.Register(&blueprint.Blueprint{
		Name:         TagName,
		Parser:       parser.Default,
		Fields:       []*field.Descriptor{ScoreField, AttemptsField},
		Capabilities: blueprint.Capabilities{Grader: true},
		GetValue: func(ctx context.Context, res *state.Resolver, id string) any {
			return res.Read(ctx, ScoreField, state.ReadOptions{ID: id})
		},
	})
}
