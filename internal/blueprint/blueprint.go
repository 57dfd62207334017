// SPDX-License-Identifier: MIT
//
// This file defines the Blueprint structure, the static, registered
// definition of one markup tag: how it parses, which fields it owns, and
// which capabilities it advertises to relationship queries.
//
// Why capability flags instead of tag matching?
//
// Relationship queries select nodes by what they can do (grade, accept
// input), not by what they are called. A lesson author can introduce a new
// grading tag and every existing "find my grader" query composes with it,
// because the query inspects the blueprint's flags rather than comparing tag
// strings.
package blueprint

import (
	"context"

	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/vk/contentgraph/internal/entry"
	"github.com/vk/contentgraph/internal/field"
	"github.com/vk/contentgraph/internal/state"
)

// Capabilities are the behavioral flags a blueprint advertises.
type Capabilities struct {
	// Grader marks a node that computes correctness for associated inputs.
	Grader bool
	// Input marks a node that accepts a learner response.
	Input bool
	// Template marks a repeatable container whose instances need isolated
	// component-scope state.
	Template bool
	// Extra holds tag-specific flags beyond the well-known set.
	Extra map[string]bool
}

// Has reports whether the named capability is set. The well-known names are
// "grader", "input", and "template"; anything else is looked up in Extra.
func (c Capabilities) Has(name string) bool {
	switch name {
	case "grader":
		return c.Grader
	case "input":
		return c.Input
	case "template":
		return c.Template
	default:
		return c.Extra[name]
	}
}

// ParseRequest carries everything a tag parser needs to process one node.
type ParseRequest struct {
	// ID is the node's resolved id.
	ID string
	// Block is the raw markup block for the node.
	Block *hclsyntax.Block
	// Tag is the node's tag name as written.
	Tag string
	// Attributes holds the node's literal attributes.
	Attributes map[string]string
	// Provenance locates the node in its source.
	Provenance entry.Provenance
	// ParseNode recursively parses a child block and returns its placeholder.
	ParseNode func(block *hclsyntax.Block) (entry.Ref, error)
	// StoreEntry inserts an entry into the id map after duplicate-id
	// validation. Every parser must call it at least once for non-reference
	// nodes.
	StoreEntry func(id string, e *entry.Entry) error
}

// ParserFunc is the per-tag parsing plugin invoked by the document parser.
type ParserFunc func(ctx context.Context, req *ParseRequest) error

// GetValueFunc reads a tag's primary value for a node id.
type GetValueFunc func(ctx context.Context, r *state.Resolver, id string) any

// StaticKidsFunc extracts the child ids from an entry's parsed payload. Used
// for descendant traversal and by external graph/debug tooling.
type StaticKidsFunc func(e *entry.Entry) []string

// Blueprint is the registered definition of a tag. Registered once per tag
// at startup; never mutated.
type Blueprint struct {
	// Name is the canonical tag name.
	Name string
	// Parser is the tag's parsing plugin.
	Parser ParserFunc
	// Fields are the field descriptors this tag owns. The session registers
	// them into its field table at startup.
	Fields []*field.Descriptor
	// Capabilities are the tag's behavioral flags.
	Capabilities Capabilities
	// GetValue reads the tag's primary value, when the tag has one.
	GetValue GetValueFunc
	// StaticKids extracts child ids from a stored entry. Defaults to RefKids.
	StaticKids StaticKidsFunc
	// Component is opaque renderer payload. Never inspected here, only
	// forwarded to the platform around the runtime.
	Component any
}

// Kids returns the entry's child ids via the blueprint's StaticKids,
// defaulting to RefKids when none was registered.
func (b *Blueprint) Kids(e *entry.Entry) []string {
	if b.StaticKids != nil {
		return b.StaticKids(e)
	}
	return RefKids(e)
}

// RefKids is the StaticKids implementation for the common payload shape: a
// []entry.Ref child list. Reference placeholders contribute their target id,
// so traversal follows Use indirections.
func RefKids(e *entry.Entry) []string {
	refs, ok := e.Kids.([]entry.Ref)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids
}
