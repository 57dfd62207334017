// SPDX-License-Identifier: MIT
//
// This file defines the Entry structure, the normalized form of one parsed
// content node, and the lightweight Ref placeholder that parents hold instead
// of real child pointers.
//
// Why placeholders instead of pointers?
//
// The id map is a flat arena: every node is reachable by its string id, and
// relationships between nodes are expressed as ids, never as Go references.
// This sidesteps cyclic-ownership questions entirely (a Use node may point
// back up its own ancestor chain) and keeps a parsed document trivially
// serializable for debug tooling.
package entry

import "github.com/hashicorp/hcl/v2"

// RefKind distinguishes a directly-owned child from a reference indirection.
type RefKind string

const (
	// KindNode marks a placeholder for a node parsed and stored in the id map.
	KindNode RefKind = "node"
	// KindReference marks a `Use` indirection pointing at another node's id.
	// A reference contributes no id-map entry of its own.
	KindReference RefKind = "reference"
)

// Ref is the placeholder a parent keeps in its child list.
type Ref struct {
	Kind RefKind
	ID   string
}

// NodeRef returns a placeholder for a stored node.
func NodeRef(id string) Ref {
	return Ref{Kind: KindNode, ID: id}
}

// ReferenceRef returns a placeholder for a `Use` indirection target.
func ReferenceRef(id string) Ref {
	return Ref{Kind: KindReference, ID: id}
}

// Provenance ties a parsed node back to its position in the source markup.
type Provenance struct {
	// Source is the logical source identity, typically a file path.
	Source string
	// Range is the position of the node's definition within Source.
	Range hcl.Range
}

// String renders the provenance in "file:line,col" form for error messages.
func (p Provenance) String() string {
	return p.Range.String()
}

// Entry is one normalized content node. Entries are immutable once stored in
// an id map and are replaced wholesale on re-parse.
type Entry struct {
	// ID is the node's unique id within its document.
	ID string
	// Tag is the markup tag (block type) the node was declared with.
	Tag string
	// Attributes holds the node's literal attributes.
	Attributes map[string]string
	// Kids is the tag plugin's parsed payload. For the default plugin this is
	// a []Ref of child placeholders; content-format plugins may store richer
	// structures. The core never interprets it beyond the blueprint's
	// StaticKids accessor.
	Kids any
	// Provenance records where the node came from.
	Provenance Provenance
	// Generated marks nodes synthesized by the runtime (e.g. error boxes)
	// rather than authored in the source document.
	Generated bool
}
