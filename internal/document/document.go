// Package document holds the id map produced by one parse pass: the flat
// id→entry arena, the document-order id list, and any soft issues collected
// along the way.
//
// # Lifecycle
//
// A Document is created by the graph builder, owned exclusively by the
// session that parsed it, and discarded wholesale on re-parse. Entries are
// never mutated in place.
package document

import (
	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/entry"
)

// Issue is a soft, per-node problem recorded during parsing. Unlike a
// ParseError it does not abort the document; parsing continues with a
// fallback.
type Issue struct {
	// Tag is the tag of the node the issue concerns.
	Tag string
	// NodeID is the node's id, when one was resolved.
	NodeID string
	// Message describes the issue.
	Message string
	// Provenance locates the node in its source.
	Provenance entry.Provenance
}

// Document is the result of one parse pass.
type Document struct {
	// Entries is the id map: every parsed node keyed by its unique id.
	Entries map[string]*entry.Entry
	// Order lists ids in document order (preorder from the roots).
	Order []string
	// Issues holds the soft problems recorded during parsing.
	Issues []Issue

	roots   []string
	parents map[string]string
}

// New creates an empty document around a parsed entry set.
func New(entries map[string]*entry.Entry, issues []Issue) *Document {
	return &Document{
		Entries: entries,
		Issues:  issues,
		parents: make(map[string]string),
	}
}

// Lookup returns the entry stored under id.
func (d *Document) Lookup(id string) (*entry.Entry, bool) {
	e, ok := d.Entries[id]
	return e, ok
}

// Parent returns the structural parent of id, as established by the last
// finalization walk. A node reached only through a Use indirection is parented
// at its first-seen use site.
func (d *Document) Parent(id string) (string, bool) {
	p, ok := d.parents[id]
	return p, ok
}

// Roots returns the ids of the document's top-level nodes.
func (d *Document) Roots() []string {
	return d.roots
}

// Finalize derives the parent index and the preorder id list from the given
// roots, using each entry's blueprint to enumerate children. First-seen
// parentage wins, and the walk guards against reference cycles.
func (d *Document) Finalize(reg *blueprint.Registry, rootIDs []string) {
	d.roots = rootIDs
	d.parents = make(map[string]string, len(d.Entries))
	d.Order = d.Order[:0]

	visited := make(map[string]bool, len(d.Entries))
	var walk func(id string)
	walk = func(id string) {
		if visited[id] {
			return
		}
		e, ok := d.Entries[id]
		if !ok {
			// Dangling reference target; relationship queries will simply
			// never reach it.
			return
		}
		visited[id] = true
		d.Order = append(d.Order, id)
		for _, kid := range d.kids(reg, e) {
			if _, seen := d.parents[kid]; !seen && kid != id {
				d.parents[kid] = id
			}
			walk(kid)
		}
	}
	for _, root := range rootIDs {
		walk(root)
	}
}

// Kids returns the child ids of the entry stored under id.
func (d *Document) Kids(reg *blueprint.Registry, id string) []string {
	e, ok := d.Entries[id]
	if !ok {
		return nil
	}
	return d.kids(reg, e)
}

func (d *Document) kids(reg *blueprint.Registry, e *entry.Entry) []string {
	if b, ok := reg.Resolve(e.Tag); ok {
		return b.Kids(e)
	}
	return blueprint.RefKids(e)
}
