// SPDX-License-Identifier: MIT
//
// This file implements the relationship inference engine: it answers "which
// other nodes relate to this one" over the flat id map, without ever
// materializing a pointer-based graph.
//
// Why id walks instead of an object graph?
//
// Ancestor and descendant queries run over string ids against the document's
// parent index and the blueprints' child accessors. Results are ids too, so
// the caller composes them directly with scoped state reads. Zero matches is
// a normal answer, never an error: whether "no grader found" is a problem is
// the caller's call.
package infer

import (
	"context"
	"strings"

	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/document"
	"github.com/vk/contentgraph/internal/entry"
)

// Direction selects a traversal for a query.
type Direction string

const (
	// DirectionParents walks the ancestor chain and yields the nearest
	// matching ancestor only (closest wins).
	DirectionParents Direction = "parents"
	// DirectionKids walks the descendant subtree in preorder and yields all
	// matching descendants.
	DirectionKids Direction = "kids"
)

// Info is the ephemeral per-traversal wrapper a selector inspects. It is
// recreated on every query and never persisted.
type Info struct {
	// Entry is the node under inspection.
	Entry *entry.Entry
	// Blueprint is the node's registered definition. For unregistered tags
	// it is a bare blueprint with no capabilities.
	Blueprint *blueprint.Blueprint
	// Prefix is the instantiation prefix of the traversal, if any.
	Prefix string
}

// Selector is a predicate over Info. Matching on the blueprint's capability
// flags rather than tag strings keeps queries composable with any tag.
type Selector func(info *Info) bool

// HasCapability selects nodes whose blueprint advertises the named
// capability.
func HasCapability(name string) Selector {
	return func(info *Info) bool {
		return info.Blueprint.Capabilities.Has(name)
	}
}

// IsGrader selects grading nodes.
func IsGrader() Selector { return HasCapability("grader") }

// IsInput selects input nodes.
func IsInput() Selector { return HasCapability("input") }

// Query describes one inference request.
type Query struct {
	// Selector is the predicate candidate nodes must satisfy. Ignored when
	// Targets is set.
	Selector Selector
	// Directions lists the traversals to run, in order.
	Directions []Direction
	// Targets, when non-empty, short-circuits inference entirely: the ids
	// (a slice, or one comma/space-delimited string) are normalized,
	// deduplicated, and returned as-is.
	Targets []string
}

// Engine answers relationship queries over one parsed document.
type Engine struct {
	doc    *document.Document
	reg    *blueprint.Registry
	prefix string
}

// New creates an engine over a document and its blueprint registry.
func New(doc *document.Document, reg *blueprint.Registry) *Engine {
	return &Engine{doc: doc, reg: reg}
}

// WithPrefix derives an engine whose Info wrappers carry the given
// instantiation prefix.
func (e *Engine) WithPrefix(prefix string) *Engine {
	derived := *e
	derived.prefix = prefix
	return &derived
}

// Infer resolves the ids related to startID per the query. Results are
// deduplicated and ordered by discovery order. An empty result is not an
// error.
func (e *Engine) Infer(ctx context.Context, startID string, q Query) []string {
	if len(q.Targets) > 0 {
		return NormalizeTargets(q.Targets)
	}

	var found []string
	for _, dir := range q.Directions {
		switch dir {
		case DirectionParents:
			if id, ok := e.nearestAncestor(startID, q.Selector); ok {
				found = append(found, id)
			}
		case DirectionKids:
			found = append(found, e.matchingDescendants(startID, q.Selector)...)
		}
	}
	return dedupe(found)
}

// nearestAncestor walks upward from startID's parent and returns the first
// ancestor the selector accepts.
func (e *Engine) nearestAncestor(startID string, sel Selector) (string, bool) {
	if sel == nil {
		return "", false
	}
	visited := map[string]bool{startID: true}
	current := startID
	for {
		parent, ok := e.doc.Parent(current)
		if !ok || visited[parent] {
			return "", false
		}
		visited[parent] = true
		if info, ok := e.info(parent); ok && sel(info) {
			return parent, true
		}
		current = parent
	}
}

// matchingDescendants walks startID's subtree in preorder, children as
// declared, and collects every id the selector accepts.
func (e *Engine) matchingDescendants(startID string, sel Selector) []string {
	if sel == nil {
		return nil
	}
	var matches []string
	visited := map[string]bool{startID: true}
	var walk func(id string)
	walk = func(id string) {
		for _, kid := range e.doc.Kids(e.reg, id) {
			if visited[kid] {
				continue
			}
			visited[kid] = true
			if info, ok := e.info(kid); ok && sel(info) {
				matches = append(matches, kid)
			}
			walk(kid)
		}
	}
	walk(startID)
	return matches
}

// info wraps the entry stored under id for selector inspection.
func (e *Engine) info(id string) (*Info, bool) {
	ent, ok := e.doc.Lookup(id)
	if !ok {
		return nil, false
	}
	bp, ok := e.reg.Resolve(ent.Tag)
	if !ok {
		bp = &blueprint.Blueprint{Name: ent.Tag}
	}
	return &Info{Entry: ent, Blueprint: bp, Prefix: e.prefix}, true
}

// NormalizeTargets flattens explicit target ids: each element may itself be
// a comma- or space-delimited list. The result is deduplicated with
// first-seen order preserved.
func NormalizeTargets(targets []string) []string {
	var flat []string
	for _, t := range targets {
		parts := strings.FieldsFunc(t, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
		flat = append(flat, parts...)
	}
	return dedupe(flat)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
