// SPDX-License-Identifier: MIT
//
// This file implements the document parser: it converts raw markup blocks
// into id-mapped entries, delegating per-tag behavior to the blueprint's
// parser plugin and enforcing the structural rules that keep the id map
// sound (unique ids, well-formed Use indirections).
package parser

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/ctxlog"
	"github.com/vk/contentgraph/internal/document"
	"github.com/vk/contentgraph/internal/entry"
)

// referenceTag is the reference/indirection marker tag.
const referenceTag = "Use"

// referenceAttr is the only attribute a reference node may carry.
const referenceAttr = "ref"

// Parser accumulates the entries, order, and issues of one parse pass.
type Parser struct {
	registry *blueprint.Registry
	filename string

	entries map[string]*entry.Entry
	stored  []string
	issues  []document.Issue
}

// New creates a parser over the given blueprint registry for one source.
func New(registry *blueprint.Registry, filename string) *Parser {
	return &Parser{
		registry: registry,
		filename: filename,
		entries:  make(map[string]*entry.Entry),
	}
}

// Document wraps the accumulated entries and issues in a Document. The
// caller finalizes it with the root ids it collected.
func (p *Parser) Document() *document.Document {
	return document.New(p.entries, p.issues)
}

// ParseNode processes one markup block: resolves its tag to a blueprint
// (with a default fallback for unregistered tags), validates reference
// nodes, and invokes the plugin. It returns the placeholder the parent keeps
// in its child list.
func (p *Parser) ParseNode(ctx context.Context, block *hclsyntax.Block) (entry.Ref, error) {
	prov := entry.Provenance{Source: p.filename, Range: block.DefRange()}

	if strings.EqualFold(block.Type, referenceTag) {
		return p.parseReference(block, prov)
	}

	attrs := literalAttributes(block.Body)
	id := p.deriveID(block, attrs)

	bp, ok := p.registry.Resolve(block.Type)
	if !ok {
		ctxlog.FromContext(ctx).Warn("No blueprint registered for tag, using default parser.",
			"tag", block.Type, "id", id, "source", prov.String())
		p.issues = append(p.issues, document.Issue{
			Tag:        block.Type,
			NodeID:     id,
			Message:    fmt.Sprintf("no blueprint registered for tag %q; stored with raw children", block.Type),
			Provenance: prov,
		})
		bp = &blueprint.Blueprint{Name: block.Type, Parser: Default}
	}

	req := &blueprint.ParseRequest{
		ID:         id,
		Block:      block,
		Tag:        block.Type,
		Attributes: attrs,
		Provenance: prov,
		ParseNode: func(child *hclsyntax.Block) (entry.Ref, error) {
			return p.ParseNode(ctx, child)
		},
		StoreEntry: p.storeEntry,
	}
	if err := bp.Parser(ctx, req); err != nil {
		return entry.Ref{}, err
	}
	return entry.NodeRef(id), nil
}

// parseReference validates a Use node and yields its placeholder. A valid
// reference contributes no id-map entry.
func (p *Parser) parseReference(block *hclsyntax.Block, prov entry.Provenance) (entry.Ref, error) {
	fail := func(reason string) (entry.Ref, error) {
		return entry.Ref{}, &entry.ParseError{Tag: block.Type, Provenance: prov, Reason: reason}
	}

	if block.Type != referenceTag {
		return fail(fmt.Sprintf("reference node must be tagged exactly %q, got %q", referenceTag, block.Type))
	}
	if len(block.Labels) > 0 {
		return fail("reference node must not declare an id of its own")
	}
	if len(block.Body.Blocks) > 0 {
		return fail("reference node must not own child content")
	}
	for name := range block.Body.Attributes {
		if name != referenceAttr {
			return fail(fmt.Sprintf("reference node carries extra attribute %q; only %q is allowed", name, referenceAttr))
		}
	}
	attrs := literalAttributes(block.Body)
	ref := attrs[referenceAttr]
	if ref == "" {
		return fail(fmt.Sprintf("reference node is missing its %q attribute", referenceAttr))
	}
	return entry.ReferenceRef(ref), nil
}

// storeEntry inserts an entry into the id map after duplicate-id validation.
// Handed to plugins as the StoreEntry callback.
func (p *Parser) storeEntry(id string, e *entry.Entry) error {
	if prev, exists := p.entries[id]; exists {
		return &entry.ParseError{
			Tag:        e.Tag,
			Provenance: e.Provenance,
			Reason: fmt.Sprintf("duplicate id %q: already claimed by <%s> at %s, redeclared by <%s>",
				id, prev.Tag, prev.Provenance, e.Tag),
		}
	}
	p.entries[id] = e
	p.stored = append(p.stored, id)
	return nil
}

// deriveID resolves the node's id: the block label, a declared `id`
// attribute, the legacy `name` attribute, or a structural hash as a last
// resort. The hash is stable across parses of the same structure, so two
// structurally identical anonymous nodes share an id; documents relying on
// anonymous nodes accept that limitation.
func (p *Parser) deriveID(block *hclsyntax.Block, attrs map[string]string) string {
	if len(block.Labels) > 0 && block.Labels[0] != "" {
		return block.Labels[0]
	}
	if id := attrs["id"]; id != "" {
		return id
	}
	if name := attrs["name"]; name != "" {
		return name
	}
	sum := sha256.Sum256([]byte(canonicalForm(block)))
	return "anon-" + hex.EncodeToString(sum[:])[:12]
}

// canonicalForm serializes a block's structure (tag, sorted literal
// attributes, children) into a deterministic string for hashing.
func canonicalForm(block *hclsyntax.Block) string {
	var sb strings.Builder
	sb.WriteString(block.Type)
	for _, label := range block.Labels {
		sb.WriteString("|" + label)
	}
	sb.WriteString("{")
	attrs := literalAttributes(block.Body)
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "%s=%q;", name, attrs[name])
	}
	for _, child := range block.Body.Blocks {
		sb.WriteString(canonicalForm(child))
	}
	sb.WriteString("}")
	return sb.String()
}

// literalAttributes evaluates a body's attributes as literals and renders
// them as strings. Non-literal or non-convertible expressions are skipped;
// tag plugins that need richer values read the raw block instead.
func literalAttributes(body *hclsyntax.Body) map[string]string {
	out := make(map[string]string, len(body.Attributes))
	for name, attr := range body.Attributes {
		value, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			continue
		}
		converted, err := convert.Convert(value, cty.String)
		if err != nil || converted.IsNull() {
			continue
		}
		out[name] = converted.AsString()
	}
	return out
}
