// Package graphbuild drives top-level parsing of a markup document and
// assembles the final id map.
//
// Node-level invariant violations (duplicate id, malformed reference) are
// fatal for the whole document and surface as a ParseError. Soft issues
// (unregistered tags) are recorded on the document and parsing continues
// with a fallback, so one unknown tag never takes down an entire lesson.
package graphbuild

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/ctxlog"
	"github.com/vk/contentgraph/internal/document"
	"github.com/vk/contentgraph/internal/entry"
	"github.com/vk/contentgraph/internal/parser"
)

// Build parses one raw markup buffer into a Document. filename is the
// provenance source identity attached to every node.
func Build(ctx context.Context, src []byte, filename string, reg *blueprint.Registry) (*document.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting document parse.", "source", filename)

	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse markup %s: %s", filename, diags.Error())
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse markup %s: unexpected body type", filename)
	}

	p := parser.New(reg, filename)
	var rootIDs []string
	for _, block := range body.Blocks {
		ref, err := p.ParseNode(ctx, block)
		if err != nil {
			return nil, err
		}
		if ref.Kind == entry.KindNode {
			rootIDs = append(rootIDs, ref.ID)
		}
	}

	doc := p.Document()
	doc.Finalize(reg, rootIDs)

	logger.Debug("Build: document parse complete.",
		"source", filename, "node_count", len(doc.Entries), "issue_count", len(doc.Issues))
	return doc, nil
}

// BuildFile reads and parses a markup file from disk.
func BuildFile(ctx context.Context, path string, reg *blueprint.Registry) (*document.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	return Build(ctx, src, path, reg)
}
