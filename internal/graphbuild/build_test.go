package graphbuild

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/entry"
	"github.com/vk/contentgraph/internal/parser"
)

// newTestRegistry registers a handful of plain container tags so tests do
// not depend on the real tag modules.
func newTestRegistry(t *testing.T) *blueprint.Registry {
	t.Helper()
	reg := blueprint.New()
	for _, name := range []string{"Box", "Card", "Note"} {
		reg.Register(&blueprint.Blueprint{Name: name, Parser: parser.Default})
	}
	return reg
}

func TestBuild_TagsMatchSource(t *testing.T) {
	reg := newTestRegistry(t)
	src := `
Box "b1" {
  Card "c1" {}
  Note "n1" {}
}
`
	doc, err := Build(context.Background(), []byte(src), "test.hcl", reg)
	require.NoError(t, err)

	require.Len(t, doc.Entries, 3)
	assert.Equal(t, "Box", doc.Entries["b1"].Tag)
	assert.Equal(t, "Card", doc.Entries["c1"].Tag)
	assert.Equal(t, "Note", doc.Entries["n1"].Tag)
	assert.Equal(t, []string{"b1", "c1", "n1"}, doc.Order)
	assert.Equal(t, []string{"b1"}, doc.Roots())
}

func TestBuild_DuplicateIDNamesBothTags(t *testing.T) {
	reg := newTestRegistry(t)
	src := `
Box "dup" {}
Card "dup" {}
`
	_, err := Build(context.Background(), []byte(src), "test.hcl", reg)
	require.Error(t, err)

	var parseErr *entry.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), `"dup"`)
	assert.Contains(t, err.Error(), "Box")
	assert.Contains(t, err.Error(), "Card")
}

func TestBuild_UseNodeIsNotAnEntry(t *testing.T) {
	reg := newTestRegistry(t)
	src := `
Box "shared" {}
Box "host" {
  Use { ref = "shared" }
}
`
	doc, err := Build(context.Background(), []byte(src), "test.hcl", reg)
	require.NoError(t, err)

	_, hasUse := doc.Entries["Use"]
	assert.False(t, hasUse)
	require.Len(t, doc.Entries, 2)

	// The reference resolves into the host's child list as its target id.
	kids := doc.Kids(reg, "host")
	assert.Equal(t, []string{"shared"}, kids)
}

func TestBuild_UseWithChildIsParseError(t *testing.T) {
	reg := newTestRegistry(t)
	src := `
Box "host" {
  Use {
    ref = "x"
    Card "c1" {}
  }
}
`
	_, err := Build(context.Background(), []byte(src), "test.hcl", reg)
	var parseErr *entry.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "child")
}

func TestBuild_UseWithExtraAttributeIsParseError(t *testing.T) {
	reg := newTestRegistry(t)
	src := `
Use {
  ref   = "x"
  extra = "y"
}
`
	_, err := Build(context.Background(), []byte(src), "test.hcl", reg)
	var parseErr *entry.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "extra")
}

func TestBuild_UseWithoutRefIsParseError(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := Build(context.Background(), []byte(`Use {}`), "test.hcl", reg)
	var parseErr *entry.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "ref")
}

func TestBuild_UseWithLabelIsParseError(t *testing.T) {
	reg := newTestRegistry(t)
	src := `Use "u1" { ref = "x" }`
	_, err := Build(context.Background(), []byte(src), "test.hcl", reg)
	var parseErr *entry.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestBuild_UnregisteredTagIsSoftIssue(t *testing.T) {
	reg := newTestRegistry(t)
	src := `
Box "b1" {
  Mystery "m1" {
    Card "c1" {}
  }
}
`
	doc, err := Build(context.Background(), []byte(src), "test.hcl", reg)
	require.NoError(t, err)

	// The unknown node is stored with raw children via the default parser.
	m, ok := doc.Lookup("m1")
	require.True(t, ok)
	assert.Equal(t, "Mystery", m.Tag)
	assert.Equal(t, []string{"c1"}, doc.Kids(reg, "m1"))

	require.Len(t, doc.Issues, 1)
	assert.Equal(t, "Mystery", doc.Issues[0].Tag)
	assert.Contains(t, doc.Issues[0].Message, "Mystery")
}

func TestBuild_CaseInsensitiveTagResolution(t *testing.T) {
	reg := newTestRegistry(t)
	doc, err := Build(context.Background(), []byte(`box "b1" {}`), "test.hcl", reg)
	require.NoError(t, err)

	require.Len(t, doc.Entries, 1)
	assert.Empty(t, doc.Issues)
}

func TestBuild_IDDerivation(t *testing.T) {
	reg := newTestRegistry(t)
	src := `
Box "labelled" {}
Box {
  id = "from-attr"
}
Box {
  name = "legacy"
}
Box {
  title = "anonymous"
}
`
	doc, err := Build(context.Background(), []byte(src), "test.hcl", reg)
	require.NoError(t, err)
	require.Len(t, doc.Entries, 4)

	assert.Contains(t, doc.Entries, "labelled")
	assert.Contains(t, doc.Entries, "from-attr")
	assert.Contains(t, doc.Entries, "legacy")

	var anon string
	for id := range doc.Entries {
		if strings.HasPrefix(id, "anon-") {
			anon = id
		}
	}
	require.NotEmpty(t, anon, "expected a structural-hash id for the anonymous node")
}

func TestBuild_AnonymousIDStableAcrossParses(t *testing.T) {
	reg := newTestRegistry(t)
	src := `
Box {
  title = "same structure"
}
`
	first, err := Build(context.Background(), []byte(src), "a.hcl", reg)
	require.NoError(t, err)
	second, err := Build(context.Background(), []byte(src), "b.hcl", reg)
	require.NoError(t, err)

	require.Len(t, first.Order, 1)
	assert.Equal(t, first.Order, second.Order)
}

func TestBuild_MalformedMarkup(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := Build(context.Background(), []byte(`Box "b1" {`), "test.hcl", reg)
	require.Error(t, err)
}

func TestBuild_ParentIndex(t *testing.T) {
	reg := newTestRegistry(t)
	src := `
Box "root" {
  Card "mid" {
    Note "leaf" {}
  }
}
`
	doc, err := Build(context.Background(), []byte(src), "test.hcl", reg)
	require.NoError(t, err)

	parent, ok := doc.Parent("leaf")
	require.True(t, ok)
	assert.Equal(t, "mid", parent)

	parent, ok = doc.Parent("mid")
	require.True(t, ok)
	assert.Equal(t, "root", parent)

	_, ok = doc.Parent("root")
	assert.False(t, ok)
}
