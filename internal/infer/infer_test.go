package infer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/contentgraph/internal/blueprint"
	"github.com/vk/contentgraph/internal/document"
	"github.com/vk/contentgraph/internal/graphbuild"
	"github.com/vk/contentgraph/internal/parser"
)

// newTestRegistry registers three tags: Grade (grader), Inp (input), and
// Box (no capabilities).
func newTestRegistry(t *testing.T) *blueprint.Registry {
	t.Helper()
	reg := blueprint.New()
	reg.Register(&blueprint.Blueprint{
		Name:         "Grade",
		Parser:       parser.Default,
		Capabilities: blueprint.Capabilities{Grader: true},
	})
	reg.Register(&blueprint.Blueprint{
		Name:         "Inp",
		Parser:       parser.Default,
		Capabilities: blueprint.Capabilities{Input: true},
	})
	reg.Register(&blueprint.Blueprint{
		Name:   "Box",
		Parser: parser.Default,
	})
	return reg
}

func buildDoc(t *testing.T, reg *blueprint.Registry, src string) *document.Document {
	t.Helper()
	doc, err := graphbuild.Build(context.Background(), []byte(src), "test.hcl", reg)
	require.NoError(t, err)
	return doc
}

const lessonSrc = `
Grade "a1" {
  Box "b1" {
    Inp "c1" {}
    Inp "c2" {}
  }
  Inp "c3" {}
}
`

func TestInfer_NearestAncestor(t *testing.T) {
	reg := newTestRegistry(t)
	doc := buildDoc(t, reg, lessonSrc)
	eng := New(doc, reg)

	got := eng.Infer(context.Background(), "c1", Query{
		Selector:   IsGrader(),
		Directions: []Direction{DirectionParents},
	})
	assert.Equal(t, []string{"a1"}, got)
}

func TestInfer_NearestAncestorClosestWins(t *testing.T) {
	reg := newTestRegistry(t)
	doc := buildDoc(t, reg, `
Grade "outer" {
  Grade "inner" {
    Inp "c1" {}
  }
}
`)
	eng := New(doc, reg)

	got := eng.Infer(context.Background(), "c1", Query{
		Selector:   IsGrader(),
		Directions: []Direction{DirectionParents},
	})
	assert.Equal(t, []string{"inner"}, got)
}

func TestInfer_ParentsDirectChild(t *testing.T) {
	reg := newTestRegistry(t)
	doc := buildDoc(t, reg, `
Grade "a1" {
  Box "b1" {}
}
`)
	eng := New(doc, reg)

	got := eng.Infer(context.Background(), "b1", Query{
		Selector:   IsGrader(),
		Directions: []Direction{DirectionParents},
	})
	assert.Equal(t, []string{"a1"}, got)
}

func TestInfer_KidsReturnsAllMatchesPreorder(t *testing.T) {
	reg := newTestRegistry(t)
	doc := buildDoc(t, reg, lessonSrc)
	eng := New(doc, reg)

	got := eng.Infer(context.Background(), "a1", Query{
		Selector:   IsInput(),
		Directions: []Direction{DirectionKids},
	})
	assert.Equal(t, []string{"c1", "c2", "c3"}, got)
}

func TestInfer_NoMatchIsEmptyNotError(t *testing.T) {
	reg := newTestRegistry(t)
	doc := buildDoc(t, reg, `Box "b1" {}`)
	eng := New(doc, reg)

	got := eng.Infer(context.Background(), "b1", Query{
		Selector:   IsGrader(),
		Directions: []Direction{DirectionParents, DirectionKids},
	})
	assert.Empty(t, got)
}

func TestInfer_TargetsOverrideEverything(t *testing.T) {
	reg := newTestRegistry(t)
	doc := buildDoc(t, reg, lessonSrc)
	eng := New(doc, reg)

	got := eng.Infer(context.Background(), "c1", Query{
		Selector:   IsGrader(),
		Directions: []Direction{DirectionParents},
		Targets:    []string{"x, y, x"},
	})
	assert.Equal(t, []string{"x", "y"}, got)
}

func TestInfer_MultipleDirectionsDeduplicated(t *testing.T) {
	reg := newTestRegistry(t)
	doc := buildDoc(t, reg, `
Inp "top" {
  Box "mid" {
    Inp "leaf" {}
  }
}
`)
	eng := New(doc, reg)

	got := eng.Infer(context.Background(), "mid", Query{
		Selector:   IsInput(),
		Directions: []Direction{DirectionParents, DirectionKids},
	})
	assert.Equal(t, []string{"top", "leaf"}, got)
}

func TestInfer_FollowsUseReferences(t *testing.T) {
	reg := newTestRegistry(t)
	doc := buildDoc(t, reg, `
Inp "shared" {}
Grade "host" {
  Use { ref = "shared" }
}
`)
	eng := New(doc, reg)

	got := eng.Infer(context.Background(), "host", Query{
		Selector:   IsInput(),
		Directions: []Direction{DirectionKids},
	})
	assert.Equal(t, []string{"shared"}, got)
}

func TestInfer_UnknownStartID(t *testing.T) {
	reg := newTestRegistry(t)
	doc := buildDoc(t, reg, lessonSrc)
	eng := New(doc, reg)

	got := eng.Infer(context.Background(), "nope", Query{
		Selector:   IsGrader(),
		Directions: []Direction{DirectionParents, DirectionKids},
	})
	assert.Empty(t, got)
}

func TestNormalizeTargets(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"comma delimited", []string{"x, y, x"}, []string{"x", "y"}},
		{"space delimited", []string{"x y z"}, []string{"x", "y", "z"}},
		{"slice elements", []string{"a", "b", "a"}, []string{"a", "b"}},
		{"empty pieces dropped", []string{" , a,, "}, []string{"a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeTargets(tc.in))
		})
	}
}

func TestHasCapability_Extra(t *testing.T) {
	reg := blueprint.New()
	reg.Register(&blueprint.Blueprint{
		Name:         "Warn",
		Parser:       parser.Default,
		Capabilities: blueprint.Capabilities{Extra: map[string]bool{"error": true}},
	})
	doc := buildDoc(t, reg, `Warn "w1" {}`)
	eng := New(doc, reg)

	got := eng.Infer(context.Background(), "w1", Query{
		Selector:   HasCapability("error"),
		Directions: []Direction{DirectionKids},
	})
	assert.Empty(t, got, "kids excludes the start node itself")
}
