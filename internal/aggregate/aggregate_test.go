package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/contentgraph/internal/field"
	"github.com/vk/contentgraph/internal/inmemorystate"
	"github.com/vk/contentgraph/internal/state"
)

func newTestResolver(t *testing.T) (*state.Resolver, *field.Descriptor) {
	t.Helper()
	table := field.NewTable()
	d := field.NewDescriptor("response", field.ScopeComponent, "")
	require.NoError(t, table.Register(d))
	return state.New(table, inmemorystate.New()), d
}

func TestList_PreservesInputOrder(t *testing.T) {
	r, d := newTestResolver(t)
	ctx := context.Background()

	require.NoError(t, r.Write(ctx, d, "alpha", state.WriteOptions{ID: "a"}))
	require.NoError(t, r.Write(ctx, d, "gamma", state.WriteOptions{ID: "c"}))

	got := List(ctx, r, d, []string{"a", "b", "c"}, "none")
	assert.Equal(t, []any{"alpha", "none", "gamma"}, got)
}

func TestList_DuplicateIDsYieldDuplicateValues(t *testing.T) {
	r, d := newTestResolver(t)
	ctx := context.Background()

	require.NoError(t, r.Write(ctx, d, "v", state.WriteOptions{ID: "a"}))

	got := List(ctx, r, d, []string{"a", "a"}, nil)
	assert.Equal(t, []any{"v", "v"}, got)
}

func TestList_EmptyTargets(t *testing.T) {
	r, d := newTestResolver(t)

	got := List(context.Background(), r, d, nil, "x")
	assert.Empty(t, got)
}

func TestByID_MapsValues(t *testing.T) {
	r, d := newTestResolver(t)
	ctx := context.Background()

	require.NoError(t, r.Write(ctx, d, "alpha", state.WriteOptions{ID: "a"}))

	got := ByID(ctx, r, d, []string{"a", "b"}, "none")
	assert.Equal(t, map[string]any{"a": "alpha", "b": "none"}, got)
}

func TestByID_DuplicateIDsCollapse(t *testing.T) {
	r, d := newTestResolver(t)
	ctx := context.Background()

	require.NoError(t, r.Write(ctx, d, "v", state.WriteOptions{ID: "a"}))

	got := ByID(ctx, r, d, []string{"a", "a"}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "v", got["a"])
}
