package inmemorystate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/contentgraph/internal/field"
	"github.com/vk/contentgraph/internal/statekey"
)

func testKey(id string) statekey.Key {
	return statekey.Resolve(field.ScopeComponent, id, "", "response")
}

func TestGet_Unset(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, testKey("a"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetThenGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, testKey("a"), "hello"))

	v, ok, err := s.Get(ctx, testKey("a"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestSubscribe_ExactKeyOnly(t *testing.T) {
	s := New()
	ctx := context.Background()

	var notified []any
	cancel := s.Subscribe(testKey("a"), func(key statekey.Key, value any) {
		notified = append(notified, value)
	})
	defer cancel()

	// A write to an unrelated key must not notify.
	require.NoError(t, s.Set(ctx, testKey("b"), "other"))
	assert.Empty(t, notified)

	// A write to the subscribed key notifies synchronously.
	require.NoError(t, s.Set(ctx, testKey("a"), "one"))
	require.NoError(t, s.Set(ctx, testKey("a"), "two"))
	assert.Equal(t, []any{"one", "two"}, notified)
}

func TestSubscribe_Cancel(t *testing.T) {
	s := New()
	ctx := context.Background()

	count := 0
	cancel := s.Subscribe(testKey("a"), func(statekey.Key, any) {
		count++
	})

	require.NoError(t, s.Set(ctx, testKey("a"), 1))
	cancel()
	cancel() // safe to call twice
	require.NoError(t, s.Set(ctx, testKey("a"), 2))

	assert.Equal(t, 1, count)
}

func TestSubscriberMayReadState(t *testing.T) {
	s := New()
	ctx := context.Background()

	var seen any
	cancel := s.Subscribe(testKey("a"), func(key statekey.Key, value any) {
		v, ok, err := s.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		seen = v
	})
	defer cancel()

	require.NoError(t, s.Set(ctx, testKey("a"), "ready"))
	assert.Equal(t, "ready", seen)
}
